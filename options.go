package stremiom3u

import (
	"io"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options are the options that can be used to configure the extractor.
type Options struct {
	// URL of the static catalog document with "movies" and "series".
	// Default "https://raw.githubusercontent.com/Zerr0-C00L/Balkan-On-Demand/main/data/baubau-content-full-backup.json".
	StaticCatalogURL string
	// Movie categories of the static catalog to keep. Default source.DomesticCategories.
	Categories []string
	// Base URL of the Stremio addon with the paginated catalogs.
	// Default "https://domaci-flixx.vercel.app".
	AddonURL string
	// Catalog IDs within the addon. Default "domaci_filmovi" and "domaci_serije".
	MovieCatalogID  string
	SeriesCatalogID string
	// Each source can be turned off. At least one must stay on.
	DisableStatic bool
	DisableMovies bool
	DisableSeries bool

	// Path of the playlist file. Parent directories are created.
	// Default "channels/balkan_vod_repos.m3u".
	OutputFile string
	// Path to write run metrics to, in Prometheus text format. Optional.
	MetricsFile string
	// Filesystem the playlist and metrics are written to. Default the OS filesystem.
	Fs afero.Fs
	// Writer for progress and summary lines. Default os.Stdout.
	Output io.Writer

	// Timeout per fetch. Default 30s.
	Timeout time.Duration
	// Tries per URL. Default 1.
	FetchAttempts uint
	// Delay between tries. Only relevant when FetchAttempts > 1. Default 500ms.
	RetryDelay time.Duration
	// User-Agent sent upstream. Default "StreamArr-Extractor/1.0".
	UserAgent string
	// Transport for upstream requests. Default http.DefaultTransport.
	Transport http.RoundTripper
	// Number of catalog items processed at the same time. Default 1.
	// The playlist is the same for every value.
	Concurrency int

	// Logger to use. If nil, a logger is created with LoggingLevel and LogEncoding.
	Logger *zap.Logger
	// "debug", "info", "warn" or "error". Default "info".
	LoggingLevel string
	// "console" or "json". Default "console".
	LogEncoding string
}

// DefaultOptions is an Options object with default values.
// For fields that aren't set here the zero value is the default value.
var DefaultOptions = Options{
	StaticCatalogURL: "https://raw.githubusercontent.com/Zerr0-C00L/Balkan-On-Demand/main/data/baubau-content-full-backup.json",
	AddonURL:         "https://domaci-flixx.vercel.app",
	MovieCatalogID:   "domaci_filmovi",
	SeriesCatalogID:  "domaci_serije",
	OutputFile:       "channels/balkan_vod_repos.m3u",
	Timeout:          30 * time.Second,
	FetchAttempts:    1,
	RetryDelay:       500 * time.Millisecond,
	UserAgent:        "StreamArr-Extractor/1.0",
	Concurrency:      1,
	LoggingLevel:     "info",
	LogEncoding:      "console",
}
