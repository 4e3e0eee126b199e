package source

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/xybydy/stremio-m3u/pkg/fetch"
	"github.com/xybydy/stremio-m3u/pkg/m3u"
	"github.com/xybydy/stremio-m3u/types"
	"go.uber.org/zap"
)

// DomesticCategories are the movie categories of the Balkan-On-Demand dump with ex-YU content.
var DomesticCategories = []string{
	"EX YU FILMOVI",
	"EX YU SERIJE",
	"EXYU SERIJE",
	"EXYU SERIJE KOJE SE EMITUJU",
	"KLIK PREMIJERA",
	"KLASICI",
	"FILMSKI KLASICI",
	"Bolji Zivot",
	"Bela Ladja",
	"Policajac Sa Petlovog Brda",
	"Slatke Muke",
}

// Static reads a StaticCatalog document with embedded streams.
// Movies must match one of Categories exactly, series are all taken.
type Static struct {
	url        string
	categories []string
	client     *fetch.Client
	logger     *zap.Logger
	out        io.Writer
}

// NewStatic creates a Static source. A nil categories slice means DomesticCategories.
func NewStatic(url string, categories []string, client *fetch.Client, logger *zap.Logger, out io.Writer) *Static {
	if categories == nil {
		categories = DomesticCategories
	}
	return &Static{
		url:        url,
		categories: categories,
		client:     client,
		logger:     logger,
		out:        out,
	}
}

func (s *Static) Name() string {
	return "static"
}

// Collect emits one entry per stream of every kept item. Items are counted only if they have a stream.
func (s *Static) Collect(ctx context.Context) ([]m3u.Entry, Report) {
	report := newReport(s.Name())
	fmt.Fprintln(s.out, "Fetching static catalog...")

	catalog, ok := fetch.JSON[types.StaticCatalog](ctx, s.client, s.url).Get()
	if !ok {
		report.skip(ErrCatalogUnavailable)
		return nil, report
	}

	report.skipN(ErrMalformed, catalog.Malformed)

	var entries []m3u.Entry
	movies, series := 0, 0

	for _, movie := range catalog.Movies {
		res := s.movie(movie)
		if res.IsOk() {
			movies++
		}
		entries = append(entries, report.add(res)...)
	}
	for _, show := range catalog.Series {
		res := item(show, m3u.Series)
		if res.IsOk() {
			series++
		}
		entries = append(entries, report.add(res)...)
	}

	report.Items = movies + series
	fmt.Fprintf(s.out, "   Loaded %d domestic movies + %d domestic series\n", movies, series)
	s.logger.Debug("Collected static catalog", zap.String("url", s.url), zap.Int("entries", len(entries)))

	return entries, report
}

func (s *Static) movie(i types.StaticItem) mo.Result[[]m3u.Entry] {
	if !lo.Contains(s.categories, string(i.Category)) {
		return mo.Err[[]m3u.Entry](ErrFiltered)
	}
	return item(i, m3u.Movie)
}

// item builds the header once and reuses it for all streams of the item.
func item(i types.StaticItem, ct m3u.ContentType) mo.Result[[]m3u.Entry] {
	urls := i.StreamURLs()
	if len(urls) == 0 {
		return mo.Err[[]m3u.Entry](ErrNoStreams)
	}
	return mo.Ok(m3u.NewEntries(m3u.NewHeader(i.Record, ct), urls))
}
