// Command stremio-m3u extracts the ex-YU catalogs of Balkan-On-Demand and DomaciFlix into one M3U playlist.
//
// Without arguments it runs the full extraction with the default upstreams and writes channels/balkan_vod_repos.m3u.
// Every flag can also be set with an environment variable, e.g. --addon-url as STREMIO_M3U_ADDON_URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	stremiom3u "github.com/xybydy/stremio-m3u"
)

// Configuration keys. Flags have the same names.
const (
	keyStaticURL     = "static-url"
	keyCategories    = "categories"
	keyAddonURL      = "addon-url"
	keyMovieCatalog  = "movie-catalog"
	keySeriesCatalog = "series-catalog"
	keyNoStatic      = "no-static"
	keyNoMovies      = "no-movies"
	keyNoSeries      = "no-series"
	keyOutput        = "output"
	keyMetrics       = "metrics"
	keyTimeout       = "timeout"
	keyAttempts      = "attempts"
	keyRetryDelay    = "retry-delay"
	keyConcurrency   = "concurrency"
	keyLogLevel      = "log-level"
	keyLogEncoding   = "log-encoding"
)

const envPrefix = "STREMIO_M3U"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(viper.New()).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stremio-m3u",
		Short:         "Extract ex-YU movie and series catalogs into an M3U playlist",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := optionsFrom(v)
			if err != nil {
				return err
			}
			opts.Output = cmd.OutOrStdout()
			return run(cmd, opts)
		},
	}

	d := stremiom3u.DefaultOptions
	flags := rootCmd.PersistentFlags()
	flags.String(keyStaticURL, d.StaticCatalogURL, "URL of the static catalog JSON")
	flags.String(keyCategories, "", "Comma-separated movie categories of the static catalog to keep (default: ex-YU categories)")
	flags.String(keyAddonURL, d.AddonURL, "Base URL of the Stremio addon with paginated catalogs")
	flags.String(keyMovieCatalog, d.MovieCatalogID, "Movie catalog ID of the addon")
	flags.String(keySeriesCatalog, d.SeriesCatalogID, "Series catalog ID of the addon")
	flags.Bool(keyNoStatic, false, "Skip the static catalog")
	flags.Bool(keyNoMovies, false, "Skip the addon movie catalog")
	flags.Bool(keyNoSeries, false, "Skip the addon series catalog")
	flags.StringP(keyOutput, "o", d.OutputFile, "Path of the playlist to write")
	flags.String(keyMetrics, "", "Path to write Prometheus metrics of the run to")
	flags.Duration(keyTimeout, d.Timeout, "Timeout per request")
	flags.Uint(keyAttempts, d.FetchAttempts, "Tries per request")
	flags.Duration(keyRetryDelay, d.RetryDelay, "Delay between tries")
	flags.Int(keyConcurrency, d.Concurrency, "Catalog items processed at the same time")
	flags.String(keyLogLevel, d.LoggingLevel, `Log level ("debug", "info", "warn" or "error")`)
	flags.String(keyLogEncoding, d.LogEncoding, `Log encoding ("console" or "json")`)

	lo.Must0(v.BindPFlags(flags))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(newCatalogsCmd(v))
	return rootCmd
}

func run(cmd *cobra.Command, opts stremiom3u.Options) error {
	extractor, err := stremiom3u.NewExtractor(opts)
	if err != nil {
		return fmt.Errorf("couldn't create extractor: %w", err)
	}
	if _, err := extractor.Run(cmd.Context()); err != nil {
		return err
	}
	return nil
}

func optionsFrom(v *viper.Viper) (stremiom3u.Options, error) {
	opts := stremiom3u.Options{
		StaticCatalogURL: v.GetString(keyStaticURL),
		Categories:       splitList(v.GetString(keyCategories)),
		AddonURL:         v.GetString(keyAddonURL),
		MovieCatalogID:   v.GetString(keyMovieCatalog),
		SeriesCatalogID:  v.GetString(keySeriesCatalog),
		DisableStatic:    v.GetBool(keyNoStatic),
		DisableMovies:    v.GetBool(keyNoMovies),
		DisableSeries:    v.GetBool(keyNoSeries),
		OutputFile:       v.GetString(keyOutput),
		MetricsFile:      v.GetString(keyMetrics),
		Timeout:          v.GetDuration(keyTimeout),
		FetchAttempts:    v.GetUint(keyAttempts),
		RetryDelay:       v.GetDuration(keyRetryDelay),
		Concurrency:      v.GetInt(keyConcurrency),
		LoggingLevel:     v.GetString(keyLogLevel),
		LogEncoding:      v.GetString(keyLogEncoding),
	}
	if opts.FetchAttempts == 0 {
		return opts, fmt.Errorf("--%s must be at least 1", keyAttempts)
	}
	return opts, nil
}

// splitList splits a comma-separated value. Entries are trimmed, empty ones dropped.
// It returns nil if nothing is left, so defaults apply.
func splitList(s string) []string {
	list := lo.FilterMap(strings.Split(s, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
	if len(list) == 0 {
		return nil
	}
	return list
}
