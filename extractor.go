// Package stremiom3u extracts the catalogs of content-listing services into one extended M3U playlist.
//
// An Extractor runs its sources one after another, deduplicates all entries by URL (first occurrence wins)
// and writes the result. Upstream failures only ever shrink the playlist, the only fatal error is failing
// to write the output.
package stremiom3u

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/afero"
	"github.com/xybydy/stremio-m3u/pkg/fetch"
	"github.com/xybydy/stremio-m3u/pkg/m3u"
	"github.com/xybydy/stremio-m3u/pkg/source"
	"github.com/xybydy/stremio-m3u/types"
	"go.uber.org/zap"
)

// Extractor builds a playlist from its sources.
// You can create one with NewExtractor() and then run it with Run().
type Extractor struct {
	sources []source.Source
	client  *fetch.Client
	metrics *metrics.Set
	opts    Options
	logger  *zap.Logger
	fs      afero.Fs
	out     io.Writer
}

// Summary describes a finished run.
type Summary struct {
	Reports []source.Report
	// Collected is the number of entries before deduplication.
	Collected int
	Stats     m3u.Stats
	// Checksum is the xxhash64 of the written playlist.
	Checksum   uint64
	OutputFile string
}

// NewExtractor creates a new Extractor object that can be started with Run().
// opts can be the zero value of Options.
func NewExtractor(opts Options) (*Extractor, error) {
	// Precondition checks
	switch {
	case opts.DisableStatic && opts.DisableMovies && opts.DisableSeries:
		return nil, ErrNoSource
	case opts.Logger != nil && opts.LoggingLevel != "":
		return nil, errors.New("setting a logging level in the options doesn't make sense when you already set a custom logger")
	case opts.Logger != nil && opts.LogEncoding != "":
		return nil, errors.New("setting a log encoding in the options doesn't make sense when you already set a custom logger")
	case opts.Concurrency < 0:
		return nil, errors.New("concurrency can't be negative")
	case opts.Timeout < 0 || opts.RetryDelay < 0:
		return nil, errors.New("timeout and retry delay can't be negative")
	}

	// Set default values
	if opts.StaticCatalogURL == "" {
		opts.StaticCatalogURL = DefaultOptions.StaticCatalogURL
	}
	if opts.AddonURL == "" {
		opts.AddonURL = DefaultOptions.AddonURL
	}
	opts.AddonURL = strings.TrimRight(strings.TrimSuffix(opts.AddonURL, "/manifest.json"), "/")
	if opts.MovieCatalogID == "" {
		opts.MovieCatalogID = DefaultOptions.MovieCatalogID
	}
	if opts.SeriesCatalogID == "" {
		opts.SeriesCatalogID = DefaultOptions.SeriesCatalogID
	}
	if opts.OutputFile == "" {
		opts.OutputFile = DefaultOptions.OutputFile
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultOptions.Timeout
	}
	if opts.FetchAttempts == 0 {
		opts.FetchAttempts = DefaultOptions.FetchAttempts
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultOptions.RetryDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions.UserAgent
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultOptions.Concurrency
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	// Configure logger if no custom one is set
	if opts.Logger == nil {
		if opts.LoggingLevel == "" {
			opts.LoggingLevel = DefaultOptions.LoggingLevel
		}
		if opts.LogEncoding == "" {
			opts.LogEncoding = DefaultOptions.LogEncoding
		}
		var err error
		if opts.Logger, err = NewLogger(opts.LoggingLevel, opts.LogEncoding); err != nil {
			return nil, fmt.Errorf("couldn't create new logger: %w", err)
		}
	}

	set := metrics.NewSet()
	client := fetch.NewClient(fetch.Options{
		Timeout:   opts.Timeout,
		Attempts:  opts.FetchAttempts,
		Delay:     opts.RetryDelay,
		UserAgent: opts.UserAgent,
		Transport: opts.Transport,
		Failures:  set.NewCounter("stremio_m3u_fetch_failures_total"),
	}, opts.Logger)

	// Order matters: it's the order of the playlist before deduplication.
	var sources []source.Source
	if !opts.DisableStatic {
		sources = append(sources, source.NewStatic(opts.StaticCatalogURL, opts.Categories, client, opts.Logger, opts.Output))
	}
	if !opts.DisableMovies {
		sources = append(sources, source.NewAddon(source.AddonOptions{
			BaseURL:     opts.AddonURL,
			CatalogID:   opts.MovieCatalogID,
			Type:        m3u.Movie,
			Concurrency: opts.Concurrency,
		}, client, opts.Logger, opts.Output))
	}
	if !opts.DisableSeries {
		sources = append(sources, source.NewAddon(source.AddonOptions{
			BaseURL:     opts.AddonURL,
			CatalogID:   opts.SeriesCatalogID,
			Type:        m3u.Series,
			Concurrency: opts.Concurrency,
		}, client, opts.Logger, opts.Output))
	}

	return &Extractor{
		sources: sources,
		client:  client,
		metrics: set,
		opts:    opts,
		logger:  opts.Logger,
		fs:      opts.Fs,
		out:     opts.Output,
	}, nil
}

// Run collects all sources, deduplicates the entries and writes the playlist.
// It only returns an error if the playlist couldn't be written.
func (e *Extractor) Run(ctx context.Context) (Summary, error) {
	summary := Summary{OutputFile: e.opts.OutputFile}

	var all []m3u.Entry
	for _, src := range e.sources {
		entries, report := src.Collect(ctx)
		e.record(report)
		summary.Reports = append(summary.Reports, report)
		all = append(all, entries...)
		e.logger.Info("Collected source",
			zap.String("source", report.Name),
			zap.Int("items", report.Items),
			zap.Int("entries", report.Entries),
			zap.Int("skipped", report.SkippedTotal()))
	}
	summary.Collected = len(all)

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, "Removing duplicates...")
	unique := m3u.Dedupe(all)
	fmt.Fprintf(e.out, "   %d total -> %d unique entries\n", len(all), len(unique))

	fmt.Fprintln(e.out)
	fmt.Fprintf(e.out, "Creating M3U file: %s\n", e.opts.OutputFile)
	checksum, err := m3u.Write(e.fs, e.opts.OutputFile, unique)
	if err != nil {
		return summary, fmt.Errorf("couldn't write playlist: %w", err)
	}
	summary.Checksum = checksum
	summary.Stats = m3u.Summarize(unique)
	e.printStats(summary)

	if e.opts.MetricsFile != "" {
		if err := e.writeMetrics(); err != nil {
			// Metrics never fail a run.
			e.logger.Error("Couldn't write metrics", zap.String("file", e.opts.MetricsFile), zap.Error(err))
		}
	}

	return summary, nil
}

// Manifest fetches the manifest of the configured addon.
func (e *Extractor) Manifest(ctx context.Context) (types.Manifest, error) {
	u := e.opts.AddonURL + "/manifest.json"
	manifest, ok := fetch.JSON[types.Manifest](ctx, e.client, u).Get()
	if !ok {
		return types.Manifest{}, fmt.Errorf("%w: %s", ErrManifestUnavailable, u)
	}
	return manifest, nil
}

// Metrics returns the metrics of all runs of this extractor.
func (e *Extractor) Metrics() *metrics.Set {
	return e.metrics
}

func (e *Extractor) record(r source.Report) {
	e.metrics.GetOrCreateCounter(fmt.Sprintf(`stremio_m3u_items_total{source=%q}`, r.Name)).Add(r.Items)
	e.metrics.GetOrCreateCounter(fmt.Sprintf(`stremio_m3u_entries_total{source=%q}`, r.Name)).Add(r.Entries)
	for reason, n := range r.Skipped {
		e.metrics.GetOrCreateCounter(fmt.Sprintf(`stremio_m3u_items_skipped_total{source=%q,reason=%q}`, r.Name, reason)).Add(n)
	}
}

func (e *Extractor) writeMetrics() error {
	var buf bytes.Buffer
	e.metrics.WritePrometheus(&buf)

	if dir := filepath.Dir(e.opts.MetricsFile); dir != "." {
		if err := e.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("couldn't create directory %s: %w", dir, err)
		}
	}
	return afero.WriteFile(e.fs, e.opts.MetricsFile, buf.Bytes(), 0o644)
}

func (e *Extractor) printStats(s Summary) {
	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, "M3U file created successfully!")
	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, "Statistics:")
	fmt.Fprintf(e.out, "   Total entries: %d\n", s.Stats.Total)
	fmt.Fprintf(e.out, "   Movies: %d\n", s.Stats.Movies)
	fmt.Fprintf(e.out, "   Series: %d\n", s.Stats.Series)
	fmt.Fprintf(e.out, "   With TMDB IDs: %d (%d%%)\n", s.Stats.WithExternalID, s.Stats.ExternalIDPercent())
	fmt.Fprintln(e.out)
	fmt.Fprintf(e.out, "File: %s (checksum %016x)\n", s.OutputFile, s.Checksum)
}
