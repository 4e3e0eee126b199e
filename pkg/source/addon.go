package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/samber/mo"
	"github.com/xybydy/stremio-m3u/pkg/fetch"
	"github.com/xybydy/stremio-m3u/pkg/m3u"
	"github.com/xybydy/stremio-m3u/types"
	"go.uber.org/zap"
)

// PageSize is the number of items a Stremio catalog page holds. skip advances by it.
const PageSize = 100

// AddonOptions configures an Addon source.
type AddonOptions struct {
	// BaseURL of the addon, without trailing "/manifest.json".
	BaseURL string
	// CatalogID as listed in the addon manifest, e.g. "domaci_filmovi".
	CatalogID string
	// Type is Movie or Series. Series items are expanded into their episodes.
	Type m3u.ContentType
	// PageSize overrides the skip increment. Default PageSize.
	PageSize int
	// Concurrency is the number of items of a page that are processed at the same time. Default 1.
	// Output order doesn't depend on it.
	Concurrency int
}

// Addon pages through a catalog of a Stremio addon and resolves the meta and streams of each item.
// Paging stops at the first page without items. There's no page limit.
type Addon struct {
	opts   AddonOptions
	client *fetch.Client
	logger *zap.Logger
	out    io.Writer
}

// NewAddon creates an Addon source.
func NewAddon(opts AddonOptions, client *fetch.Client, logger *zap.Logger, out io.Writer) *Addon {
	opts.BaseURL = strings.TrimSuffix(strings.TrimSuffix(opts.BaseURL, "/manifest.json"), "/")
	if opts.Type != m3u.Series {
		opts.Type = m3u.Movie
	}
	if opts.PageSize <= 0 {
		opts.PageSize = PageSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Addon{
		opts:   opts,
		client: client,
		logger: logger,
		out:    out,
	}
}

func (a *Addon) Name() string {
	return a.opts.Type.String() + "/" + a.opts.CatalogID
}

// Collect emits entries page by page, and within a page in catalog order.
func (a *Addon) Collect(ctx context.Context) ([]m3u.Entry, Report) {
	report := newReport(a.Name())
	noun := a.noun()
	fmt.Fprintf(a.out, "Fetching %s (all pages)...\n", a.Name())

	var entries []m3u.Entry
	for skip := 0; ; skip += a.opts.PageSize {
		if ctx.Err() != nil {
			a.logger.Warn("Stopped paging", zap.String("catalog", a.Name()), zap.Error(ctx.Err()))
			break
		}

		page, ok := fetch.JSON[types.CatalogResponse](ctx, a.client, a.catalogURL(skip)).Get()
		if !ok || page.Len() == 0 {
			break
		}

		report.Items += page.Len()
		report.skipN(ErrMalformed, page.Malformed)
		fmt.Fprintf(a.out, "   Page %d: %d %s (total: %d)\n", skip/a.opts.PageSize+1, page.Len(), noun, report.Items)

		for _, res := range a.processPage(ctx, page.Metas, &report) {
			entries = append(entries, report.add(res)...)
		}
	}

	fmt.Fprintf(a.out, "   Loaded %d %s total\n", report.Items, noun)
	return entries, report
}

// processPage returns one result per item, indexed like metas.
func (a *Addon) processPage(ctx context.Context, metas []types.MetaPreviewItem, report *Report) []mo.Result[[]m3u.Entry] {
	results := make([]mo.Result[[]m3u.Entry], len(metas))
	// Episode skips are collected per item and merged afterwards, so report isn't shared between goroutines.
	episodeSkips := make([]map[string]int, len(metas))

	sem := make(chan struct{}, a.opts.Concurrency)
	var wg sync.WaitGroup
	for i, meta := range metas {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			episodeSkips[i] = map[string]int{}
			results[i] = a.processItem(ctx, id, episodeSkips[i])
		}(i, string(meta.ID))
	}
	wg.Wait()

	for _, skips := range episodeSkips {
		for reason, n := range skips {
			report.Skipped["episode "+reason] += n
		}
	}
	return results
}

func (a *Addon) processItem(ctx context.Context, id string, episodeSkips map[string]int) mo.Result[[]m3u.Entry] {
	if id == "" {
		return mo.Err[[]m3u.Entry](ErrMissingID)
	}

	resp, ok := fetch.JSON[types.MetaResponse](ctx, a.client, a.resourceURL("meta", id)).Get()
	if !ok || resp.Meta == nil {
		return mo.Err[[]m3u.Entry](ErrMetaUnavailable)
	}
	meta := *resp.Meta

	if a.opts.Type == m3u.Series {
		return a.episodes(ctx, meta, episodeSkips)
	}

	urls := a.streamURLs(ctx, id)
	if len(urls) == 0 {
		return mo.Err[[]m3u.Entry](ErrNoStreams)
	}
	return mo.Ok(m3u.NewEntries(m3u.NewHeader(meta.Record, m3u.Movie), urls))
}

// episodes resolves the streams of every video of a series.
// All episodes share the series header, so they only differ by URL.
func (a *Addon) episodes(ctx context.Context, meta types.MetaItem, skips map[string]int) mo.Result[[]m3u.Entry] {
	header := m3u.NewHeader(meta.Record, m3u.Series)

	if meta.MalformedVideos > 0 {
		skips[ErrMalformed.Error()] += meta.MalformedVideos
	}

	var entries []m3u.Entry
	for _, video := range meta.Videos {
		id := string(video.ID)
		if id == "" {
			skips[ErrMissingID.Error()]++
			continue
		}
		urls := a.streamURLs(ctx, id)
		if len(urls) == 0 {
			skips[ErrNoStreams.Error()]++
			continue
		}
		entries = append(entries, m3u.NewEntries(header, urls)...)
	}

	if len(entries) == 0 {
		return mo.Err[[]m3u.Entry](ErrNoEpisodes)
	}
	return mo.Ok(entries)
}

func (a *Addon) streamURLs(ctx context.Context, id string) []string {
	resp, ok := fetch.JSON[types.StreamResponse](ctx, a.client, a.resourceURL("stream", id)).Get()
	if !ok {
		return nil
	}
	return resp.URLs()
}

func (a *Addon) catalogURL(skip int) string {
	return fmt.Sprintf("%s/catalog/%s/%s/skip=%d.json", a.opts.BaseURL, a.opts.Type, url.PathEscape(a.opts.CatalogID), skip)
}

func (a *Addon) resourceURL(resource, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s.json", a.opts.BaseURL, resource, a.opts.Type, url.PathEscape(id))
}

func (a *Addon) noun() string {
	if a.opts.Type == m3u.Series {
		return "series"
	}
	return "movies"
}
