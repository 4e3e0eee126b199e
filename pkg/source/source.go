// Package source turns upstream catalogs into playlist entries.
//
// Every source is best-effort: a missing document, meta or stream list skips the affected item
// and is recorded in the Report, but never stops the source or the run.
package source

import (
	"context"
	"errors"

	"github.com/samber/mo"
	"github.com/xybydy/stremio-m3u/pkg/m3u"
)

var (
	// ErrMissingID means a catalog item or episode had no ID to look it up by.
	ErrMissingID = errors.New("missing id")
	// ErrMetaUnavailable means the meta document couldn't be fetched or had no meta object.
	ErrMetaUnavailable = errors.New("meta unavailable")
	// ErrNoStreams means the stream list couldn't be fetched or didn't contain a URL.
	ErrNoStreams = errors.New("no streams")
	// ErrNoEpisodes means a series had no episode that yielded a stream.
	ErrNoEpisodes = errors.New("no episodes")
	// ErrFiltered means an item was dropped on purpose, like a movie outside the category allow-list.
	ErrFiltered = errors.New("filtered")
	// ErrMalformed means an element of an upstream document couldn't be decoded. Its siblings are kept.
	ErrMalformed = errors.New("malformed")
	// ErrCatalogUnavailable means the source document itself couldn't be fetched.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Source produces playlist entries in a deterministic order.
type Source interface {
	Name() string
	Collect(ctx context.Context) ([]m3u.Entry, Report)
}

// Report accounts for one Collect call.
type Report struct {
	Name string
	// Items is the number of items the source considered processed.
	Items int
	// Entries is the number of entries produced, before deduplication.
	Entries int
	// Skipped counts skipped items and episodes per reason.
	Skipped map[string]int
}

func newReport(name string) Report {
	return Report{
		Name:    name,
		Skipped: map[string]int{},
	}
}

func (r *Report) skip(err error) {
	r.skipN(err, 1)
}

func (r *Report) skipN(err error, n int) {
	if n > 0 {
		r.Skipped[err.Error()] += n
	}
}

// add records the result of one item and returns its entries.
func (r *Report) add(res mo.Result[[]m3u.Entry]) []m3u.Entry {
	entries, err := res.Get()
	if err != nil {
		r.skip(err)
		return nil
	}
	r.Entries += len(entries)
	return entries
}

// SkippedTotal sums Skipped over all reasons.
func (r Report) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}
