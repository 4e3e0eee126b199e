// Package m3u builds extended M3U playlists out of catalog records.
package m3u

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Entry is one playable item of a playlist.
type Entry struct {
	Header Header
	URL    string
}

// NewEntries pairs one header with each URL.
func NewEntries(h Header, urls []string) []Entry {
	entries := make([]Entry, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, Entry{Header: h, URL: u})
	}
	return entries
}

// Dedupe drops every entry whose URL was already seen, keeping the first occurrence and the original order.
func Dedupe(entries []Entry) []Entry {
	return lo.UniqBy(entries, func(e Entry) string {
		return e.URL
	})
}

// Encode writes the playlist marker followed by one header line and one URL line per entry.
func Encode(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Marker); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\n%s\n", e.Header.Line, e.URL); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write encodes entries into the file at path, creating parent directories as needed.
// It returns the xxhash64 of the written content.
func Write(fs afero.Fs, path string, entries []Entry) (uint64, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, entries); err != nil {
		return 0, fmt.Errorf("couldn't encode playlist: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("couldn't create directory %s: %w", dir, err)
		}
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("couldn't open %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("couldn't write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("couldn't close %s: %w", path, err)
	}

	return xxhash.Sum64(buf.Bytes()), nil
}

// Stats summarizes a playlist.
type Stats struct {
	Total          int
	Movies         int
	Series         int
	WithExternalID int
}

// Summarize counts entries per group and entries carrying a tvg-id.
func Summarize(entries []Entry) Stats {
	s := Stats{Total: len(entries)}
	for _, e := range entries {
		switch e.Header.Group {
		case GroupMovies:
			s.Movies++
		case GroupSeries:
			s.Series++
		}
		if e.Header.ExternalID.IsPresent() {
			s.WithExternalID++
		}
	}
	return s
}

// ExternalIDPercent is the share of entries with a tvg-id, rounded down. It's 0 for an empty playlist.
func (s Stats) ExternalIDPercent() int {
	if s.Total == 0 {
		return 0
	}
	return s.WithExternalID * 100 / s.Total
}
