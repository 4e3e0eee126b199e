package m3u

import (
	"regexp"
	"strings"

	"github.com/samber/mo"
	"github.com/xybydy/stremio-m3u/types"
)

const (
	// Marker is the first line of every playlist.
	Marker = "#EXTM3U"
	// extinfPrefix marks an entry of unlimited duration.
	extinfPrefix = "#EXTINF:-1"

	unknownName = "Unknown"
	// metadataImageHost is the image CDN whose poster file names are TMDB IDs.
	metadataImageHost = "tmdb.org"
)

var posterIDPattern = regexp.MustCompile(`/(\d+)\.jpg`)

// ExternalIDFromPoster extracts a TMDB ID from a poster URL like "https://image.tmdb.org/t/p/w500/500.jpg".
// It's a heuristic: other hosts, other extensions and non-numeric file names all yield None.
func ExternalIDFromPoster(poster string) mo.Option[string] {
	if poster == "" || !strings.Contains(poster, metadataImageHost) {
		return mo.None[string]()
	}
	match := posterIDPattern.FindStringSubmatch(poster)
	if match == nil {
		return mo.None[string]()
	}
	return mo.Some(match[1])
}

// ExternalID resolves the tvg-id of a record.
// An ID that is purely numeric, or starts with "tt" (which is stripped), is used as is.
// Locally assigned numeric IDs are indistinguishable from external ones and pass as well.
// Otherwise the poster URL is tried. A bare "tt" yields None without looking at the poster.
func ExternalID(r types.Record) mo.Option[string] {
	id := r.Identifier()
	if strings.HasPrefix(id, "tt") || isDigits(id) {
		return mo.EmptyableToOption(strings.TrimPrefix(id, "tt"))
	}
	return r.PosterURL().FlatMap(ExternalIDFromPoster)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Header is the #EXTINF line of an entry plus the values it was built from, so statistics don't need to parse it.
type Header struct {
	Line       string
	Group      string
	ExternalID mo.Option[string]
}

// String returns the #EXTINF line.
func (h Header) String() string {
	return h.Line
}

// NewHeader builds the header for a record:
//
//	#EXTINF:-1 [tvg-id="ID"] tvg-name="NAME" [tvg-logo="URL"] group-title="GROUP", TITLE
//
// Values are written verbatim. Quotes or commas inside them aren't escaped, as playlist consumers don't unescape either.
func NewHeader(r types.Record, ct ContentType) Header {
	externalID := ExternalID(r)
	name := r.DisplayName().OrElse(unknownName)
	group := ct.Group()

	parts := []string{extinfPrefix}
	if id, ok := externalID.Get(); ok {
		parts = append(parts, `tvg-id="`+id+`"`)
	}
	parts = append(parts, `tvg-name="`+name+`"`)
	if poster, ok := r.PosterURL().Get(); ok {
		parts = append(parts, `tvg-logo="`+poster+`"`)
	}
	parts = append(parts, `group-title="`+group+`"`)

	title := name
	if year, ok := r.ReleaseYear().Get(); ok {
		title = name + " (" + year + ")"
	}

	return Header{
		Line:       strings.Join(parts, " ") + ", " + title,
		Group:      group,
		ExternalID: externalID,
	}
}

// BuildHeader returns only the #EXTINF line of NewHeader.
func BuildHeader(r types.Record, ct ContentType) string {
	return NewHeader(r, ct).Line
}
