package types

import (
	"encoding/json"

	"github.com/samber/mo"
)

// Record holds the fields a playlist header is built from.
// Every upstream record shape (addon meta, static catalog item) embeds it.
type Record struct {
	ID     FlexString `json:"id"`
	Name   FlexString `json:"name,omitempty"`
	Poster FlexString `json:"poster,omitempty"` // URL
	Year   FlexString `json:"year,omitempty"`
}

// Identifier returns the raw record ID, which is empty when the upstream omitted it.
func (r Record) Identifier() string {
	return string(r.ID)
}

// DisplayName returns the record's name or None if it's missing or empty.
func (r Record) DisplayName() mo.Option[string] {
	return mo.EmptyableToOption(string(r.Name))
}

// PosterURL returns the poster URL or None.
func (r Record) PosterURL() mo.Option[string] {
	return mo.EmptyableToOption(string(r.Poster))
}

// ReleaseYear returns the year as text or None.
func (r Record) ReleaseYear() mo.Option[string] {
	return mo.EmptyableToOption(string(r.Year))
}

// MetaPreviewItem represents a meta preview item as returned within catalog responses.
// Only the ID is decoded: it's all that's needed to look up the full meta and the streams.
// See https://github.com/Stremio/stremio-addon-sdk/blob/f6f1f2a8b627b9d4f2c62b003b251d98adadbebe/docs/api/responses/meta.md#meta-preview-object
type MetaPreviewItem struct {
	ID FlexString `json:"id"`
}

// MetaItem represents a meta item as returned by the meta resource of an addon.
// See https://github.com/Stremio/stremio-addon-sdk/blob/f6f1f2a8b627b9d4f2c62b003b251d98adadbebe/docs/api/responses/meta.md
type MetaItem struct {
	Record

	// Optional
	Videos []VideoItem `json:"videos,omitempty"` // Episodes, series only
	// MalformedVideos is the number of videos that couldn't be decoded.
	MalformedVideos int `json:"-"`
}

// UnmarshalJSON decodes every video on its own, so one odd episode doesn't cost its siblings.
func (m *MetaItem) UnmarshalJSON(data []byte) error {
	type plain MetaItem
	var raw struct {
		plain
		Videos json.RawMessage `json:"videos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = MetaItem(raw.plain)
	m.Videos, m.MalformedVideos = decodeEach[VideoItem](raw.Videos)
	return nil
}

// VideoItem is an episode stub of a series.
// Its ID is what the stream resource expects, not the series ID.
type VideoItem struct {
	ID FlexString `json:"id"`
}

// CatalogResponse is the body of /catalog/{type}/{id}/skip={n}.json.
// A page without elements marks the end of the catalog.
type CatalogResponse struct {
	Metas []MetaPreviewItem `json:"metas,omitempty"`
	// Malformed is the number of metas that couldn't be decoded.
	Malformed int `json:"-"`
}

// UnmarshalJSON decodes every meta preview on its own. Undecodable ones are counted in Malformed.
func (r *CatalogResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Metas json.RawMessage `json:"metas"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Metas, r.Malformed = decodeEach[MetaPreviewItem](raw.Metas)
	return nil
}

// Len is the number of elements of the page, decodable or not.
func (r CatalogResponse) Len() int {
	return len(r.Metas) + r.Malformed
}

// MetaResponse is the body of /meta/{type}/{id}.json.
type MetaResponse struct {
	Meta *MetaItem `json:"meta,omitempty"`
}
