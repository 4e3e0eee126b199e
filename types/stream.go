package types

import (
	"encoding/json"
)

// StreamItem represents a stream for a MetaItem or one of its videos.
// Only HTTP streams end up in a playlist, so URL is the only field decoded; streams without one are ignored.
// See https://github.com/Stremio/stremio-addon-sdk/blob/f6f1f2a8b627b9d4f2c62b003b251d98adadbebe/docs/api/responses/stream.md
type StreamItem struct {
	URL string `json:"url,omitempty"` // URL
}

// StreamResponse is the body of /stream/{type}/{id}.json.
type StreamResponse struct {
	Streams []StreamItem `json:"streams,omitempty"`
	// Malformed is the number of streams that couldn't be decoded.
	Malformed int `json:"-"`
}

// UnmarshalJSON decodes every stream on its own, so one odd stream doesn't cost the others.
func (r *StreamResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Streams json.RawMessage `json:"streams"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Streams, r.Malformed = decodeEach[StreamItem](raw.Streams)
	return nil
}

// URLs returns the non-empty stream URLs in upstream order.
func (r StreamResponse) URLs() []string {
	urls := make([]string, 0, len(r.Streams))
	for _, s := range r.Streams {
		if s.URL != "" {
			urls = append(urls, s.URL)
		}
	}
	return urls
}
