package types

import (
	"encoding/json"
)

// StaticCatalog is a complete catalog dump published as one JSON document
// (Balkan-On-Demand's "baubau-content-full-backup.json" is the reference).
type StaticCatalog struct {
	Movies []StaticItem `json:"movies,omitempty"`
	Series []StaticItem `json:"series,omitempty"`
	// Malformed is the number of movies and series that couldn't be decoded.
	Malformed int `json:"-"`
}

// UnmarshalJSON decodes every movie and series on its own. Undecodable ones are counted in Malformed.
func (c *StaticCatalog) UnmarshalJSON(data []byte) error {
	var raw struct {
		Movies json.RawMessage `json:"movies"`
		Series json.RawMessage `json:"series"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var badMovies, badSeries int
	c.Movies, badMovies = decodeEach[StaticItem](raw.Movies)
	c.Series, badSeries = decodeEach[StaticItem](raw.Series)
	c.Malformed = badMovies + badSeries
	return nil
}

// StaticItem is a movie or series of a StaticCatalog. Streams are embedded instead of served by a stream resource.
type StaticItem struct {
	Record
	Category FlexString   `json:"category,omitempty"` // Movies only
	Streams  []StreamItem `json:"streams,omitempty"`
}

// UnmarshalJSON decodes streams one by one and drops the ones that don't decode.
func (i *StaticItem) UnmarshalJSON(data []byte) error {
	type plain StaticItem
	var raw struct {
		plain
		Streams json.RawMessage `json:"streams"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = StaticItem(raw.plain)
	i.Streams, _ = decodeEach[StreamItem](raw.Streams)
	return nil
}

// StreamURLs returns the non-empty stream URLs of the item.
func (i StaticItem) StreamURLs() []string {
	return StreamResponse{Streams: i.Streams}.URLs()
}
