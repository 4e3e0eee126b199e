package types

// Manifest describes the capabilities of an addon.
// Only the parts needed to discover catalogs are decoded.
// See https://github.com/Stremio/stremio-addon-sdk/blob/f6f1f2a8b627b9d4f2c62b003b251d98adadbebe/docs/api/responses/manifest.md
type Manifest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`

	Types    []string      `json:"types,omitempty"` // Stremio supports "movie", "series", "channel" and "tv"
	Catalogs []CatalogItem `json:"catalogs"`
}

// CatalogItem represents a catalog.
type CatalogItem struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`

	// Optional
	Extra []ExtraItem `json:"extra,omitempty"`
}

// Pageable reports whether the catalog accepts the "skip" extra.
func (ci CatalogItem) Pageable() bool {
	for _, e := range ci.Extra {
		if e.Name == "skip" {
			return true
		}
	}
	return false
}

type ExtraItem struct {
	Name string `json:"name"`

	// Optional
	IsRequired bool     `json:"isRequired,omitempty"`
	Options    []string `json:"options,omitempty"`
}

// CatalogsOfType returns the catalogs of the given type in manifest order.
func (m Manifest) CatalogsOfType(t string) []CatalogItem {
	var catalogs []CatalogItem
	for _, c := range m.Catalogs {
		if c.Type == t {
			catalogs = append(catalogs, c)
		}
	}
	return catalogs
}
