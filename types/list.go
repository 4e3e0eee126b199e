package types

import (
	"encoding/json"
)

// decodeEach decodes a JSON array element by element.
// Elements that don't decode into a T are dropped and counted. Anything but an array yields no elements.
func decodeEach[T any](data json.RawMessage) ([]T, int) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0
	}

	items := make([]T, 0, len(raws))
	malformed := 0
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			malformed++
			continue
		}
		items = append(items, v)
	}
	return items, malformed
}
