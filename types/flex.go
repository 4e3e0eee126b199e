package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString is a string that upstreams sometimes encode as a JSON number, like "year": 1985 or "id": 12345.
// Both decode to their textual form. null, booleans, arrays and objects decode to the empty string,
// which every accessor treats as absent.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("couldn't decode string: %w", err)
		}
		*f = FlexString(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("couldn't decode number: %w", err)
		}
		*f = FlexString(n.String())
	default:
		*f = ""
	}
	return nil
}
