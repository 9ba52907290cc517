package card

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON reads a {"front": ..., "back": ...} object. Sides that are not JSON strings
// keep their compact JSON text, and a missing side is empty.
func (c *Card) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = Card{
		Front: TextValue(fields["front"]),
		Back:  TextValue(fields["back"]),
	}
	return nil
}

// TextValue returns a JSON string as it is and any other JSON value as its compact text.
// null and an absent value are empty.
func TextValue(value json.RawMessage) string {
	if len(value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return string(value)
	}
	return buf.String()
}
