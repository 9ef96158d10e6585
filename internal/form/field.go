package form

import (
	"bytes"
	"encoding/json"
)

// Field is a raw form value. In JSON it accepts a string, a number or null,
// so API clients can send `"price": 12.5` or `"price": "12.5"` alike.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = Field(n.String())
	return nil
}

func (f Field) String() string {
	return string(f)
}
