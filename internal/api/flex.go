package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// flexValue accepts a JSON number or a JSON string and keeps its text, so
// that browser forms posting "15" and clients posting 15 are treated alike.
// null and absent both decode to "".
type flexValue string

func (v *flexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = flexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a number or a string, got %s", data)
	}
	*v = flexValue(n.String())
	return nil
}
