package courier

import (
	"bytes"
	"encoding/json"
	"strings"
)

// flexString decodes a JSON string or number into its textual form
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// errorFlag decodes provider error indicators, which arrive as booleans,
// messages or numeric codes depending on the endpoint.
type errorFlag struct {
	Set     bool
	Message string
}

func (f *errorFlag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = errorFlag{}
	case bool:
		*f = errorFlag{Set: t}
	case string:
		*f = errorFlag{Set: t != "" && !strings.EqualFold(t, "false"), Message: t}
	case float64:
		*f = errorFlag{Set: t != 0}
	default:
		*f = errorFlag{Set: true, Message: string(data)}
	}
	return nil
}
