package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a free-text field that also accepts JSON numbers and booleans,
// as generative output often writes "total": 10. Objects and arrays
// decode to empty text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return err
		}
		*t = Text(strconv.FormatBool(b))
	case '{', '[':
		*t = ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Text(n.String())
	}
	return nil
}

// MedicationList decodes a JSON array of medication entries one entry at a
// time. An entry that does not decode is kept as an empty, incomplete
// entry so the rest of the list still counts. Anything other than an
// array or null is an error.
type MedicationList []MedicationInput

func (l *MedicationList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}
	out := make(MedicationList, 0, len(raw))
	for _, entry := range raw {
		var m MedicationInput
		if err := json.Unmarshal(entry, &m); err != nil {
			m = MedicationInput{}
		}
		out = append(out, m)
	}
	*l = out
	return nil
}
