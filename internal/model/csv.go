package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CSVList is a list of strings stored as a single comma-separated column
// but exposed as a JSON array.
type CSVList []string

func (l CSVList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *CSVList) UnmarshalJSON(data []byte) error {
	// Accept both an array and a pre-joined string.
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected array or string for list field")
	}
	*l = splitCSV(s)
	return nil
}

func (l CSVList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	return strings.Join(l, ","), nil
}

func (l *CSVList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case string:
		*l = splitCSV(v)
	case []byte:
		*l = splitCSV(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CSVList", src)
	}
	return nil
}

// Contains reports whether item is present, ignoring surrounding whitespace.
func (l CSVList) Contains(item string) bool {
	for _, v := range l {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(item)) {
			return true
		}
	}
	return false
}

func splitCSV(s string) CSVList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(CSVList, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
