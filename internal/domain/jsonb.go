package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// scanJSON decodes a JSONB column into dst. NULL leaves dst untouched.
func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
}

func valueJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Strings is a list of strings stored as a JSONB array.
type Strings []string

func (s *Strings) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func (s Strings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return valueJSON([]string(s))
}
