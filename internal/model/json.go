package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Structured fields (readings, completed days, verse maps) are stored as JSON
// text columns, mirroring the record shapes of the client-side object stores
// this schema replaced.

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(dest any, src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dest)
	case string:
		return json.Unmarshal([]byte(s), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}
