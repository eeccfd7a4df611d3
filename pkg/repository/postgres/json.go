package postgres

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// column is one JSON-encoded column and the value it decodes into.
type column struct {
	name string
	raw  []byte
	dst  any
}

func unmarshalColumns(cols ...column) error {
	for _, c := range cols {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil {
			return fmt.Errorf("decode %s: %w", c.name, err)
		}
	}
	return nil
}

// marshalList encodes a slice, writing nil slices as [] rather than null.
func marshalList(v any) ([]byte, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}
