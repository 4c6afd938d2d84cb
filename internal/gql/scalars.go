package gql

import (
	"encoding/json"
	"fmt"
	"sort"
)

// JSONObject preserves arbitrary JSON object values when fields are bound to the GraphQL JSONObject scalar.
type JSONObject map[string]json.RawMessage

// Strings decodes every value as a JSON string. Keys come back sorted.
func (o JSONObject) Strings() ([]string, map[string]string, error) {
	keys := make([]string, 0, len(o))
	values := make(map[string]string, len(o))
	for key, raw := range o {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		keys = append(keys, key)
		values[key] = value
	}
	sort.Strings(keys)
	return keys, values, nil
}
