package catalog

import (
	"encoding/json"
	"fmt"
)

// container keys accepted for user catalogs that wrap their list in a
// mapping instead of supplying a bare array.
var containerKeys = []string{"menu", "items", "channels"}

// ItemsFromDocument parses a user-supplied catalog document: either a bare
// list of item records, a single record, or a mapping holding the list under
// one of the known container keys.
func ItemsFromDocument(raw []byte) ([]Item, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	items := FromValue(decoded)
	if items == nil {
		return nil, fmt.Errorf("catalog document has no item list")
	}
	return items, nil
}

// FromValue converts an already-decoded JSON value into a list of items.
// Returns nil when the value holds no usable records.
func FromValue(v any) []Item {
	switch vv := v.(type) {
	case []any:
		return fromSlice(vv)
	case map[string]any:
		for _, key := range containerKeys {
			if inner, ok := vv[key].([]any); ok {
				return fromSlice(inner)
			}
		}
		return []Item{Item(vv)}
	case []Item:
		return vv
	case Item:
		return []Item{vv}
	}
	return nil
}

func fromSlice(raw []any) []Item {
	items := make([]Item, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			items = append(items, Item(m))
		}
	}
	return items
}
