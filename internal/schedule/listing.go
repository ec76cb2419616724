package schedule

import (
	"bytes"
	"encoding/json"

	"github.com/Domenick1991/busbooking/internal/domain"
)

// envelopeKeys are the wrapper fields a listing may arrive in, in lookup order.
var envelopeKeys = []string{"content", "data"}

// DecodeItems extracts the list out of a bare array or a {content}/{data}
// envelope. Any other JSON shape yields an empty list.
func DecodeItems(raw json.RawMessage) ([]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformed, Message: "response is not valid JSON", Err: err}
	}

	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if items, ok := t[key].([]any); ok {
				return items, nil
			}
		}
	}
	return nil, nil
}

// DecodeListing returns the route records of a listing; non-object entries are skipped.
func DecodeListing(raw json.RawMessage) ([]Record, error) {
	items, err := DecodeItems(raw)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, Record(obj))
		}
	}
	return records, nil
}

// DecodeRoutes decodes and normalizes a listing in one step.
func DecodeRoutes(raw json.RawMessage) ([]domain.Route, error) {
	records, err := DecodeListing(raw)
	if err != nil {
		return nil, err
	}
	routes := make([]domain.Route, 0, len(records))
	for _, rec := range records {
		routes = append(routes, NormalizeRoute(rec))
	}
	return routes, nil
}
