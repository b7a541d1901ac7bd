package validator

import (
	"fmt"

	"github.com/bigbio/sdrf-go/pkg/schema"
)

// Param decoding helpers. Schema params arrive as map[string]any from the
// YAML decoder, so numbers may be int, uint64 or float64 depending on how
// they were written.

func stringParam(spec schema.ValidatorSpec, key string) (string, bool, error) {
	raw, ok := spec.Params[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("param %q must be a string, got %T", key, raw)
	}
	return s, true, nil
}

func stringSliceParam(spec schema.ValidatorSpec, key string) ([]string, bool, error) {
	raw, ok := spec.Params[key]
	if !ok {
		return nil, false, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, false, fmt.Errorf("param %q must be a list of strings, got %T", key, raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false, fmt.Errorf("param %q must be a list of strings, got element %T", key, item)
		}
		out = append(out, s)
	}
	return out, true, nil
}

func boolParam(spec schema.ValidatorSpec, key string, fallback bool) (bool, error) {
	raw, ok := spec.Params[key]
	if !ok {
		return fallback, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("param %q must be a bool, got %T", key, raw)
	}
	return b, nil
}

func intParam(spec schema.ValidatorSpec, key string) (int, bool, error) {
	raw, ok := spec.Params[key]
	if !ok {
		return 0, false, nil
	}
	switch n := raw.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case uint64:
		return int(n), true, nil
	case float64:
		return int(n), true, nil
	default:
		return 0, false, fmt.Errorf("param %q must be an integer, got %T", key, raw)
	}
}
