package esdsl

import (
	"fmt"
	"sort"
)

var rangeOps = []RangeOp{GT, GTE, LT, LTE}

// Parse reads a rendered clause (as produced by Source, or decoded from JSON)
// back into typed values.
func Parse(src map[string]any) (Clause, error) {
	if len(src) != 1 {
		return nil, fmt.Errorf("esdsl: clause must have exactly one key, got %d", len(src))
	}

	for kind, raw := range src {
		body, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("esdsl: %s body must be an object, got %T", kind, raw)
		}

		switch kind {
		case "bool":
			return parseBool(body)
		case "exists":
			field, ok := body["field"].(string)
			if !ok {
				return nil, fmt.Errorf("esdsl: exists requires a string field")
			}
			return Exists{Field: field}, nil
		}

		field, value, err := singleField(kind, body)
		if err != nil {
			return nil, err
		}

		switch kind {
		case "term":
			return Term{Field: field, Value: value}, nil
		case "terms":
			values, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("esdsl: terms %q requires an array, got %T", field, value)
			}
			return Terms{Field: field, Values: values}, nil
		case "wildcard", "prefix":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("esdsl: %s %q requires a string, got %T", kind, field, value)
			}
			if kind == "wildcard" {
				return Wildcard{Field: field, Value: s}, nil
			}
			return Prefix{Field: field, Value: s}, nil
		case "range":
			return parseRange(field, value)
		default:
			return nil, fmt.Errorf("esdsl: unsupported clause type %q", kind)
		}
	}

	return nil, nil // unreachable
}

func singleField(kind string, body map[string]any) (string, any, error) {
	if len(body) != 1 {
		return "", nil, fmt.Errorf("esdsl: %s must target exactly one field, got %d", kind, len(body))
	}
	for field, value := range body {
		return field, value, nil
	}
	return "", nil, nil // unreachable
}

func parseRange(field string, raw any) (Clause, error) {
	params, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("esdsl: range %q requires an object, got %T", field, raw)
	}

	r := Range{Field: field}
	known := map[string]bool{"time_zone": true}
	for _, op := range rangeOps {
		known[string(op)] = true
		if v, ok := params[string(op)]; ok {
			r.Bounds = append(r.Bounds, Bound{Op: op, Value: v})
		}
	}
	if tz, ok := params["time_zone"]; ok {
		s, ok := tz.(string)
		if !ok {
			return nil, fmt.Errorf("esdsl: range %q time_zone must be a string", field)
		}
		r.TimeZone = s
	}

	var unknown []string
	for k := range params {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("esdsl: range %q has unsupported parameters %v", field, unknown)
	}

	return r, nil
}

func parseBool(body map[string]any) (Clause, error) {
	b := NewBool()
	for _, c := range Combinators {
		raw, ok := body[c.String()]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("esdsl: bool %s must be an array, got %T", c, raw)
		}
		for i, item := range list {
			src, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("esdsl: bool %s[%d] must be an object, got %T", c, i, item)
			}
			child, err := Parse(src)
			if err != nil {
				return nil, fmt.Errorf("bool %s[%d]: %w", c, i, err)
			}
			b.Add(child, c)
		}
	}

	for key := range body {
		if _, err := ParseCombinator(key); err != nil {
			return nil, err
		}
	}

	return b, nil
}
