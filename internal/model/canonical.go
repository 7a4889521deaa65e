package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Canonical produces a deterministic canonical JSON encoding of a
// QueryModel, suitable for content-addressed identity.
//
// Properties:
//  1. Object keys are emitted in sorted order.
//  2. Strings are NFC normalized at the serialization boundary, so two
//     models that differ only in Unicode normalization form encode
//     identically.
//  3. No HTML escaping (< > & appear literally), matching what the
//     predicates actually contain.
//  4. Empty lists encode as [] rather than being omitted, so adding an
//     empty slice never changes the encoding.
func Canonical(m *QueryModel) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("canonical: nil model")
	}

	selections := make([]any, len(m.Selections))
	for i, s := range m.Selections {
		selections[i] = map[string]any{
			"expression": s.Expression,
			"alias":      s.Alias,
		}
	}

	tables := make([]any, len(m.Tables))
	for i, t := range m.Tables {
		tables[i] = map[string]any{
			"name":  t.Name,
			"alias": t.Alias,
		}
	}

	joins := make([]any, len(m.Joins))
	for i, j := range m.Joins {
		joins[i] = map[string]any{
			"left":      map[string]any{"name": j.Left.Name, "alias": j.Left.Alias},
			"right":     map[string]any{"name": j.Right.Name, "alias": j.Right.Alias},
			"predicate": j.Predicate,
			"order_key": j.OrderKey,
			"type":      int64(j.Type),
		}
	}

	doc := map[string]any{
		"distinct":   m.Distinct,
		"selections": selections,
		"tables":     tables,
		"joins":      joins,
		"where":      stringsToAny(m.Where),
		"group_by":   stringsToAny(m.GroupBy),
		"order_by":   stringsToAny(m.OrderBy),
	}

	return marshalCanonical(doc)
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// marshalCanonical encodes the restricted value vocabulary used by
// Canonical: strings, int64, bool, []any, map[string]any.
func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := marshalCanonical(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := marshalCanonicalString(k)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := marshalCanonical(val[k])
			if err != nil {
				return nil, fmt.Errorf("value for key %q: %w", k, err)
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString encodes a string with NFC normalization and
// HTML escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it.
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}
