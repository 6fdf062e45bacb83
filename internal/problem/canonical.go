package problem

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Hash returns the content-addressed identity of the problem: the SHA-256
// of its canonical JSON form. Two problems with the same meetings,
// candidate dates, and constraint set hash identically regardless of
// document formatting, constraint order, or date spelling. The run log
// keys recorded runs by this hash.
//
// The problem name is deliberately excluded - renaming a problem does
// not change what was solved.
func (p *Problem) Hash() (string, error) {
	dates := make([]any, len(p.Candidates))
	for i, t := range p.Candidates {
		dates[i] = t.Format(time.RFC3339)
	}

	constraints := make([]any, 0, p.Constraints.Len())
	for _, c := range p.Constraints.All() {
		entry := map[string]any{
			"left": c.Left(),
			"op":   c.Op().String(),
		}
		if r, ok := c.RightVar(); ok {
			entry["right"] = r
		} else if t, ok := c.RightTime(); ok {
			entry["right"] = t.Format(time.RFC3339)
		}
		constraints = append(constraints, entry)
	}
	// Constraint sets have no inherent order; sort by canonical form so
	// insertion order cannot leak into the hash.
	rendered := make([]string, len(constraints))
	for i, entry := range constraints {
		b, err := marshalCanonical(entry)
		if err != nil {
			return "", fmt.Errorf("hash problem: %w", err)
		}
		rendered[i] = string(b)
	}
	sort.Sort(&parallelSort{keys: rendered, values: constraints})

	canonical, err := marshalCanonical(map[string]any{
		"meetings":    p.Meetings,
		"dates":       dates,
		"constraints": constraints,
	})
	if err != nil {
		return "", fmt.Errorf("hash problem: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// marshalCanonical produces canonical JSON in the RFC 8785 style: object
// keys sorted by UTF-16 code units, strings NFC-normalized, no HTML
// escaping, no floats, no nulls. Only the shapes the problem hash needs
// are supported.
func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
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
		sort.Slice(keys, func(i, j int) bool { return lessUTF16(keys[i], keys[j]) })

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := marshalCanonicalString(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := marshalCanonical(val[k])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString encodes a string with NFC normalization and
// without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline.
	out := buf.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out, nil
}

// lessUTF16 orders strings by UTF-16 code units, the RFC 8785 key order.
func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// parallelSort sorts values by their pre-rendered canonical keys.
type parallelSort struct {
	keys   []string
	values []any
}

func (p *parallelSort) Len() int           { return len(p.keys) }
func (p *parallelSort) Less(i, j int) bool { return p.keys[i] < p.keys[j] }
func (p *parallelSort) Swap(i, j int) {
	p.keys[i], p.keys[j] = p.keys[j], p.keys[i]
	p.values[i], p.values[j] = p.values[j], p.values[i]
}
