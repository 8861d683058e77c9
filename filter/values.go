package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// scalar decodes a JSON string, number, bool or null. Integral numbers
// become int64, other numbers float64.
func scalar(path string, raw json.RawMessage) (any, error) {
	switch firstByte(raw) {
	case '[', '{':
		return nil, fmt.Errorf("%s: %w: expected a scalar value, found %s", path, ErrSyntax, abbrev(raw))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrSyntax, err)
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", path, ErrSyntax, err)
		}
		return f, nil
	}
	return v, nil
}

func firstByte(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 {
		return raw[0]
	}
	return 0
}

// abbrev shortens raw JSON for error messages.
func abbrev(raw []byte) string {
	const limit = 32
	raw = bytes.TrimSpace(raw)
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
