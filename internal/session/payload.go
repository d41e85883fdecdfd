// Package session defines the persisted session payload document and the
// version-migration chain that upgrades historical payloads to the current
// schema before the purchase aggregate is rehydrated.
package session

// Payload is a versioned, JSON-shaped session document as stored by the
// session store. Values arrive with JSON types: numbers may be float64, int,
// or int64 depending on the decoder, and the accessors absorb the difference.
type Payload map[string]any

// Has reports whether the key is present with a non-nil value.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the string at key, empty when absent or of another type.
func (p Payload) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the integer at key, absorbing JSON number widths.
func (p Payload) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the bool at key, false when absent.
func (p Payload) Bool(key string) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return false
}

// Float returns the float at key, absorbing JSON number widths.
func (p Payload) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Map returns the nested document at key, nil when absent.
func (p Payload) Map(key string) Payload {
	switch v := p[key].(type) {
	case Payload:
		return v
	case map[string]any:
		return Payload(v)
	}
	return nil
}

// Slice returns the list at key, nil when absent.
func (p Payload) Slice(key string) []any {
	if s, ok := p[key].([]any); ok {
		return s
	}
	return nil
}

// StringSlice returns the list at key coerced to strings.
func (p Payload) StringSlice(key string) []string {
	raw := p.Slice(key)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// MapSlice returns the list at key coerced to nested documents.
func (p Payload) MapSlice(key string) []Payload {
	raw := p.Slice(key)
	if raw == nil {
		return nil
	}
	out := make([]Payload, 0, len(raw))
	for _, v := range raw {
		switch m := v.(type) {
		case Payload:
			out = append(out, m)
		case map[string]any:
			out = append(out, Payload(m))
		}
	}
	return out
}

// Clone deep-copies the payload so migrations never mutate the caller's copy.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Payload:
		return val.Clone()
	case map[string]any:
		return Payload(val).Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
