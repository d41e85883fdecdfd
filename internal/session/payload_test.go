package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadHas(t *testing.T) {
	p := Payload{"set": "x", "null": nil}

	assert.True(t, p.Has("set"))
	assert.False(t, p.Has("null"), "an explicit null counts as absent")
	assert.False(t, p.Has("missing"))
}

func TestPayloadNumberCoercion(t *testing.T) {
	// Decoders disagree on number width: encoding/json hands back float64,
	// in-memory documents carry int.
	p := Payload{
		"int":     42,
		"int64":   int64(43),
		"float":   44.0,
		"decimal": 9.99,
	}

	assert.Equal(t, 42, p.Int("int"))
	assert.Equal(t, 43, p.Int("int64"))
	assert.Equal(t, 44, p.Int("float"))
	assert.Equal(t, 0, p.Int("missing"))

	assert.Equal(t, 42.0, p.Float("int"))
	assert.Equal(t, 43.0, p.Float("int64"))
	assert.Equal(t, 9.99, p.Float("decimal"))
	assert.Equal(t, 0.0, p.Float("missing"))
}

func TestPayloadStringAndBool(t *testing.T) {
	p := Payload{"s": "hello", "b": true, "n": 7}

	assert.Equal(t, "hello", p.String("s"))
	assert.Equal(t, "", p.String("n"), "mismatched types read as zero values")
	assert.Equal(t, "", p.String("missing"))
	assert.True(t, p.Bool("b"))
	assert.False(t, p.Bool("s"))
}

func TestPayloadMapAbsorbsBothShapes(t *testing.T) {
	p := Payload{
		"typed": Payload{"k": "v"},
		"plain": map[string]any{"k": "v"},
		"other": "not a map",
	}

	assert.Equal(t, "v", p.Map("typed").String("k"))
	assert.Equal(t, "v", p.Map("plain").String("k"))
	assert.Nil(t, p.Map("other"))
	assert.Nil(t, p.Map("missing"))
}

func TestPayloadSlices(t *testing.T) {
	p := Payload{
		"names": []any{"rocketgate", "netbilling", 3},
		"docs":  []any{Payload{"a": 1}, map[string]any{"b": 2}, "skipped"},
	}

	assert.Equal(t, []string{"rocketgate", "netbilling"}, p.StringSlice("names"))
	assert.Nil(t, p.StringSlice("missing"))

	docs := p.MapSlice("docs")
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].Int("a"))
	assert.Equal(t, 2, docs[1].Int("b"))
}

func TestPayloadClone(t *testing.T) {
	original := Payload{
		"scalar": "x",
		"nested": Payload{"inner": "y"},
		"plain":  map[string]any{"inner": "z"},
		"list":   []any{Payload{"i": 1}},
	}

	clone := original.Clone()
	clone["scalar"] = "changed"
	clone.Map("nested")["inner"] = "changed"
	clone.Map("plain")["inner"] = "changed"
	clone.MapSlice("list")[0]["i"] = 2

	assert.Equal(t, "x", original.String("scalar"))
	assert.Equal(t, "y", original.Map("nested").String("inner"))
	assert.Equal(t, "z", original.Map("plain").String("inner"))
	assert.Equal(t, 1, original.MapSlice("list")[0].Int("i"))
}
