package lang

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	t.Parallel()

	n, err := Parse(t.Context(), `a = -f(1, "s") && true`)
	require.NoError(t, err)

	tree := Tree(n)
	assert.Equal(t, "assign", tree.Type)
	assert.Equal(t, "variable", tree.Target.Type)
	assert.Equal(t, "a", tree.Target.Name)

	and := tree.Expr
	assert.Equal(t, "binary", and.Type)
	assert.Equal(t, "and", and.Op)

	neg := and.Left
	assert.Equal(t, "unary", neg.Type)
	assert.Equal(t, "negate", neg.Op)

	call := neg.Operand
	assert.Equal(t, "call", call.Type)
	assert.Equal(t, "f", call.Name)
	require.Len(t, call.Args, 2)
	assert.True(t, Int(1).Equal(*call.Args[0].Value))
	assert.True(t, Text("s").Equal(*call.Args[1].Value))

	assert.Equal(t, "boolean", and.Right.Type)
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()

	n, err := Parse(t.Context(), "1 + x")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, n, 0))

	assert.JSONEq(t, `{
		"type": "binary", "op": "add", "pos": 2,
		"left": {"type": "number", "value": 1, "pos": 0},
		"right": {"type": "variable", "name": "x", "pos": 4}
	}`, buf.String())

	buf.Reset()
	require.NoError(t, FormatJSON(&buf, n, 2))
	assert.Contains(t, buf.String(), "\n  \"left\": {")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "binary", decoded["type"])
}

func TestFormatYAML(t *testing.T) {
	t.Parallel()

	n, err := Parse(t.Context(), `"a" + 2`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, FormatYAML(t.Context(), &buf, n, 2))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "binary", decoded["type"])
	assert.Equal(t, "add", decoded["op"])

	left, ok := decoded["left"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", left["value"])

	buf.Reset()
	require.NoError(t, FormatYAML(t.Context(), &buf, n, 0))
	assert.Contains(t, buf.String(), "{")
}

func TestEncode_Values(t *testing.T) {
	t.Parallel()

	store := MapStore{"a": Int(-6), "b": Text("x")}

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, store, 0))
	assert.JSONEq(t, `{"a":-6,"b":"x"}`, buf.String())

	buf.Reset()
	require.NoError(t, EncodeYAML(t.Context(), &buf, store, 2))
	assert.Equal(t, "a: -6\nb: x\n", buf.String())
}
