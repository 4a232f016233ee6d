package lang

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	err := ErrType.Msgf("custom %d", 1).With(slog.String("k", "v"))

	assert.ErrorIs(t, err, ErrType)
	assert.NotErrorIs(t, err, ErrSyntax)
	assert.Equal(t, "custom 1", err.Error())
	assert.Equal(t, "type error", err.Kind())

	wrapped := ErrReadInput.Wrap(io.ErrUnexpectedEOF)
	assert.ErrorIs(t, wrapped, ErrReadInput)
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.Equal(t, "failed to read input: unexpected EOF", wrapped.Error())
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	wrapped := WrapError(plain)
	assert.ErrorIs(t, wrapped, plain)
	assert.Equal(t, "plain", wrapped.Error())

	typed := ErrDomain.Msgf("bad")
	assert.Same(t, typed, WrapError(typed))
}

func TestError_Offset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, ErrType.Offset())
	assert.Equal(t, 7, syntaxError(7, "x").Offset())

	v, ok := syntaxError(7, "x").Attr("offset")
	require.True(t, ok)
	assert.Equal(t, int64(7), v.Int64())

	_, ok = ErrType.Attr("offset")
	assert.False(t, ok)
}

func TestError_LogValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("failed", slog.Any("error", typeError("add", Bool(true))))

	out := buf.String()
	assert.Contains(t, out, `error.error="Invalid add operator on [Boolean Variant of true]"`)
	assert.Contains(t, out, `error.kind="type error"`)
	assert.Contains(t, out, "error.operator=add")
}
