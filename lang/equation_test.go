package lang

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	eq, err := New(t.Context(), " 1+2 ")
	require.NoError(t, err)
	assert.Equal(t, " 1+2 ", eq.Source())
	assert.Equal(t, "1 + 2", eq.String())
	assert.NotNil(t, eq.Clock())
	assert.IsType(t, &BinaryOp{}, eq.Node())

	_, err = New(t.Context(), "1 +")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestEval(t *testing.T) {
	t.Parallel()

	store := MapStore{"movie.price": Int(5)}

	v, err := Eval(t.Context(), "total = 3+movie.price*sqrt(4)", store)
	require.NoError(t, err)
	assert.True(t, Number(13).Equal(v), "got %s", v.Describe())

	total, ok := store.Get("total")
	require.True(t, ok)
	assert.True(t, Number(13).Equal(total))

	_, err = Eval(t.Context(), "1 +", store)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = Eval(t.Context(), "y = missing", store)
	require.ErrorIs(t, err, ErrUnboundVariable)

	_, ok = store.Get("y")
	assert.False(t, ok)
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { MustNew("1") })
	assert.Panics(t, func() { MustNew(")") })
}

func TestEquation_Reusable(t *testing.T) {
	t.Parallel()

	eq := MustNew("x * x")

	for i := range 5 {
		v, err := eq.EvaluateStore(t.Context(), MapStore{"x": Int(i)})
		require.NoError(t, err)
		assert.True(t, Int(i*i).Equal(v))
	}
}

func TestEquation_Concurrent(t *testing.T) {
	t.Parallel()

	eq := MustNew("y = x + 1", WithClock(FixedClock(fixedMillis)))

	var wg sync.WaitGroup

	results := make([]Value, 64)
	errs := make([]error, len(results))

	for i := range results {
		wg.Go(func() {
			store := MapStore{"x": Int(i)}
			results[i], errs[i] = eq.EvaluateStore(t.Context(), store)
		})
	}

	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, Int(i+1).Equal(results[i]), "result %d", i)
	}
}

func TestEquation_SharedSyncStore(t *testing.T) {
	t.Parallel()

	store := NewSyncStore(nil)

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Go(func() {
			eq := MustNew(fmt.Sprintf("v%d = %d", i, i))
			_, err := eq.EvaluateStore(t.Context(), store)
			assert.NoError(t, err)
		})
	}

	wg.Wait()

	for i := range 32 {
		v, ok := store.Get(fmt.Sprintf("v%d", i))
		require.True(t, ok)
		assert.True(t, Int(i).Equal(v))
	}
}

func TestMapStore(t *testing.T) {
	t.Parallel()

	store, err := NewMapStore(map[string]any{
		"b.price": 5,
		"a.name":  "x",
		"c.on":    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, []string{"a.name", "b.price", "c.on"}, store.Keys())

	v, ok := store.Get("b.price")
	require.True(t, ok)
	assert.True(t, Int(5).Equal(v))

	store.Delete("b.price")
	_, ok = store.Get("b.price")
	assert.False(t, ok)

	_, err = NewMapStore(map[string]any{"bad": []int{1}})
	require.ErrorIs(t, err, ErrType)
}
