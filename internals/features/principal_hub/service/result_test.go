package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchClassifiesOutcome(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	ok := fetch(ctx, func(context.Context) (int64, error) { return 3, nil }, zeroCount)
	assert.Equal(t, KindOK, ok.Kind)
	assert.EqualValues(t, 3, ok.Value)

	empty := fetch(ctx, func(context.Context) (int64, error) { return 0, nil }, zeroCount)
	assert.Equal(t, KindEmpty, empty.Kind)
	assert.False(t, empty.Failed())

	bad := fetch(ctx, func(context.Context) (int64, error) { return 99, boom }, zeroCount)
	assert.True(t, bad.Failed())
	assert.Zero(t, bad.Value, "a failed result never carries a partial value")
	assert.Equal(t, "boom", bad.Message())

	noClassifier := fetch(ctx, func(context.Context) (int64, error) { return 0, nil }, nil)
	assert.Equal(t, KindOK, noClassifier.Kind)
}

func TestFetchRecoversPanic(t *testing.T) {
	res := fetch(context.Background(), func(context.Context) ([]string, error) {
		panic("nil map")
	}, noRows[string])

	require.True(t, res.Failed())
	assert.Nil(t, res.Value)
	assert.Contains(t, res.Message(), "nil map")
}

func TestBatchCollectsFailuresSorted(t *testing.T) {
	fails := &failures{}
	b := newBatch(context.Background(), fails, zerolog.Nop())

	var a, z, mid Result[int64]
	goFetch(b, "zeta", &z, func(context.Context) (int64, error) { return 0, errors.New("z down") }, zeroCount)
	goFetch(b, "alpha", &a, func(context.Context) (int64, error) { return 0, errors.New("a down") }, zeroCount)
	goFetch(b, "mid", &mid, func(context.Context) (int64, error) { return 7, nil }, zeroCount)
	b.wait()

	assert.Equal(t, 3, b.size)
	assert.True(t, a.Failed())
	assert.True(t, z.Failed())
	assert.EqualValues(t, 7, mid.Value)

	got := fails.sorted()
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Query)
	assert.Equal(t, "a down", got[0].Message)
	assert.Equal(t, "zeta", got[1].Query)
}
