package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakenews-features/internal/features"
	"fakenews-features/internal/models"
)

func corpus(n int) []models.Article {
	out := make([]models.Article, n)
	for i := range out {
		label := models.LabelTrue
		if i%2 == 0 {
			label = models.LabelFake
		}
		out[i] = models.Article{
			Title: fmt.Sprintf("Headline %d", i),
			Text:  fmt.Sprintf("Article %d says we were wrong but they disagree?", i),
			Label: label,
		}
	}
	return out
}

func TestRunPreservesOrder(t *testing.T) {
	ext, err := features.NewDefault()
	require.NoError(t, err)
	articles := corpus(50)

	got, err := Run(context.Background(), ext, articles, Options{Concurrency: 4, Source: "test"})
	require.NoError(t, err)
	require.Len(t, got, len(articles))
	for i, rec := range got {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, articles[i].Label, rec.Label)
		assert.Equal(t, ext.Extract(articles[i]), rec.Features)
	}
}

func TestRunMatchesSequential(t *testing.T) {
	ext, err := features.NewDefault()
	require.NoError(t, err)
	articles := corpus(20)

	parallel, err := Run(context.Background(), ext, articles, Options{})
	require.NoError(t, err)
	serial, err := Run(context.Background(), ext, articles, Options{Concurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestRunEmpty(t *testing.T) {
	ext, err := features.NewDefault()
	require.NoError(t, err)
	got, err := Run(context.Background(), ext, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunCanceled(t *testing.T) {
	ext, err := features.NewDefault()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, ext, corpus(10), Options{Concurrency: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamEmitsAll(t *testing.T) {
	ext, err := features.NewDefault()
	require.NoError(t, err)
	articles := corpus(30)

	var idx []int
	err = Stream(context.Background(), ext, articles, Options{Concurrency: 3}, func(r models.LabeledRecord) error {
		idx = append(idx, r.Index)
		return nil
	})
	require.NoError(t, err)
	sort.Ints(idx)
	require.Len(t, idx, 30)
	for i, v := range idx {
		assert.Equal(t, i, v)
	}
}

func TestStreamEmitError(t *testing.T) {
	ext, err := features.NewDefault()
	require.NoError(t, err)
	boom := errors.New("client went away")
	var calls atomic.Int32

	err = Stream(context.Background(), ext, corpus(100), Options{Concurrency: 1}, func(models.LabeledRecord) error {
		calls.Add(1)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int32(100))
}

func TestEachVisitsEveryIndex(t *testing.T) {
	seen := make([]int32, 40)
	var inFlight, peak atomic.Int32
	err := Each(context.Background(), len(seen), Options{Concurrency: 3}, func(_ context.Context, i int) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		atomic.AddInt32(&seen[i], 1)
		inFlight.Add(-1)
	})
	require.NoError(t, err)
	for i, v := range seen {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestEachCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := Each(ctx, 10, Options{Concurrency: 2}, func(context.Context, int) { calls.Add(1) })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
