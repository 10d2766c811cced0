package batch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeItems returns [0, 1, ..., n-1].
func makeItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

// okSubmit returns a SubmitFunc that reports every item successful.
func okSubmit() SubmitFunc[int] {
	return func(_ context.Context, chunk []int, _ int) (ChunkResult, error) {
		return ChunkResult{Successful: len(chunk)}, nil
	}
}

func TestNewExecutor(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		e, err := NewExecutor[int](50)
		require.NoError(t, err)
		assert.Equal(t, 50, e.BatchSize())
		assert.Equal(t, StateIdle, e.State())
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		for _, size := range []int{0, -1, 1001} {
			_, err := NewExecutor[int](size)
			assert.ErrorIs(t, err, ErrInvalidBatchSize, "size %d", size)
		}
	})
}

func TestRun_Chunking(t *testing.T) {
	// For all N and B, the executor issues ceil(N/B) submissions and
	// concatenating the chunks reconstructs the input.
	cases := []struct {
		n, b, wantChunks int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{237, 50, 5},
	}

	for _, tc := range cases {
		items := makeItems(tc.n)
		e, err := NewExecutor[int](tc.b)
		require.NoError(t, err)

		var submissions int
		var reassembled []int
		_, err = e.Run(context.Background(), items, func(_ context.Context, chunk []int, idx int) (ChunkResult, error) {
			assert.Equal(t, submissions, idx, "chunks arrive in input order")
			submissions++
			assert.LessOrEqual(t, len(chunk), tc.b)
			reassembled = append(reassembled, chunk...)
			return ChunkResult{Successful: len(chunk)}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, tc.wantChunks, submissions, "N=%d B=%d", tc.n, tc.b)
		assert.Equal(t, items, append([]int{}, reassembled...))
	}
}

func TestRun_EmptyInput(t *testing.T) {
	e, err := NewExecutor[int](10)
	require.NoError(t, err)

	progressCalls := 0
	e.WithProgressFunc(func(_, _ int) { progressCalls++ })

	result, err := e.Run(context.Background(), nil, okSubmit())
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Zero(t, progressCalls)
}

func TestRun_NilSubmit(t *testing.T) {
	e, err := NewExecutor[int](10)
	require.NoError(t, err)
	_, err = e.Run(context.Background(), makeItems(5), nil)
	assert.ErrorIs(t, err, ErrNilSubmit)
}

func TestRun_ProgressMonotonic(t *testing.T) {
	e, err := NewExecutor[int](7)
	require.NoError(t, err)

	var reported []int
	e.WithProgressFunc(func(processed, total int) {
		assert.Equal(t, 40, total)
		reported = append(reported, processed)
	})

	_, err = e.Run(context.Background(), makeItems(40), okSubmit())
	require.NoError(t, err)

	require.NotEmpty(t, reported)
	prev := 0
	for _, p := range reported {
		assert.GreaterOrEqual(t, p, prev)
		assert.LessOrEqual(t, p, 40)
		prev = p
	}
	assert.Equal(t, 40, reported[len(reported)-1])
}

func TestRun_Aggregation(t *testing.T) {
	e, err := NewExecutor[int](10)
	require.NoError(t, err)

	// Each chunk reports one failed item.
	result, err := e.Run(context.Background(), makeItems(35), func(_ context.Context, chunk []int, _ int) (ChunkResult, error) {
		return ChunkResult{
			Successful: len(chunk) - 1,
			Failed:     1,
			Errors:     []ItemError{{ItemID: "x", Detail: "conflict"}},
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 31, result.Successful)
	assert.Equal(t, 4, result.Failed)
	assert.Len(t, result.Errors, 4)
	assert.Equal(t, StateSucceeded, e.State())
}

func TestRun_RemoteFailure(t *testing.T) {
	// 237 items, batch size 50: chunks [50 50 50 50 37]. Chunk index 2
	// (items 100-149) fails; the last good progress report is 100 and
	// chunks 3 and 4 are never submitted.
	e, err := NewExecutor[int](50)
	require.NoError(t, err)

	var lastProcessed int
	e.WithProgressFunc(func(processed, _ int) { lastProcessed = processed })

	var submitted []int
	boom := errors.New("server exploded")
	result, err := e.Run(context.Background(), makeItems(237), func(_ context.Context, chunk []int, idx int) (ChunkResult, error) {
		submitted = append(submitted, idx)
		if idx == 2 {
			return ChunkResult{}, boom
		}
		return ChunkResult{Successful: len(chunk)}, nil
	})

	require.ErrorIs(t, err, ErrRemoteBatch)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{0, 1, 2}, submitted)
	assert.Equal(t, 100, lastProcessed)
	assert.Equal(t, 100, result.Successful, "completed chunks still count")
	assert.Equal(t, StateFailed, e.State())
}

func TestRun_Cancellation(t *testing.T) {
	t.Run("BeforeAnyChunk", func(t *testing.T) {
		e, err := NewExecutor[int](10)
		require.NoError(t, err)

		sig := NewSignal()
		sig.Request()
		sig.Request() // idempotent
		e.WithSignal(sig)

		var submissions int
		result, err := e.Run(context.Background(), makeItems(30), func(_ context.Context, chunk []int, _ int) (ChunkResult, error) {
			submissions++
			return ChunkResult{Successful: len(chunk)}, nil
		})

		require.ErrorIs(t, err, ErrCancelled)
		assert.Zero(t, submissions)
		assert.Equal(t, Result{}, result)
		assert.Equal(t, StateCancelled, e.State())
	})

	t.Run("MidRun", func(t *testing.T) {
		// Cancellation requested while chunk 1 is in flight: chunk 1
		// completes and is counted; chunk 2 is never submitted.
		e, err := NewExecutor[int](10)
		require.NoError(t, err)

		sig := NewSignal()
		e.WithSignal(sig)

		var submissions int
		result, err := e.Run(context.Background(), makeItems(30), func(_ context.Context, chunk []int, idx int) (ChunkResult, error) {
			submissions++
			if idx == 1 {
				sig.Request()
			}
			return ChunkResult{Successful: len(chunk)}, nil
		})

		require.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, 2, submissions)
		assert.Equal(t, 20, result.Successful, "in-flight chunk completed and counted")
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		e, err := NewExecutor[int](10)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = e.Run(ctx, makeItems(30), okSubmit())
		assert.ErrorIs(t, err, ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunConcurrent(t *testing.T) {
	t.Run("AggregatesAllChunks", func(t *testing.T) {
		e, err := NewExecutor[int](5)
		require.NoError(t, err)

		var reported []int
		e.WithProgressFunc(func(processed, _ int) {
			reported = append(reported, processed)
		})

		var mu sync.Mutex
		seen := map[int]int{}
		result, err := e.RunConcurrent(context.Background(), makeItems(42), func(_ context.Context, chunk []int, idx int) (ChunkResult, error) {
			mu.Lock()
			seen[idx] = len(chunk)
			mu.Unlock()
			return ChunkResult{Successful: len(chunk)}, nil
		}, 3)

		require.NoError(t, err)
		assert.Equal(t, 42, result.Successful)
		assert.Len(t, seen, 9)
		assert.Equal(t, StateSucceeded, e.State())

		// Progress reports stay monotonic under concurrency.
		prev := 0
		for _, p := range reported {
			assert.GreaterOrEqual(t, p, prev)
			assert.LessOrEqual(t, p, 42)
			prev = p
		}
		assert.Equal(t, 42, prev)
	})

	t.Run("FirstErrorAborts", func(t *testing.T) {
		e, err := NewExecutor[int](10)
		require.NoError(t, err)

		boom := errors.New("bad batch")
		_, err = e.RunConcurrent(context.Background(), makeItems(100), func(_ context.Context, _ []int, idx int) (ChunkResult, error) {
			if idx == 0 {
				return ChunkResult{}, boom
			}
			return ChunkResult{}, nil
		}, 2)

		require.ErrorIs(t, err, ErrRemoteBatch)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, StateFailed, e.State())
	})

	t.Run("EmptyInput", func(t *testing.T) {
		e, err := NewExecutor[int](10)
		require.NoError(t, err)
		result, err := e.RunConcurrent(context.Background(), nil, okSubmit(), 4)
		require.NoError(t, err)
		assert.Equal(t, Result{}, result)
	})
}

func TestState(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.Equal(t, "failed", StateFailed.String())

	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateCancelled.Terminal())
	assert.True(t, StateFailed.Terminal())
}
