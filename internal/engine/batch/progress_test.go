package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())
	assert.Equal(t, time.Duration(0), p.ETA(), "ETA before any work is 0, never unbounded")

	p.AddProcessed(10)
	assert.Equal(t, 10.0, p.PercentComplete())
	assert.Equal(t, 10, p.ProcessedItems)
	assert.Equal(t, 1, p.ProcessedChunks)

	for i := 0; i < 9; i++ {
		p.AddProcessed(10)
	}
	assert.Equal(t, 100.0, p.PercentComplete())
	assert.True(t, p.IsComplete())
	assert.Greater(t, p.Elapsed(), time.Duration(0))
	assert.Equal(t, time.Duration(0), p.ETA(), "nothing remaining")

	t.Run("Snapshot", func(t *testing.T) {
		snap := p.Snapshot()
		assert.Equal(t, 100, snap.TotalItems)
		assert.Equal(t, 100, snap.ProcessedItems)
		assert.Equal(t, 10, snap.ProcessedChunks)
		assert.Equal(t, 100.0, snap.PercentComplete)
	})

	t.Run("ZeroTotal", func(t *testing.T) {
		empty := NewProgress(0, 0, 10)
		assert.Equal(t, 0.0, empty.PercentComplete())
	})
}

func TestEstimateETA(t *testing.T) {
	// Total 100, two chunks of 10 done at elapsed 1000ms gives rate
	// 0.02 items/ms, remaining 80, ETA 4000ms.
	assert.Equal(t, 4*time.Second, estimateETA(20, 100, time.Second))

	// Nothing processed: 0, never infinite or undefined.
	assert.Equal(t, time.Duration(0), estimateETA(0, 100, time.Second))
	assert.Equal(t, time.Duration(0), estimateETA(0, 100, 0))

	// Done or over-done.
	assert.Equal(t, time.Duration(0), estimateETA(100, 100, time.Second))
	assert.Equal(t, time.Duration(0), estimateETA(120, 100, time.Second))

	// Halfway at 30s means roughly 30s left.
	assert.Equal(t, 30*time.Second, estimateETA(50, 100, 30*time.Second))
}

func TestSignal(t *testing.T) {
	sig := NewSignal()
	assert.False(t, sig.Requested())

	sig.Request()
	assert.True(t, sig.Requested())

	// Idempotent: a second request changes nothing.
	sig.Request()
	assert.True(t, sig.Requested())
}
