package batch

import (
	"sync"
	"time"
)

// percentMultiplier converts a ratio to a percentage (0-100).
const percentMultiplier = 100

// Progress tracks a bulk run's throughput for UI display. All methods are
// safe for the single-writer (Executor) / many-readers (presentation)
// access pattern the run uses.
type Progress struct {
	// TotalItems is the total number of work items in the run.
	TotalItems int

	// ProcessedItems counts items belonging to fully completed chunks.
	// Monotonically non-decreasing within one run; never exceeds TotalItems.
	ProcessedItems int

	// TotalChunks is ceil(TotalItems / BatchSize).
	TotalChunks int

	// ProcessedChunks counts completed chunk submissions.
	ProcessedChunks int

	// BatchSize is the configured chunk size.
	BatchSize int

	// StartTime is when the run started.
	StartTime time.Time

	// LastUpdateTime is when a chunk last completed.
	LastUpdateTime time.Time

	mu sync.RWMutex
}

// NewProgress creates a tracker for a run of totalItems split into
// totalChunks chunks of at most batchSize items.
func NewProgress(totalItems, totalChunks, batchSize int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		TotalChunks:    totalChunks,
		BatchSize:      batchSize,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddProcessed records the completion of one chunk of the given size.
func (p *Progress) AddProcessed(items int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedItems += items
	p.ProcessedChunks++
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentCompleteLocked()
}

// IsComplete reports whether every item has been processed.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ProcessedItems >= p.TotalItems
}

// Elapsed returns the time since the run started.
func (p *Progress) Elapsed() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Since(p.StartTime)
}

// ETA estimates the remaining time by linear extrapolation from the
// cumulative average throughput: rate = processed/elapsed, then
// remaining/rate. Returns 0 before anything has been processed, so
// consumers never see an infinite or undefined estimate. The cumulative
// average stabilizes over the run but reacts slowly to sudden throughput
// changes; that is a documented limitation of the estimator.
func (p *Progress) ETA() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.etaLocked()
}

// ItemsPerSecond returns the observed processing rate.
func (p *Progress) ItemsPerSecond() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.itemsPerSecondLocked()
}

// Snapshot is an immutable copy of progress state for the presentation
// layer. Computed fields are derived at snapshot time.
type Snapshot struct {
	TotalItems      int
	ProcessedItems  int
	TotalChunks     int
	ProcessedChunks int
	BatchSize       int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	Elapsed         time.Duration
	ETA             time.Duration
	ItemsPerSecond  float64
}

// Snapshot returns a consistent copy of the current progress state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Snapshot{
		TotalItems:      p.TotalItems,
		ProcessedItems:  p.ProcessedItems,
		TotalChunks:     p.TotalChunks,
		ProcessedChunks: p.ProcessedChunks,
		BatchSize:       p.BatchSize,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteLocked(),
		Elapsed:         time.Since(p.StartTime),
		ETA:             p.etaLocked(),
		ItemsPerSecond:  p.itemsPerSecondLocked(),
	}
}

// percentCompleteLocked calculates percent complete. Caller holds the lock.
func (p *Progress) percentCompleteLocked() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.ProcessedItems) / float64(p.TotalItems)) * percentMultiplier
}

// etaLocked calculates the remaining-time estimate. Caller holds the lock.
func (p *Progress) etaLocked() time.Duration {
	if p.ProcessedItems == 0 {
		return 0
	}

	elapsed := time.Since(p.StartTime)
	if elapsed <= 0 {
		return 0
	}

	remaining := p.TotalItems - p.ProcessedItems
	if remaining < 0 {
		remaining = 0
	}

	avgPerItem := elapsed / time.Duration(p.ProcessedItems)
	return avgPerItem * time.Duration(remaining)
}

// itemsPerSecondLocked calculates the processing rate. Caller holds the lock.
func (p *Progress) itemsPerSecondLocked() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / elapsed
}

// estimateETA computes the remaining-time estimate for an explicit
// (processed, total, elapsed) triple. It exists so the estimator can be
// exercised deterministically without a live clock.
func estimateETA(processed, total int, elapsed time.Duration) time.Duration {
	if processed <= 0 || elapsed <= 0 {
		return 0
	}
	remaining := total - processed
	if remaining <= 0 {
		return 0
	}
	avgPerItem := elapsed / time.Duration(processed)
	return avgPerItem * time.Duration(remaining)
}
