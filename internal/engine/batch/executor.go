package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Batch size limits for bulk submissions.
const (
	// DefaultBatchSize is the default number of items per chunk.
	DefaultBatchSize = 100

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Error kinds surfaced by a bulk run. Callers distinguish them with
// errors.Is: ErrCancelled is a neutral outcome (prior chunks stand),
// ErrRemoteBatch is a genuine failure.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilSubmit        = errors.New("submit function cannot be nil")
	ErrCancelled        = errors.New("bulk run cancelled")
	ErrRemoteBatch      = errors.New("remote batch failed")
)

// ItemError describes one item the service could not apply.
type ItemError struct {
	ItemID string `json:"item_id"`
	Detail string `json:"detail"`
}

// ChunkResult is the outcome of submitting one chunk to the service.
type ChunkResult struct {
	Successful int
	Failed     int
	Errors     []ItemError
}

// Result aggregates the ChunkResults of every chunk that completed before
// the run ended. On cancellation or remote failure the Result still
// reflects the chunks that committed.
type Result struct {
	Successful int
	Failed     int
	Errors     []ItemError
}

// add accumulates one chunk's counts into the running total.
func (r *Result) add(cr ChunkResult) {
	r.Successful += cr.Successful
	r.Failed += cr.Failed
	r.Errors = append(r.Errors, cr.Errors...)
}

// SubmitFunc submits one chunk to the remote bulk endpoint. chunkIndex is
// the 0-based position of the chunk in submission order.
type SubmitFunc[T any] func(ctx context.Context, chunk []T, chunkIndex int) (ChunkResult, error)

// ProgressFunc is invoked after each chunk fully completes. Reported
// processed values are monotonically non-decreasing and never exceed
// total. It is never invoked for an empty work list.
type ProgressFunc func(processed, total int)

// Executor runs a bulk operation in fixed-size chunks. Chunks are
// submitted strictly in input order; no chunk N+1 is submitted before
// chunk N's result is known, unless RunConcurrent is used, in which case
// at most maxConcurrency chunks are in flight and progress accounting is
// still serialized on chunk completion.
type Executor[T any] struct {
	batchSize  int
	onProgress ProgressFunc
	signal     *Signal

	mu       sync.Mutex
	state    State
	progress *Progress
}

// NewExecutor creates an Executor with the given batch size. Batch size
// is validated up front so misconfiguration fails before any network call.
func NewExecutor[T any](batchSize int) (*Executor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Executor[T]{batchSize: batchSize, state: StateIdle}, nil
}

// WithProgressFunc sets the per-chunk progress callback.
func (e *Executor[T]) WithProgressFunc(fn ProgressFunc) *Executor[T] {
	e.onProgress = fn
	return e
}

// WithSignal attaches a cooperative cancellation signal. The signal is
// owned by the caller and polled between chunks only.
func (e *Executor[T]) WithSignal(sig *Signal) *Executor[T] {
	e.signal = sig
	return e
}

// BatchSize returns the configured batch size.
func (e *Executor[T]) BatchSize() int {
	return e.batchSize
}

// State returns the run's current lifecycle state.
func (e *Executor[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Progress returns a snapshot of the current run's progress, or a zero
// snapshot when no run has started.
func (e *Executor[T]) Progress() Snapshot {
	e.mu.Lock()
	p := e.progress
	e.mu.Unlock()
	if p == nil {
		return Snapshot{}
	}
	return p.Snapshot()
}

// setState transitions the run's lifecycle state.
func (e *Executor[T]) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// chunkBounds returns the [start, end) item range of the given chunk.
func (e *Executor[T]) chunkBounds(chunkIndex, totalItems int) (int, int) {
	start := chunkIndex * e.batchSize
	end := start + e.batchSize
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// totalChunks returns ceil(totalItems / batchSize).
func (e *Executor[T]) totalChunks(totalItems int) int {
	chunks := totalItems / e.batchSize
	if totalItems%e.batchSize > 0 {
		chunks++
	}
	return chunks
}

// Run submits items in consecutive chunks of at most the batch size,
// preserving input order, and returns the aggregated Result.
//
// An empty work list returns a zero Result immediately without invoking
// the progress callback. Cancellation is observed before each chunk: the
// run stops, the accumulated Result is returned alongside ErrCancelled,
// and already-applied chunks are not rolled back. A submit error aborts
// the run; the accumulated Result is returned alongside an error wrapping
// both ErrRemoteBatch and the submit error, and remaining chunks are
// never sent.
func (e *Executor[T]) Run(ctx context.Context, items []T, submit SubmitFunc[T]) (Result, error) {
	var result Result

	if submit == nil {
		return result, ErrNilSubmit
	}
	if len(items) == 0 {
		return result, nil
	}

	total := len(items)
	chunks := e.totalChunks(total)
	progress := NewProgress(total, chunks, e.batchSize)

	e.mu.Lock()
	e.progress = progress
	e.state = StateRunning
	e.mu.Unlock()

	for chunkIndex := 0; chunkIndex < chunks; chunkIndex++ {
		if e.signal != nil && e.signal.Requested() {
			e.setState(StateCancelled)
			return result, ErrCancelled
		}
		select {
		case <-ctx.Done():
			e.setState(StateCancelled)
			return result, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		default:
		}

		start, end := e.chunkBounds(chunkIndex, total)
		chunk := items[start:end]

		chunkResult, err := submit(ctx, chunk, chunkIndex)
		if err != nil {
			e.setState(StateFailed)
			return result, fmt.Errorf("%w: chunk %d (items %d-%d): %w",
				ErrRemoteBatch, chunkIndex, start, end-1, err)
		}

		result.add(chunkResult)
		progress.AddProcessed(len(chunk))
		if e.onProgress != nil {
			snap := progress.Snapshot()
			e.onProgress(snap.ProcessedItems, snap.TotalItems)
		}
	}

	e.setState(StateSucceeded)
	return result, nil
}

// RunConcurrent behaves like Run but allows up to maxConcurrency chunks
// in flight at once. Chunks are launched in input order and progress only
// advances when a chunk fully completes, so reported processed values
// remain monotonic. The first submit error cancels the remaining chunks;
// chunks that completed before the abort are still counted.
func (e *Executor[T]) RunConcurrent(
	ctx context.Context,
	items []T,
	submit SubmitFunc[T],
	maxConcurrency int,
) (Result, error) {
	var result Result

	if submit == nil {
		return result, ErrNilSubmit
	}
	if len(items) == 0 {
		return result, nil
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	total := len(items)
	chunks := e.totalChunks(total)
	progress := NewProgress(total, chunks, e.batchSize)

	e.mu.Lock()
	e.progress = progress
	e.state = StateRunning
	e.mu.Unlock()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrency)

	var resultMu sync.Mutex
	cancelled := false

	for chunkIndex := 0; chunkIndex < chunks; chunkIndex++ {
		if e.signal != nil && e.signal.Requested() {
			cancelled = true
			break
		}
		if groupCtx.Err() != nil {
			break
		}

		start, end := e.chunkBounds(chunkIndex, total)
		chunk := items[start:end]
		idx := chunkIndex

		group.Go(func() error {
			chunkResult, err := submit(groupCtx, chunk, idx)
			if err != nil {
				return fmt.Errorf("%w: chunk %d (items %d-%d): %w",
					ErrRemoteBatch, idx, start, end-1, err)
			}

			// Progress accounting and reporting stay under one lock so
			// reported processed values never go backwards.
			resultMu.Lock()
			result.add(chunkResult)
			progress.AddProcessed(len(chunk))
			if e.onProgress != nil {
				snap := progress.Snapshot()
				e.onProgress(snap.ProcessedItems, snap.TotalItems)
			}
			resultMu.Unlock()
			return nil
		})
	}

	err := group.Wait()
	switch {
	case err != nil:
		e.setState(StateFailed)
		return result, err
	case cancelled:
		e.setState(StateCancelled)
		return result, ErrCancelled
	case ctx.Err() != nil:
		e.setState(StateCancelled)
		return result, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	default:
		e.setState(StateSucceeded)
		return result, nil
	}
}
