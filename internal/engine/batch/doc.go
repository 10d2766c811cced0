// Package batch runs bulk operations against the memory service in
// fixed-size chunks with progress reporting and cooperative cancellation.
//
// An Executor splits a work list into chunks of at most the configured
// batch size, submits them strictly in input order, and aggregates the
// per-chunk counts into a single Result. Cancellation is checked only at
// chunk boundaries: an in-flight chunk always completes and is counted,
// and already-applied chunks are never rolled back. A remote failure
// aborts the run; unsent chunks stay unsent and the caller decides
// whether to re-run for the remainder.
//
// Progress exposes percent complete, elapsed time, and an ETA derived
// from cumulative average throughput. The cumulative average stabilizes
// over a run but reacts slowly to sudden throughput changes; that is a
// known limitation of the estimator, not a bug.
package batch
