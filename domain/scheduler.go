package domain

import "time"

// Priority represents the scheduling priority of a submitted file
type Priority int

const (
	// PriorityHigh is dequeued before all normal and low work
	PriorityHigh Priority = iota

	// PriorityNormal is the default priority
	PriorityNormal

	// PriorityLow is dequeued only when no higher work is queued
	PriorityLow
)

// String returns the lowercase name of the priority
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// ItemState represents the lifecycle state of a WorkItem
type ItemState int

const (
	ItemQueued ItemState = iota
	ItemRunning
	ItemCompleted
	ItemFailed
)

// PoolState represents the lifecycle state of the worker pool
type PoolState int

const (
	PoolStopped PoolState = iota
	PoolStarting
	PoolRunning
	PoolDraining
)

// BackpressurePolicy controls what Submit does when the queue is full
type BackpressurePolicy int

const (
	// BackpressureBlock makes Submit block until the queue has room
	BackpressureBlock BackpressurePolicy = iota

	// BackpressureReject makes Submit return ErrQueueFull immediately
	BackpressureReject
)

// CompletionCallback receives the outcome of one submitted file.
// err is non-nil only when the item failed without producing a result
// (worker panic or pool shutdown); result and err are mutually exclusive.
type CompletionCallback func(path string, result *QualityResult, err error)

// WorkItem is one queued unit of analysis work. It is owned by the
// scheduler's queue until a worker claims it and is destroyed after the
// completion callback has been invoked.
type WorkItem struct {
	// FilePath is the file to verify
	FilePath string

	// Priority is the queue priority
	Priority Priority

	// DiffLines is the changed-line count from the VCS collaborator,
	// zero when unknown
	DiffLines int

	// SubmitTime orders items within one priority level (FIFO)
	SubmitTime time.Time

	// Callback is invoked exactly once with the outcome
	Callback CompletionCallback

	// State is the current lifecycle state, guarded by the pool lock
	State ItemState

	// seq breaks SubmitTime ties in submission order
	Seq uint64
}

// PoolStats is a point-in-time snapshot of scheduler counters.
// All fields are updated under the scheduler's internal lock on every
// state transition and are safe to read from any goroutine via Stats.
type PoolStats struct {
	// Submitted is the total number of accepted submissions
	Submitted int64 `json:"submitted"`

	// Completed is the number of items that finished successfully
	Completed int64 `json:"completed"`

	// Failed is the number of items that failed or were abandoned
	Failed int64 `json:"failed"`

	// QueueDepth is the current number of queued, unclaimed items
	QueueDepth int `json:"queue_depth"`
}

// Scheduler is the concurrent verification pipeline. Implementations run
// a fixed pool of workers over one shared bounded priority queue.
type Scheduler interface {
	// Start launches numWorkers worker loops. Calling Start on a
	// running pool is lifecycle misuse and returns an error.
	Start(numWorkers int) error

	// Submit enqueues a file for verification. Under the blocking
	// backpressure policy it blocks until the queue has room; under the
	// rejecting policy it returns ErrQueueFull. After shutdown it
	// returns ErrPoolClosed.
	Submit(path string, priority Priority) error

	// SubmitWithDiff is Submit with changed-line metadata attached
	SubmitWithDiff(path string, priority Priority, diffLines int) error

	// WaitCompletion blocks until submitted == completed + failed or
	// the timeout elapses, returning true on full completion. It never
	// cancels in-flight work.
	WaitCompletion(timeout time.Duration) bool

	// Shutdown stops intake, drains the queue for up to timeout, then
	// abandons remaining items with a pool-shutdown error. It is the
	// only operation that can discard submitted work.
	Shutdown(timeout time.Duration) error

	// Stats returns a live snapshot of the pool counters
	Stats() PoolStats
}
