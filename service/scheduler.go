package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/internal/config"
)

// Default values for the scheduler
const (
	DefaultWorkers   = 3
	DefaultQueueSize = 256
)

// priorityLevels is the number of distinct queue priorities
const priorityLevels = 3

// SchedulerImpl implements domain.Scheduler: a fixed pool of workers
// pulling from one shared bounded priority queue. Each worker runs a
// pull, classify, cache-check, analyze-on-miss, cache-store, callback
// loop. Dequeue order is high before normal before low, FIFO within a
// priority; finish order is unordered.
type SchedulerImpl struct {
	classifier domain.FileClassifier
	analyzer   domain.QualityAnalyzer
	cache      domain.ResultCache
	hasher     domain.ContentHasher
	ttl        time.Duration
	policy     domain.BackpressurePolicy
	queueSize  int
	logger     *slog.Logger

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	idle     *sync.Cond
	queues   [priorityLevels][]*domain.WorkItem
	queued   int
	state    domain.PoolState
	seq      uint64
	stats    domain.PoolStats
	tracked  map[uint64]OutcomeCallback
	wg       sync.WaitGroup

	// ctx cancels in-flight analysis when the drain timeout expires
	ctx    context.Context
	cancel context.CancelFunc
}

// SchedulerOption configures a SchedulerImpl
type SchedulerOption func(*SchedulerImpl)

// WithBackpressure selects the queue-full policy
func WithBackpressure(policy domain.BackpressurePolicy) SchedulerOption {
	return func(s *SchedulerImpl) { s.policy = policy }
}

// WithQueueSize bounds the shared queue
func WithQueueSize(size int) SchedulerOption {
	return func(s *SchedulerImpl) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSchedulerLogger sets the structured logger
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *SchedulerImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler creates a stopped scheduler over the given collaborators
func NewScheduler(
	classifier domain.FileClassifier,
	analyzer domain.QualityAnalyzer,
	cache domain.ResultCache,
	hasher domain.ContentHasher,
	ttl time.Duration,
	opts ...SchedulerOption,
) *SchedulerImpl {
	ctx, cancel := context.WithCancel(context.Background())
	s := &SchedulerImpl{
		classifier: classifier,
		analyzer:   analyzer,
		cache:      cache,
		hasher:     hasher,
		ttl:        ttl,
		policy:     domain.BackpressureBlock,
		queueSize:  DefaultQueueSize,
		logger:     slog.Default(),
		state:      domain.PoolStopped,
		tracked:    make(map[uint64]OutcomeCallback),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.notEmpty = sync.NewCond(&s.mu)
	s.notFull = sync.NewCond(&s.mu)
	s.idle = sync.NewCond(&s.mu)
	return s
}

// NewSchedulerFromConfig creates a scheduler configured from the pool
// and cache sections
func NewSchedulerFromConfig(
	cfg *config.Config,
	classifier domain.FileClassifier,
	analyzer domain.QualityAnalyzer,
	cache domain.ResultCache,
	hasher domain.ContentHasher,
	opts ...SchedulerOption,
) *SchedulerImpl {
	policy := domain.BackpressureReject
	if cfg.Pool.Blocking {
		policy = domain.BackpressureBlock
	}
	base := []SchedulerOption{
		WithQueueSize(cfg.Pool.QueueSize),
		WithBackpressure(policy),
	}
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return NewScheduler(classifier, analyzer, cache, hasher, ttl, append(base, opts...)...)
}

// Start launches numWorkers worker loops. Starting a pool that is not
// stopped is lifecycle misuse.
func (s *SchedulerImpl) Start(numWorkers int) error {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.PoolStopped {
		return domain.NewInvalidInputError("scheduler already started", nil)
	}
	s.state = domain.PoolStarting

	for i := 0; i < numWorkers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	s.state = domain.PoolRunning
	s.logger.Debug("scheduler started", "workers", numWorkers, "queue_size", s.queueSize)
	return nil
}

// Submit enqueues a file at the given priority
func (s *SchedulerImpl) Submit(path string, priority domain.Priority) error {
	return s.SubmitWithDiff(path, priority, 0)
}

// SubmitWithDiff enqueues a file with changed-line metadata. Under the
// blocking policy it waits for queue room; under the rejecting policy a
// full queue returns ErrQueueFull.
func (s *SchedulerImpl) SubmitWithDiff(path string, priority domain.Priority, diffLines int) error {
	return s.SubmitWithCallback(path, priority, diffLines, nil)
}

// ItemOutcome is the detailed result of one finished work item,
// available to tracked submissions
type ItemOutcome struct {
	Path           string
	Classification domain.FileClassification
	Result         *domain.QualityResult
	CacheHit       bool
	Err            error
}

// OutcomeCallback receives the detailed outcome of a tracked submission
type OutcomeCallback func(ItemOutcome)

// SubmitWithCallback enqueues a file and invokes cb exactly once with
// the outcome
func (s *SchedulerImpl) SubmitWithCallback(path string, priority domain.Priority, diffLines int, cb domain.CompletionCallback) error {
	return s.submit(path, priority, diffLines, cb, nil)
}

// SubmitTracked enqueues a file and invokes cb exactly once with the
// detailed outcome, including the classification and cache-hit flag
func (s *SchedulerImpl) SubmitTracked(path string, priority domain.Priority, diffLines int, cb OutcomeCallback) error {
	return s.submit(path, priority, diffLines, nil, cb)
}

func (s *SchedulerImpl) submit(path string, priority domain.Priority, diffLines int, cb domain.CompletionCallback, tracked OutcomeCallback) error {
	if priority < domain.PriorityHigh || priority > domain.PriorityLow {
		priority = domain.PriorityNormal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.PoolRunning {
		return domain.NewPoolClosedError(path)
	}

	for s.queued >= s.queueSize {
		if s.policy == domain.BackpressureReject {
			return domain.NewQueueFullError(path)
		}
		s.notFull.Wait()
		if s.state != domain.PoolRunning {
			return domain.NewPoolClosedError(path)
		}
	}

	s.seq++
	item := &domain.WorkItem{
		FilePath:   path,
		Priority:   priority,
		DiffLines:  diffLines,
		SubmitTime: time.Now(),
		Callback:   cb,
		State:      domain.ItemQueued,
		Seq:        s.seq,
	}
	s.queues[priority] = append(s.queues[priority], item)
	s.queued++
	s.stats.Submitted++
	if tracked != nil {
		s.tracked[item.Seq] = tracked
	}

	s.notEmpty.Signal()
	return nil
}

// WaitCompletion blocks until every accepted submission has completed
// or failed, or the timeout elapses. It never cancels in-flight work.
// Waiters sleep on the idle condition, which finish broadcasts after
// each counter update; the timer takes the lock before broadcasting so
// the deadline wakeup cannot slip between a waiter's check and its Wait.
func (s *SchedulerImpl) WaitCompletion(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.idle.Broadcast()
	})
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.stats.Submitted != s.stats.Completed+s.stats.Failed {
		if !time.Now().Before(deadline) {
			return false
		}
		s.idle.Wait()
	}
	return true
}

// Shutdown stops intake, drains queued work for up to timeout, then
// abandons whatever is still queued with a pool-shutdown error
func (s *SchedulerImpl) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	if s.state == domain.PoolStopped {
		s.mu.Unlock()
		return domain.NewDomainError(domain.ErrCodePoolClosed, "scheduler already stopped", domain.ErrPoolClosed)
	}
	s.state = domain.PoolDraining
	s.notEmpty.Broadcast()
	s.notFull.Broadcast()
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(timeout):
		s.logger.Warn("drain timeout expired, abandoning queued work", "timeout", timeout)
		// Drain the queue before cancelling so a waking worker cannot
		// claim an item that is being abandoned
		s.abandonQueued()
		s.cancel()
		<-drained
	}

	s.mu.Lock()
	s.state = domain.PoolStopped
	s.mu.Unlock()
	return nil
}

// Stats returns a snapshot of the pool counters
func (s *SchedulerImpl) Stats() domain.PoolStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.QueueDepth = s.queued
	return stats
}

// worker is one long-lived pull loop. A panicking job marks only its
// own item failed; the worker resumes pulling.
func (s *SchedulerImpl) worker() {
	defer s.wg.Done()
	for {
		item := s.next()
		if item == nil {
			return
		}
		s.runItem(item)
	}
}

// next blocks until an item is available or the pool is draining with
// an empty queue, in which case it returns nil
func (s *SchedulerImpl) next() *domain.WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.queued == 0 && s.state == domain.PoolRunning {
		s.notEmpty.Wait()
	}
	if s.queued == 0 {
		return nil
	}

	for p := 0; p < priorityLevels; p++ {
		if len(s.queues[p]) > 0 {
			item := s.queues[p][0]
			s.queues[p] = s.queues[p][1:]
			s.queued--
			item.State = domain.ItemRunning
			s.notFull.Signal()
			return item
		}
	}
	return nil
}

// runItem processes one work item, converting a panic into a per-item
// failure
func (s *SchedulerImpl) runItem(item *domain.WorkItem) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("worker recovered from panic", "path", item.FilePath, "panic", r)
			s.finish(item, ItemOutcome{
				Path: item.FilePath,
				Err:  domain.NewAnalysisError("analysis panicked", nil),
			})
		}
	}()

	outcome := ItemOutcome{Path: item.FilePath}

	outcome.Classification = s.classifier.Classify(item.FilePath, item.DiffLines)
	if outcome.Classification.Mode == domain.AnalysisModeSkip {
		outcome.Result = &domain.QualityResult{
			Passed:       true,
			Score:        10.0,
			Violations:   []domain.Violation{},
			AnalysisMode: domain.AnalysisModeSkip,
		}
		s.finish(item, outcome)
		return
	}

	content, err := os.ReadFile(item.FilePath)
	if err != nil {
		outcome.Err = domain.NewFileNotFoundError(item.FilePath, err)
		s.finish(item, outcome)
		return
	}

	hash := s.hasher.HashBytes(content)
	if cached, ok := s.cache.Get(hash, outcome.Classification.Mode); ok {
		outcome.Result = cached
		outcome.CacheHit = true
		s.finish(item, outcome)
		return
	}

	result := s.analyzer.Analyze(s.ctx, item.FilePath, content, outcome.Classification.Mode)
	s.cache.Put(hash, outcome.Classification.Mode, result, s.ttl)
	outcome.Result = result
	s.finish(item, outcome)
}

// finish marks the item terminal, invokes its callbacks, then updates
// the counters. The terminal state is claimed under the lock first so an
// item can never be finished twice; counters are updated after the
// callbacks so WaitCompletion observing full completion implies every
// callback has returned.
func (s *SchedulerImpl) finish(item *domain.WorkItem, outcome ItemOutcome) {
	s.mu.Lock()
	if item.State == domain.ItemCompleted || item.State == domain.ItemFailed {
		s.mu.Unlock()
		return
	}
	if outcome.Err != nil {
		item.State = domain.ItemFailed
	} else {
		item.State = domain.ItemCompleted
	}
	tracked := s.tracked[item.Seq]
	delete(s.tracked, item.Seq)
	s.mu.Unlock()

	if item.Callback != nil {
		item.Callback(outcome.Path, outcome.Result, outcome.Err)
	}
	if tracked != nil {
		tracked(outcome)
	}

	s.mu.Lock()
	if outcome.Err != nil {
		s.stats.Failed++
	} else {
		s.stats.Completed++
	}
	s.idle.Broadcast()
	s.mu.Unlock()
}

// abandonQueued fails every still-queued item with a shutdown error
func (s *SchedulerImpl) abandonQueued() {
	s.mu.Lock()
	var abandoned []*domain.WorkItem
	for p := 0; p < priorityLevels; p++ {
		abandoned = append(abandoned, s.queues[p]...)
		s.queues[p] = nil
	}
	s.queued = 0
	s.mu.Unlock()

	for _, item := range abandoned {
		s.finish(item, ItemOutcome{
			Path: item.FilePath,
			Err:  domain.NewPoolShutdownError(item.FilePath),
		})
	}
}
