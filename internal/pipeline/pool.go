package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool errors.
var (
	ErrPoolStarted    = errors.New("pool already started")
	ErrPoolNotStarted = errors.New("pool not started")
	ErrPoolClosed     = errors.New("pool is shut down")
)

// WorkFunc converts one job. It must be safe for concurrent invocation;
// jobs share no mutable state.
type WorkFunc func(ctx context.Context, job ConversionJob) (FileResult, error)

// Outcome is what a worker reports back for one job.
type Outcome struct {
	Result FileResult
	Err    error
}

// Pool is an explicitly owned fixed-size worker pool. Lifecycle:
// NewPool → Start → Submit×N → (read Results) → Shutdown. Shutdown is
// idempotent and waits for in-flight jobs; callers defer it so teardown
// happens on every exit path.
type Pool struct {
	size    int
	capHint int
	work    WorkFunc

	mu      sync.Mutex
	started bool
	closed  bool

	jobs    chan ConversionJob
	results chan Outcome
	wg      sync.WaitGroup
}

// NewPool builds a pool of size workers. capHint sizes the job and result
// buffers (typically the batch length) so submission and collection never
// block each other.
func NewPool(size, capHint int, work WorkFunc) *Pool {
	if capHint < 1 {
		capHint = 1
	}
	return &Pool{size: size, capHint: capHint, work: work}
}

// Start launches the workers. It fails when the pool size is invalid or the
// pool was already started; a pool is never re-entered by two batches.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("start pool: %w", ErrPoolStarted)
	}
	if p.size < 1 {
		return fmt.Errorf("start pool: invalid size %d", p.size)
	}

	p.jobs = make(chan ConversionJob, p.capHint)
	p.results = make(chan Outcome, p.capHint)
	p.started = true

	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.worker(ctx)
	}
	return nil
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		// A cancelled context stops jobs that have not started yet;
		// in-flight conversions are never pre-empted.
		if err := ctx.Err(); err != nil {
			p.results <- Outcome{Err: &ConversionError{Job: job, Err: err}}
			continue
		}
		res, err := p.work(ctx, job)
		p.results <- Outcome{Result: res, Err: err}
	}
}

// Submit hands one job to the pool.
func (p *Pool) Submit(job ConversionJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return fmt.Errorf("submit %s: %w", job.Input, ErrPoolNotStarted)
	}
	if p.closed {
		return fmt.Errorf("submit %s: %w", job.Input, ErrPoolClosed)
	}
	p.jobs <- job
	return nil
}

// Results exposes the outcome channel. One Outcome arrives per submitted job.
func (p *Pool) Results() <-chan Outcome { return p.results }

// Shutdown stops accepting jobs and waits for all workers to exit. It is
// idempotent; after it returns no worker goroutine remains alive.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.results)
}
