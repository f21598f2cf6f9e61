package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed on the pool. Document prompting and
// per-document evaluation both run as jobs.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool fans jobs out over a fixed number of workers. A collector
// goroutine drains results as they are produced, so callers may submit
// any number of jobs before calling Wait without filling a channel.
// Jobs must be independent; result order is undefined, so callers that
// need corpus order carry an index in their Result and restore it after
// Wait.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	collected []Result
	done      chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers and the result collector.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect drains results for the lifetime of the pool. Workers never
// block on a full results channel, so Submit always makes progress.
func (p *Pool) collect() {
	defer close(p.done)
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
}

// Submit queues a job for execution.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it and returns
// all collected results.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	p.closeResults()
	<-p.done
	return p.collected
}

// Shutdown aborts outstanding work immediately.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.done
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
