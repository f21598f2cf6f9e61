package worker

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type indexJob struct {
	index int
	fail  bool
}

type indexResult struct {
	index int
	err   error
}

func (r *indexResult) GetError() error { return r.err }

func (j *indexJob) Execute(ctx context.Context) Result {
	if j.fail {
		return &indexResult{index: j.index, err: errors.New("job failed")}
	}
	return &indexResult{index: j.index}
}

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.Submit(&indexJob{index: i})
	}
	results := pool.Wait()

	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}

	// Order is undefined; restore it by index.
	indices := make([]int, len(results))
	for i, r := range results {
		indices[i] = r.(*indexResult).index
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("missing result for job %d", i)
		}
	}
}

func TestPool_JobErrorsAreResults(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&indexJob{index: 0, fail: true})
	pool.Submit(&indexJob{index: 1})
	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failed job, got %d", failures)
	}
}

// Submitting far more jobs than the channels can buffer must not block:
// the collector drains results while submission is still in progress.
func TestPool_ManyMoreJobsThanWorkers(t *testing.T) {
	const jobs = 200

	done := make(chan []Result, 1)
	go func() {
		pool := NewPool(1)
		pool.Start()
		for i := 0; i < jobs; i++ {
			pool.Submit(&indexJob{index: i})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != jobs {
			t.Fatalf("expected %d results, got %d", jobs, len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pool blocked submitting more jobs than the channel capacity")
	}
}

func TestPool_ZeroWorkersClampsToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()
	pool.Submit(&indexJob{index: 0})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}
