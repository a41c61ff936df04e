package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	counter *int64
	err     error
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	atomic.AddInt64(j.counter, 1)
	return &countResult{err: j.err}
}

func TestPool_AllJobsExecute(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var counter int64
	const jobs = 50
	for i := 0; i < jobs; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Errorf("Expected %d results, got %d", jobs, len(results))
	}
	if atomic.LoadInt64(&counter) != jobs {
		t.Errorf("Expected %d executions, got %d", jobs, counter)
	}
}

func TestPool_ErrorsSurfaceInResults(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter int64
	pool.Submit(&countJob{counter: &counter, err: errors.New("boom")})
	pool.Submit(&countJob{counter: &counter})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	failures := 0
	for _, result := range results {
		if result.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failed result, got %d", failures)
	}
}

func TestPool_ZeroWorkersClamped(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter int64
	pool.Submit(&countJob{counter: &counter})

	results := pool.Wait()
	if len(results) != 1 {
		t.Errorf("Expected clamp to 1 worker, got %d results", len(results))
	}
}

type slowJob struct{}

func (j *slowJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
	return &countResult{}
}

func TestPool_ShutdownCancels(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Submit(&slowJob{})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected shutdown to cancel the running job")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	// Exhaust the burst
	if !limiter.Allow("slow") {
		t.Fatal("Expected first request allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("Expected context deadline error while rate limited")
	}
}

func TestLimiter_PerProviderIsolation(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	if !limiter.Allow("a") {
		t.Error("Expected provider a allowed")
	}
	if limiter.Allow("a") {
		t.Error("Expected provider a exhausted")
	}
	if !limiter.Allow("b") {
		t.Error("Expected provider b unaffected")
	}
}

func TestLimiter_CustomRate(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	limiter.SetProviderRate("fast", 1000, 10)

	allowed := 0
	for i := 0; i < 5; i++ {
		if limiter.Allow("fast") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("Expected burst of 5 allowed, got %d", allowed)
	}
}

func TestLimiter_DefaultsClamped(t *testing.T) {
	limiter := NewLimiter(0, 0)
	if !limiter.Allow("any") {
		t.Error("Expected default limiter to allow the first request")
	}
}
