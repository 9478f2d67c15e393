package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/pipeline"
)

// hookAnalyzer lets tests observe and slow down analysis calls
type hookAnalyzer struct {
	delay time.Duration
	err   error
	calls *int32
	start func()
	end   func()
}

func (a *hookAnalyzer) AnalyzeFile(ctx context.Context, path string) (*pipeline.AnalysisResult, error) {
	if a.start != nil {
		a.start()
	}
	if a.calls != nil {
		atomic.AddInt32(a.calls, 1)
	}
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			if a.end != nil {
				a.end()
			}
			return nil, ctx.Err()
		}
	}
	if a.end != nil {
		a.end()
	}
	if a.err != nil {
		return nil, a.err
	}
	return &pipeline.AnalysisResult{
		Report: &model.Report{ConversationID: path},
	}, nil
}

func TestNewPool(t *testing.T) {
	p1 := NewPool(5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool(0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool(-1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var calls int32
	analyzer := &hookAnalyzer{calls: &calls}
	count := 10

	for i := 0; i < count; i++ {
		pool.Submit(AnalyzeJob{Path: "debate.yaml", Analyzer: analyzer})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}

	if atomic.LoadInt32(&calls) != int32(count) {
		t.Errorf("expected %d analyzed transcripts, got %d", count, calls)
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10
	pool := NewPool(workers)
	pool.Start()

	var current int32
	var maxConcurrent int32
	var completed int32
	var mu sync.Mutex

	analyzer := &hookAnalyzer{
		delay: 10 * time.Millisecond,
		start: func() {
			curr := atomic.AddInt32(&current, 1)
			mu.Lock()
			if curr > maxConcurrent {
				maxConcurrent = curr
			}
			mu.Unlock()
		},
		end: func() {
			atomic.AddInt32(&current, -1)
			atomic.AddInt32(&completed, 1)
		},
	}

	totalJobs := 50
	for i := 0; i < totalJobs; i++ {
		pool.Submit(AnalyzeJob{Path: "debate.yaml", Analyzer: analyzer})
	}

	pool.Wait()

	if atomic.LoadInt32(&completed) != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, completed)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}

	if max <= 1 {
		t.Logf("Warning: max concurrency was %d, expected > 1", max)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(AnalyzeJob{Path: "bad.yaml", Analyzer: &hookAnalyzer{err: errors.New("analyze error")}})
	pool.Submit(AnalyzeJob{Path: "good.yaml", Analyzer: &hookAnalyzer{}})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			if res.Path != "bad.yaml" {
				t.Errorf("expected failure attributed to bad.yaml, got %s", res.Path)
			}
		}
	}

	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	// Submit after shutdown should not panic or block
	done := make(chan struct{})
	go func() {
		pool.Submit(AnalyzeJob{Path: "debate.yaml", Analyzer: &hookAnalyzer{}})
		close(done)
	}()

	select {
	case <-done:
		// Submit returned without blocking
	case <-time.After(1 * time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	// Use a channel to synchronize start of job
	started := make(chan struct{})

	pool.Submit(AnalyzeJob{
		Path: "debate.yaml",
		Analyzer: &hookAnalyzer{
			delay: 200 * time.Millisecond,
			start: func() { close(started) },
		},
	})

	// Wait for job to start
	<-started

	// Shutdown immediately
	pool.Shutdown()

	// Ensure Shutdown returns and closes results
	done := make(chan struct{})
	go func() {
		for range pool.results {
		}
		close(done)
	}()

	select {
	case <-done:
		// success
	case <-time.After(1 * time.Second):
		t.Fatal("Shutdown timed out")
	}
}
