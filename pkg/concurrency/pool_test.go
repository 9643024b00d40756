package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"

	"defisim/internal/core"
)

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, fields ...interface{})               {}
func (l *noopLogger) Info(msg string, fields ...interface{})                {}
func (l *noopLogger) Warn(msg string, fields ...interface{})                {}
func (l *noopLogger) Error(msg string, fields ...interface{})               {}
func (l *noopLogger) Fatal(msg string, fields ...interface{})               {}
func (l *noopLogger) WithField(key string, value interface{}) core.ILogger  { return l }
func (l *noopLogger) WithFields(fields map[string]interface{}) core.ILogger { return l }

func TestWorkerPool_SubmitRunsTasks(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		Name:        "TestPool",
		MaxWorkers:  4,
		MaxCapacity: 100,
	}, &noopLogger{})

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
			wg.Done()
		}); err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
	}
	wg.Wait()
	pool.Stop()

	if got := atomic.LoadInt64(&counter); got != 50 {
		t.Errorf("expected 50 tasks to run, got %d", got)
	}
}

func TestWorkerPool_SubmitAndWait(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		Name:        "TestPoolWait",
		MaxWorkers:  2,
		MaxCapacity: 10,
	}, &noopLogger{})
	defer pool.Stop()

	ran := false
	pool.SubmitAndWait(func() {
		ran = true
	})
	if !ran {
		t.Error("SubmitAndWait returned before the task ran")
	}
}

func TestWorkerPool_DefaultsApplied(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Name: "Defaults"}, &noopLogger{})
	defer pool.Stop()

	if pool.config.MaxWorkers != 4 {
		t.Errorf("expected default MaxWorkers 4, got %d", pool.config.MaxWorkers)
	}
	if pool.config.MaxCapacity != 100 {
		t.Errorf("expected default MaxCapacity 100, got %d", pool.config.MaxCapacity)
	}

	pool.SubmitAndWait(func() {})
	if stats := pool.Stats(); stats.SubmittedTasks == 0 {
		t.Error("Stats reported zero submitted tasks after a submit")
	}
}

func BenchmarkWorkerPool_Submit(b *testing.B) {
	pool := NewWorkerPool(PoolConfig{
		Name:        "BenchmarkPool",
		MaxWorkers:  10,
		MaxCapacity: 1000,
	}, &noopLogger{})
	defer pool.Stop()

	b.ResetTimer()
	var counter int64
	for i := 0; i < b.N; i++ {
		_ = pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
}
