// Package concurrency wraps alitto/pond behind a small pool type shared by
// the sweep and any other fan-out work.
package concurrency

import (
	"fmt"
	"time"

	"defisim/internal/core"

	"github.com/alitto/pond"
)

// PoolConfig configures a WorkerPool. Zero values fall back to small
// defaults suitable for request-scoped fan-out.
type PoolConfig struct {
	Name        string
	MaxWorkers  int
	MaxCapacity int
	IdleTimeout time.Duration
	// NonBlocking makes Submit fail fast when the queue is full instead
	// of blocking the caller.
	NonBlocking bool
}

func (cfg PoolConfig) withDefaults() PoolConfig {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.MaxCapacity <= 0 {
		cfg.MaxCapacity = 100
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	return cfg
}

// PoolStats is a point-in-time snapshot of pool activity.
type PoolStats struct {
	RunningWorkers  int
	IdleWorkers     int
	SubmittedTasks  uint64
	WaitingTasks    uint64
	SuccessfulTasks uint64
	FailedTasks     uint64
}

// WorkerPool is a bounded task pool with panic recovery.
type WorkerPool struct {
	pool   *pond.WorkerPool
	config PoolConfig
	logger core.ILogger
}

// NewWorkerPool creates a pool sized per cfg.
func NewWorkerPool(cfg PoolConfig, logger core.ILogger) *WorkerPool {
	cfg = cfg.withDefaults()
	log := logger.WithField("component", "worker_pool").WithField("pool", cfg.Name)

	return &WorkerPool{
		pool: pond.New(
			cfg.MaxWorkers,
			cfg.MaxCapacity,
			pond.MinWorkers(1),
			pond.IdleTimeout(cfg.IdleTimeout),
			pond.Strategy(pond.Balanced()),
			pond.PanicHandler(func(p interface{}) {
				log.Error("Recovered panic in pool task", "panic", p)
			}),
		),
		config: cfg,
		logger: log,
	}
}

// Submit queues a task. In NonBlocking mode it returns an error when the
// queue is full; otherwise it blocks until the task is accepted.
func (wp *WorkerPool) Submit(task func()) error {
	if !wp.config.NonBlocking {
		wp.pool.Submit(task)
		return nil
	}
	if !wp.pool.TrySubmit(task) {
		return fmt.Errorf("worker pool '%s' is full (capacity: %d)", wp.config.Name, wp.config.MaxCapacity)
	}
	return nil
}

// SubmitAndWait queues a task and blocks until it has run.
func (wp *WorkerPool) SubmitAndWait(task func()) {
	done := make(chan struct{})
	wp.pool.Submit(func() {
		defer close(done)
		task()
	})
	<-done
}

// Stop drains queued tasks and stops the workers.
func (wp *WorkerPool) Stop() {
	wp.pool.StopAndWait()
}

// Stats reports current pool activity.
func (wp *WorkerPool) Stats() PoolStats {
	return PoolStats{
		RunningWorkers:  wp.pool.RunningWorkers(),
		IdleWorkers:     wp.pool.IdleWorkers(),
		SubmittedTasks:  wp.pool.SubmittedTasks(),
		WaitingTasks:    wp.pool.WaitingTasks(),
		SuccessfulTasks: wp.pool.SuccessfulTasks(),
		FailedTasks:     wp.pool.FailedTasks(),
	}
}
