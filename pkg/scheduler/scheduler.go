// Package scheduler runs the tasks of one editor on a single goroutine.
//
// Every mutation of an editor's controls is posted here, so tasks run one
// at a time, to completion, in the order they were posted.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned when posting to a stopped scheduler
var ErrStopped = errors.New("scheduler stopped")

// Task is a unit of work run on the scheduler goroutine
type Task func()

// ErrorHandler handles panics raised by tasks.
// Returns true to keep running, false to stop the scheduler.
type ErrorHandler func(err error) bool

// debugLog is set by the host for verbose tracing
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Scheduler is a serial task queue
type Scheduler struct {
	queue   chan Task
	done    chan struct{}
	exited  chan struct{}
	started atomic.Bool
	stopped atomic.Bool
	once    sync.Once
	onError ErrorHandler
	ran     atomic.Uint64
}

// NewScheduler creates a scheduler with room for size pending tasks
func NewScheduler(size int) *Scheduler {
	if size <= 0 {
		size = 256
	}
	return &Scheduler{
		queue:  make(chan Task, size),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// SetErrorHandler sets the handler for task panics
func (s *Scheduler) SetErrorHandler(handler ErrorHandler) {
	s.onError = handler
}

// Start begins the loop. Tasks posted before Start run once it begins.
func (s *Scheduler) Start() {
	if s.started.CompareAndSwap(false, true) {
		if debugLog != nil {
			debugLog("[Scheduler] Starting loop")
		}
		go s.loop()
	}
}

// Stop ends the loop and waits for the running task to finish.
// Tasks still queued are discarded.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.done)
	})
	if s.started.Load() {
		<-s.exited
	}
}

// IsRunning reports whether the loop is accepting work
func (s *Scheduler) IsRunning() bool {
	return s.started.Load() && !s.stopped.Load()
}

// Executed returns the number of tasks run so far
func (s *Scheduler) Executed() uint64 {
	return s.ran.Load()
}

// Post queues task. It blocks while the queue is full.
func (s *Scheduler) Post(task Task) error {
	if s.stopped.Load() {
		return ErrStopped
	}
	select {
	case s.queue <- task:
		return nil
	case <-s.done:
		return ErrStopped
	}
}

// Run posts task and waits for it to complete
func (s *Scheduler) Run(ctx context.Context, task Task) error {
	finished := make(chan struct{})
	if err := s.Post(func() {
		defer close(finished)
		task()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop() {
	defer close(s.exited)
	for {
		select {
		case <-s.done:
			if debugLog != nil {
				debugLog("[Scheduler] Loop ended with", len(s.queue), "tasks pending")
			}
			return
		case task := <-s.queue:
			if !s.execute(task) {
				s.once.Do(func() {
					s.stopped.Store(true)
					close(s.done)
				})
				return
			}
		}
	}
}

// execute runs one task, converting a panic into an error for the handler
func (s *Scheduler) execute(task Task) (keepRunning bool) {
	keepRunning = true
	defer func() {
		s.ran.Add(1)
		if r := recover(); r != nil {
			err := fmt.Errorf("task panic: %v\n%s", r, debug.Stack())
			if debugLog != nil {
				debugLog("[Scheduler]", err)
			}
			if s.onError != nil {
				keepRunning = s.onError(err)
			}
		}
	}()
	task()
	return keepRunning
}
