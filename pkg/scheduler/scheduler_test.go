package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_RunsInOrder(t *testing.T) {
	sched := NewScheduler(0)
	sched.Start()
	defer sched.Stop()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		if err := sched.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	// Run waits for everything queued before it
	if err := sched.Run(context.Background(), func() {}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 100 {
		t.Fatalf("Expected 100 tasks, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected task %d at position %d, got %d", i, i, v)
		}
	}
}

func TestScheduler_TasksNeverOverlap(t *testing.T) {
	sched := NewScheduler(0)
	sched.Start()
	defer sched.Stop()

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_ = sched.Run(context.Background(), func() {
					n := active.Add(1)
					if n > maxActive.Load() {
						maxActive.Store(n)
					}
					time.Sleep(time.Microsecond)
					active.Add(-1)
				})
			}
		}()
	}
	wg.Wait()

	if maxActive.Load() != 1 {
		t.Errorf("Expected at most one task at a time, saw %d", maxActive.Load())
	}
	if sched.Executed() != 200 {
		t.Errorf("Expected 200 executed tasks, got %d", sched.Executed())
	}
}

func TestScheduler_PostBeforeStart(t *testing.T) {
	sched := NewScheduler(4)
	ran := make(chan struct{})
	if err := sched.Post(func() { close(ran) }); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Expected queued task to run after Start")
	}
}

func TestScheduler_PanicRecovery(t *testing.T) {
	sched := NewScheduler(0)

	var handled atomic.Int32
	sched.SetErrorHandler(func(err error) bool {
		handled.Add(1)
		return true
	})
	sched.Start()
	defer sched.Stop()

	_ = sched.Run(context.Background(), func() { panic("boom") })

	ok := false
	if err := sched.Run(context.Background(), func() { ok = true }); err != nil {
		t.Fatalf("Run after panic failed: %v", err)
	}
	if !ok {
		t.Error("Expected scheduler to keep running after a panic")
	}
	if handled.Load() != 1 {
		t.Errorf("Expected 1 handled panic, got %d", handled.Load())
	}
}

func TestScheduler_HandlerCanStop(t *testing.T) {
	sched := NewScheduler(0)
	sched.SetErrorHandler(func(error) bool { return false })
	sched.Start()
	defer sched.Stop()

	err := sched.Run(context.Background(), func() { panic("fatal") })
	if err != nil && !errors.Is(err, ErrStopped) {
		t.Fatalf("Unexpected error: %v", err)
	}

	// wait for the loop to observe the stop
	sched.Stop()
	if sched.IsRunning() {
		t.Error("Expected scheduler to be stopped")
	}
	if err := sched.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
}

func TestScheduler_RunHonorsContext(t *testing.T) {
	sched := NewScheduler(0)
	sched.Start()
	defer sched.Stop()

	release := make(chan struct{})
	if err := sched.Post(func() { <-release }); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := sched.Run(ctx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	close(release)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	sched := NewScheduler(0)
	sched.Stop()
	if err := sched.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
}
