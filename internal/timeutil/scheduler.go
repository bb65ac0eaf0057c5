package timeutil

import (
	"sync"
	"time"
)

// Scheduler runs repeating callbacks on a Clock. It replaces ad hoc
// timer re-arming: callers hold a Task handle and cancel it instead of
// flipping a flag the callback is expected to notice.
type Scheduler struct {
	clock Clock
}

// NewScheduler creates a Scheduler backed by the given clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Every starts invoking fn once per interval until the returned Task is
// stopped. Invocations run on a dedicated goroutine; fn is never called
// concurrently with itself.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Task {
	t := &Task{
		ticker: s.clock.NewTicker(interval),
		stopCh: make(chan struct{}),
	}
	t.wg.Add(1)
	go t.run(fn)
	return t
}

// Task is a handle to a scheduled repeating callback.
type Task struct {
	ticker   Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func (t *Task) run(fn func()) {
	defer t.wg.Done()
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.ticker.C():
			// A tick may already be buffered when Stop lands;
			// re-check so no callback runs after cancellation.
			select {
			case <-t.stopCh:
				return
			default:
			}
			fn()
		}
	}
}

// Stop cancels the task and blocks until the callback goroutine has
// exited. After Stop returns no further invocation of fn occurs.
// Stop must not be called from inside fn.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.stopCh)
	})
	t.wg.Wait()
}
