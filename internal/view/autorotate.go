package view

import (
	"log"
	"sync"
	"time"

	"github.com/banshee-data/surface.report/internal/timeutil"
)

// Recommended auto-rotate defaults; overridable via config.
const (
	DefaultAutoRotateStepDeg  = 1.0
	DefaultAutoRotateInterval = 125 * time.Millisecond
)

// AutoRotator advances the azimuth by a fixed step at a fixed cadence
// while enabled. Disabling cancels the scheduled task synchronously, so
// no step can land after Toggle returns; the guarantee comes from the
// scheduler's cancellation handle, not from a flag the callback checks.
type AutoRotator struct {
	mu       sync.Mutex
	sched    *timeutil.Scheduler
	interval time.Duration
	step     float64
	rotate   func(dElev, dAzim float64)
	task     *timeutil.Task
}

// NewAutoRotator creates a disabled AutoRotator. rotate is invoked as
// rotate(0, step) on each tick while enabled; it must be safe to call
// from the scheduler goroutine.
func NewAutoRotator(sched *timeutil.Scheduler, interval time.Duration, step float64, rotate func(dElev, dAzim float64)) *AutoRotator {
	if interval <= 0 {
		interval = DefaultAutoRotateInterval
	}
	if step == 0 {
		step = DefaultAutoRotateStepDeg
	}
	return &AutoRotator{
		sched:    sched,
		interval: interval,
		step:     step,
		rotate:   rotate,
	}
}

// Toggle flips auto-rotate and returns the new enabled state.
func (a *AutoRotator) Toggle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.task != nil {
		a.task.Stop()
		a.task = nil
		log.Printf("[AutoRotate] disabled")
		return false
	}

	a.task = a.sched.Every(a.interval, func() {
		a.rotate(0, a.step)
	})
	log.Printf("[AutoRotate] enabled: %.1f deg every %s", a.step, a.interval)
	return true
}

// Enabled reports whether auto-rotate is currently running.
func (a *AutoRotator) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.task != nil
}

// Stop disables auto-rotate if enabled. Safe to call repeatedly;
// intended for teardown.
func (a *AutoRotator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.task != nil {
		a.task.Stop()
		a.task = nil
	}
}
