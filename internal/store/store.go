// Package store owns the live monitoring state: the current
// measurement grid, the view, and the derived summary. It is the
// single mutation point; the detector, the auto-rotator and HTTP
// handlers all funnel through it, and the external renderer observes
// it.
package store

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/timeutil"
	"github.com/banshee-data/surface.report/internal/view"
)

// Snapshot is a consistent read of the store's state. All fields are
// values; holding a Snapshot never observes later mutations.
type Snapshot struct {
	Grid       surface.Grid    `json:"grid"`
	View       view.State      `json:"view"`
	Summary    surface.Summary `json:"summary"`
	AutoRotate bool            `json:"auto_rotate"`
	LoadedAt   time.Time       `json:"loaded_at"`
	Diagnostic string          `json:"diagnostic,omitempty"`
}

// Observer is notified synchronously after every grid replacement.
type Observer func(Snapshot)

// GridStore is the mutable hub. All access goes through its mutex, so
// the polling goroutine, the auto-rotate scheduler and HTTP handlers
// can share it.
type GridStore struct {
	mu         sync.Mutex
	grid       surface.Grid
	view       view.State
	summary    surface.Summary
	unitScale  float64
	loadedAt   time.Time
	diagnostic string

	clock      timeutil.Clock
	rotator    *view.AutoRotator
	autoRotate bool
	toggleMu   sync.Mutex

	observers []observerEntry
}

type observerEntry struct {
	id uuid.UUID
	fn Observer
}

// New creates a GridStore holding a zero grid and the default view.
// unitScale converts raw millimetre cell values for the reported
// summary (1.0 = millimetres).
func New(unitScale float64, clock timeutil.Clock) *GridStore {
	if unitScale == 0 {
		unitScale = 1.0
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	s := &GridStore{
		view:      view.DefaultState(),
		unitScale: unitScale,
		clock:     clock,
	}
	s.summary = surface.Analyze(s.grid, s.unitScale)
	return s
}

// AttachAutoRotator wires the auto-rotate driver. Must be called
// before any ToggleAutoRotate command is applied.
func (s *GridStore) AttachAutoRotator(r *view.AutoRotator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotator = r
}

// ReplaceGrid swaps the stored grid wholesale, recomputes the summary
// and notifies observers in subscription order. There is no partial
// update path. A diagnostic from normalization travels with the grid.
func (s *GridStore) ReplaceGrid(g surface.Grid, diagnostic string) {
	s.mu.Lock()
	s.grid = g
	s.diagnostic = diagnostic
	s.summary = surface.Analyze(g, s.unitScale)
	s.loadedAt = s.clock.Now()
	snap := s.snapshotLocked()
	observers := make([]observerEntry, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		notifyObserver(o, snap)
	}
}

// notifyObserver isolates observer failures: one panicking observer
// must not keep the rest from being notified.
func notifyObserver(o observerEntry, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GridStore] observer %s panicked: %v", o.id, r)
		}
	}()
	o.fn(snap)
}

// Subscribe registers an observer and returns its handle. Observers
// are invoked in subscription order.
func (s *GridStore) Subscribe(fn Observer) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	return id
}

// Unsubscribe removes an observer by handle. Unknown handles are a
// no-op.
func (s *GridStore) Unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Apply dispatches a view command. ToggleAutoRotate is handled outside
// the store lock: stopping the rotator waits for any in-flight rotate
// step, which itself needs the lock.
func (s *GridStore) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case Rotate:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.view.Rotate(c.DElev, c.DAzim)
		return nil
	case SetView:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.view.Set(c.Elevation, c.Azimuth)
		return nil
	case ResetView:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.view.Reset()
		return nil
	case SetColormap:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.view.SetColormap(c.Name)
	case ToggleAutoRotate:
		s.mu.Lock()
		rotator := s.rotator
		s.mu.Unlock()
		if rotator == nil {
			return fmt.Errorf("auto-rotate not configured")
		}
		// Toggle may block on an in-flight rotate step that needs the
		// store lock, so it runs with the lock released. toggleMu
		// serializes racing toggles so the cached flag cannot lag
		// behind the rotator.
		s.toggleMu.Lock()
		defer s.toggleMu.Unlock()
		enabled := rotator.Toggle()
		s.mu.Lock()
		s.autoRotate = enabled
		s.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *GridStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *GridStore) snapshotLocked() Snapshot {
	return Snapshot{
		Grid:       s.grid,
		View:       s.view,
		Summary:    s.summary,
		AutoRotate: s.autoRotate,
		LoadedAt:   s.loadedAt,
		Diagnostic: s.diagnostic,
	}
}

// Grid returns the current grid.
func (s *GridStore) Grid() surface.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// View returns the current view state.
func (s *GridStore) View() view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Summary returns the current statistics in the store's unit scale.
func (s *GridStore) Summary() surface.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// UnitScale returns the configured unit conversion factor.
func (s *GridStore) UnitScale() float64 {
	return s.unitScale
}
