// Package watch detects changes to the measurement file and reloads
// it. Detection is mtime-based polling; an optional fsnotify trigger
// collapses into the same poll path so event-driven and tick-driven
// deployments behave identically.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/monitoring"
	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/timeutil"
)

// DefaultPollInterval is the recommended polling cadence.
const DefaultPollInterval = 400 * time.Millisecond

// ErrFileUnavailable reports a stat or read failure on the source
// file. It is recoverable: the cached mtime is untouched, the previous
// grid is retained, and the next poll retries.
var ErrFileUnavailable = errors.New("measurement file unavailable")

// Detector polls a single source file's modification time and
// normalizes the file when it changes. It owns the cached timestamp;
// writes that land between two polls coalesce into one reload, since
// only the final on-disk state is observed.
type Detector struct {
	path      string
	fs        fsutil.FileSystem
	interval  time.Duration
	lastMtime time.Time
	hasMtime  bool
}

// NewDetector creates a Detector for path. A nil fs means the real
// filesystem; a non-positive interval means DefaultPollInterval.
func NewDetector(path string, fs fsutil.FileSystem, interval time.Duration) *Detector {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Detector{
		path:     path,
		fs:       fs,
		interval: interval,
	}
}

// Interval returns the polling cadence.
func (d *Detector) Interval() time.Duration {
	return d.interval
}

// Poll stats the source file once. It returns a new grid only when the
// modification time differs from the cached value; any difference
// counts, including a decrease from a file replaced with an older
// copy. A stat or read failure returns ErrFileUnavailable without
// touching the cache, so the change is picked up on a later poll.
// Parse failures are absorbed by normalization: the returned grid is
// all zeros and the diagnostic says why.
func (d *Detector) Poll() (*surface.Grid, string, error) {
	info, err := d.fs.Stat(d.path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}

	mtime := info.ModTime()
	if d.hasMtime && mtime.Equal(d.lastMtime) {
		return nil, "", nil
	}

	g, diag, err := surface.LoadCSV(d.fs, d.path)
	if err != nil {
		// Read failed after a successful stat; leave the cache alone
		// and retry next poll.
		return nil, "", fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}

	d.lastMtime = mtime
	d.hasMtime = true
	return &g, diag, nil
}

// Run polls on a ticker until ctx is cancelled, forwarding each new
// grid to onGrid. An optional trigger channel (see Notifier) forces an
// immediate poll between ticks. Run is the only goroutine that calls
// Poll, keeping the cached mtime single-writer.
func (d *Detector) Run(ctx context.Context, clock timeutil.Clock, trigger <-chan struct{}, onGrid func(surface.Grid, string)) {
	ticker := clock.NewTicker(d.interval)
	defer ticker.Stop()

	monitoring.Logf("[Watch] polling %s every %s", d.path, d.interval)
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("[Watch] stopped")
			return
		case <-ticker.C():
		case <-trigger:
		}

		g, diag, err := d.Poll()
		if err != nil {
			monitoring.Logf("[Watch] %v", err)
			continue
		}
		if g == nil {
			continue
		}
		if diag != "" {
			monitoring.Logf("[Watch] reload with diagnostic: %s", diag)
		}
		onGrid(*g, diag)
	}
}
