package watch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/banshee-data/surface.report/internal/monitoring"
)

// Notifier turns filesystem events on the source file into poll
// triggers. It watches the containing directory, since editors and
// loggers often replace the file rather than write it in place. The
// trigger channel is best effort: a dropped trigger only delays the
// reload to the next poll tick, and the detector's mtime cache keeps
// duplicate triggers harmless.
type Notifier struct {
	watcher *fsnotify.Watcher
	path    string
	trigger chan struct{}
	done    chan struct{}
}

// NewNotifier starts watching the directory containing path.
func NewNotifier(path string) (*Notifier, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	n := &Notifier{
		watcher: watcher,
		path:    filepath.Clean(path),
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go n.loop()
	return n, nil
}

// Trigger returns the channel that receives a signal whenever the
// watched file is written, created or renamed into place.
func (n *Notifier) Trigger() <-chan struct{} {
	return n.trigger
}

func (n *Notifier) loop() {
	defer close(n.done)
	for {
		select {
		case ev, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != n.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case n.trigger <- struct{}{}:
			default:
			}
		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			monitoring.Logf("[Watch] fsnotify: %v", err)
		}
	}
}

// Close stops the notifier and waits for its event loop to exit.
func (n *Notifier) Close() error {
	err := n.watcher.Close()
	<-n.done
	return err
}
