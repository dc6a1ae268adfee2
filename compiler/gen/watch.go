package gen

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceWindow collapses editor write bursts into one change event.
const debounceWindow = 100 * time.Millisecond

// Watcher watches model files and reports changes so a driver can
// regenerate. Directories are watched rather than the files themselves,
// since most editors replace files on save.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	onChange func(path string)
	log      zerolog.Logger
}

// NewWatcher creates a watcher that invokes onChange with the path of each
// changed model file.
func NewWatcher(onChange func(path string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shapec: creating watcher: %w", err)
	}
	return &Watcher{
		watcher:  w,
		files:    make(map[string]struct{}),
		onChange: onChange,
		log:      zerolog.Nop(),
	}, nil
}

// WithLogger sets the logger used by the watcher.
func (w *Watcher) WithLogger(log zerolog.Logger) *Watcher {
	w.log = log
	return w
}

// Add registers a model file for watching.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("shapec: watching %s: %w", filepath.Dir(abs), err)
	}
	w.files[abs] = struct{}{}
	return nil
}

// Start blocks processing events until the context is cancelled or the
// watcher fails.
func (w *Watcher) Start(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending string
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("shapec: watcher event channel closed")
			}
			if !w.tracked(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("model changed")
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("shapec: watcher error channel closed")
			}
			if err != nil {
				w.log.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) tracked(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
