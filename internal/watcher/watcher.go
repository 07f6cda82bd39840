// Package watcher reports files that appear or change in a directory,
// once they have been quiet for a debounce interval.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebounce is how long a file must stay unchanged before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Dir      string
	Debounce time.Duration                          // 0 = DefaultDebounce
	Accept   func(path string) bool                 // nil = every file
	Handle   func(ctx context.Context, path string) // called from Run's goroutine
	Logger   hclog.Logger
}

// Watcher monitors a single directory (not recursive).
type Watcher struct {
	cfg Config
	fsw *fsnotify.Watcher
	log hclog.Logger
}

// New starts watching cfg.Dir. Events are delivered once Run is called.
func New(cfg Config) (*Watcher, error) {
	if cfg.Handle == nil {
		return nil, fmt.Errorf("watcher: nil handler")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}

	return &Watcher{cfg: cfg, fsw: fsw, log: log.Named("watcher")}, nil
}

// Run dispatches debounced file events to the handler until ctx is done.
// Handlers run one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ready := make(chan string, 64)
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := event.Name
			if strings.HasPrefix(filepath.Base(name), ".") {
				continue
			}
			if w.cfg.Accept != nil && !w.cfg.Accept(name) {
				continue
			}

			mu.Lock()
			if t, exists := timers[name]; exists {
				t.Stop()
			}
			timers[name] = time.AfterFunc(w.cfg.Debounce, func() {
				mu.Lock()
				delete(timers, name)
				mu.Unlock()
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})
			mu.Unlock()

		case name := <-ready:
			w.log.Debug("file settled", "path", name)
			w.cfg.Handle(ctx, name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
