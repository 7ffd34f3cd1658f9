// Package dirwatch delivers change notifications for a directory listing.
//
// Each watch runs on its own goroutine, using fsnotify with a polling
// fallback. Raw filesystem events are coalesced inside that goroutine and
// handed to a post function in batches, so once Stop returns nothing more
// is ever posted for the watch.
package dirwatch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/metrics"
	"github.com/vanderheijden86/panes/pkg/volume"
)

const (
	// DefaultDebounce is how long a watch waits for quiet before posting.
	DefaultDebounce = 100 * time.Millisecond
	// DefaultPollInterval is the default polling interval for fallback mode.
	DefaultPollInterval = 2 * time.Second

	// Bursts longer than this many debounce periods are flushed anyway.
	maxDelayFactor = 10
)

// Common errors.
var (
	ErrNotDirectory   = errors.New("not a directory")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Options configures a watch.
type Options struct {
	// Recursive also reports changes in every subdirectory.
	Recursive bool
	// Debounce is the quiet period before a batch is posted.
	Debounce time.Duration
	// ForcePoll skips fsnotify and polls the directory.
	ForcePoll bool
	// PollInterval is the polling period in fallback mode.
	PollInterval time.Duration
}

// DefaultOptions returns the options used for tab listings.
func DefaultOptions() Options {
	return Options{Debounce: DefaultDebounce, PollInterval: DefaultPollInterval}
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if envBool("PANES_FORCE_POLL") || envBool("PANES_FORCE_POLLING") {
		o.ForcePoll = true
	}
	return o
}

// Watcher monitors one directory.
type Watcher struct {
	id   ID
	dir  string
	opts Options
	post func(Event)

	mu        sync.Mutex
	started   bool
	polling   bool
	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewWatcher prepares a watch of dir. Events are passed to post from the
// watch goroutine and carry id.
func NewWatcher(id ID, dir string, opts Options, post func(Event)) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if post == nil {
		post = func(Event) {}
	}
	return &Watcher{id: id, dir: abs, opts: opts.withDefaults(), post: post}, nil
}

// Start begins watching. An error means no notifications will ever be
// delivered; the caller carries on without them.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.polling = w.opts.ForcePoll || volume.IsRemote(w.dir)

	if !w.polling {
		fsw, err := w.newFsnotify()
		if err != nil {
			debug.Log("dirwatch: fsnotify unavailable for %s, polling: %v", w.dir, err)
			w.polling = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify(ctx, fsw, w.done)
		}
	}
	if w.polling {
		snap := takeSnapshot(w.dir, w.opts.Recursive)
		go w.watchPolling(ctx, snap, w.done)
	}

	w.started = true
	debug.Trace("watch_start", map[string]any{"watch": uint64(w.id), "dir": w.dir, "polling": w.polling})
	return nil
}

func (w *Watcher) newFsnotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, err
	}
	if w.opts.Recursive {
		w.addSubdirs(fsw, w.dir)
	}
	return fsw, nil
}

// addSubdirs registers every directory below root. Failures on individual
// subdirectories only narrow the watch.
func (w *Watcher) addSubdirs(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && p != root {
			if err := fsw.Add(p); err != nil {
				debug.Log("dirwatch: cannot watch %s: %v", p, err)
			}
		}
		return nil
	})
}

// Stop ends the watch and waits for its goroutine to exit. Stop is
// idempotent. The post function must not block on the caller of Stop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	done := w.done
	w.mu.Unlock()

	<-done
	debug.Trace("watch_stop", map[string]any{"watch": uint64(w.id), "dir": w.dir})
}

// ID returns the watch id.
func (w *Watcher) ID() ID { return w.id }

// Dir returns the absolute watched directory.
func (w *Watcher) Dir() string { return w.dir }

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) flush(b *batch) {
	for _, ev := range b.take() {
		ev.WatchID = w.id
		if ev.Kind == Overflow {
			ev.Path = w.dir
		}
		metrics.WatchEvents.Inc()
		w.post(ev)
	}
}

// relevant filters out events the listing cannot show.
func (w *Watcher) relevant(path string) bool {
	if w.opts.Recursive {
		return true
	}
	return filepath.Dir(path) == w.dir
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	b := newBatch()
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var first time.Time

	arm := func() {
		now := time.Now()
		if first.IsZero() {
			first = now
		}
		wait := w.opts.Debounce
		if deadline := first.Add(maxDelayFactor * w.opts.Debounce); now.Add(wait).After(deadline) {
			wait = max(deadline.Sub(now), 0)
		}
		timer.Reset(wait)
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.translate(fsw, b, event)
			if !b.empty() {
				arm()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				b.overflow = true
				arm()
				continue
			}
			debug.Log("dirwatch: %s: %v", w.dir, err)

		case <-timer.C:
			first = time.Time{}
			if ctx.Err() != nil {
				return
			}
			w.flush(b)
		}
	}
}

func (w *Watcher) translate(fsw *fsnotify.Watcher, b *batch, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		b.add(Added, event.Name)
		if w.opts.Recursive {
			if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
				if err := fsw.Add(event.Name); err == nil {
					w.addSubdirs(fsw, event.Name)
				}
			}
		}
	case event.Has(fsnotify.Rename):
		b.renameFrom(event.Name)
	case event.Has(fsnotify.Remove):
		b.add(Removed, event.Name)
	case event.Has(fsnotify.Write), event.Has(fsnotify.Chmod):
		b.add(Modified, event.Name)
	}
}
