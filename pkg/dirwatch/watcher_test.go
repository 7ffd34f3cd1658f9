package dirwatch

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vanderheijden86/panes/pkg/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) post(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) has(kind Kind, path string) bool {
	for _, e := range r.snapshot() {
		if e.Kind == kind && e.Path == path {
			return true
		}
	}
	return false
}

func fastOptions() Options {
	return Options{Debounce: 20 * time.Millisecond, PollInterval: 30 * time.Millisecond}
}

func TestBatchPairsRenames(t *testing.T) {
	b := newBatch()
	b.renameFrom("/d/old")
	b.add(Added, "/d/new")
	b.renameFrom("/d/gone")

	got := b.take()
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 events", got)
	}
	if got[0].Kind != Renamed || got[0].OldPath != "/d/old" || got[0].Path != "/d/new" {
		t.Errorf("first event = %v", got[0])
	}
	if got[1].Kind != Removed || got[1].Path != "/d/gone" {
		t.Errorf("unpaired rename = %v", got[1])
	}
	if !b.empty() {
		t.Error("take should reset the batch")
	}
}

func TestBatchRenamePairsOnlyWithinFolder(t *testing.T) {
	b := newBatch()
	b.renameFrom("/d/old")
	b.add(Added, "/e/unrelated")
	b.add(Added, "/d/new")

	got := b.take()
	want := []Event{
		{Kind: Added, Path: "/e/unrelated"},
		{Kind: Renamed, OldPath: "/d/old", Path: "/d/new"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}

	b.renameFrom("/d/moved")
	b.add(Added, "/e/arrived")
	got = b.take()
	if len(got) != 2 || got[0] != (Event{Kind: Added, Path: "/e/arrived"}) || got[1] != (Event{Kind: Removed, Path: "/d/moved"}) {
		t.Errorf("cross-folder move = %v, want an Added and a Removed", got)
	}
}

func TestBatchCollapsesModified(t *testing.T) {
	b := newBatch()
	b.add(Modified, "/d/a")
	b.add(Modified, "/d/a")
	b.add(Added, "/d/b")
	b.add(Modified, "/d/b")
	b.add(Modified, "/d/c")

	got := b.take()
	want := []Event{{Kind: Modified, Path: "/d/a"}, {Kind: Added, Path: "/d/b"}, {Kind: Modified, Path: "/d/c"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBatchOverflowReplacesEvents(t *testing.T) {
	b := newBatch()
	b.add(Added, "/d/a")
	b.overflow = true
	got := b.take()
	if len(got) != 1 || got[0].Kind != Overflow {
		t.Errorf("got %v, want a single overflow", got)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"keep.txt": "a", "old.txt": "b"})
	var rec recorder
	w, err := NewWatcher(1, dir, fastOptions(), rec.post)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	created := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(created, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.Eventually(t, 2*time.Second, func() bool { return rec.has(Added, created) }, "added event")

	if err := os.Remove(filepath.Join(dir, "keep.txt")); err != nil {
		t.Fatal(err)
	}
	testutil.Eventually(t, 2*time.Second, func() bool {
		return rec.has(Removed, filepath.Join(dir, "keep.txt"))
	}, "removed event")

	for _, e := range rec.snapshot() {
		if e.WatchID != 1 {
			t.Errorf("event %v carries watch id %d", e, e.WatchID)
		}
	}
}

func TestWatcherRename(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"old.txt": "b"})
	var rec recorder
	w, _ := NewWatcher(3, dir, fastOptions(), rec.post)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if w.IsPolling() {
		t.Skip("fsnotify unavailable; rename pairing needs native events")
	}

	oldPath, newPath := filepath.Join(dir, "old.txt"), filepath.Join(dir, "new.txt")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	testutil.Eventually(t, 2*time.Second, func() bool {
		for _, e := range rec.snapshot() {
			if e.Kind == Renamed && e.OldPath == oldPath && e.Path == newPath {
				return true
			}
		}
		return false
	}, "renamed event")
}

func TestWatcherPolling(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"a.txt": "a"})
	opts := fastOptions()
	opts.ForcePoll = true

	var rec recorder
	w, _ := NewWatcher(2, dir, opts, rec.post)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if !w.IsPolling() {
		t.Fatal("ForcePoll should select polling")
	}

	added := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(added, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.Eventually(t, 2*time.Second, func() bool { return rec.has(Added, added) }, "polled add")

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("longer content"), 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.Eventually(t, 2*time.Second, func() bool {
		return rec.has(Modified, filepath.Join(dir, "a.txt"))
	}, "polled modify")
}

func TestForcePollEnv(t *testing.T) {
	t.Setenv("PANES_FORCE_POLL", "1")
	w, err := NewWatcher(1, t.TempDir(), Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if !w.IsPolling() {
		t.Error("PANES_FORCE_POLL should force polling mode")
	}
}

func TestWatcherRecursive(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"sub/deep/x.txt": "x"})
	opts := fastOptions()
	opts.Recursive = true

	var rec recorder
	w, _ := NewWatcher(4, dir, opts, rec.post)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	nested := filepath.Join(dir, "sub", "deep", "y.txt")
	if err := os.WriteFile(nested, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.Eventually(t, 2*time.Second, func() bool { return rec.has(Added, nested) }, "nested add")
}

func TestNonRecursiveIgnoresSubdirs(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{"sub/x.txt": "x"})
	var rec recorder
	w, _ := NewWatcher(5, dir, fastOptions(), rec.post)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "sub", "y.txt"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	for _, e := range rec.snapshot() {
		if filepath.Dir(e.Path) != dir {
			t.Errorf("unexpected event below the listing: %v", e)
		}
	}
}

func TestStartErrors(t *testing.T) {
	w, _ := NewWatcher(1, filepath.Join(t.TempDir(), "missing"), Options{}, nil)
	if err := w.Start(); err == nil {
		w.Stop()
		t.Fatal("Start should fail for a missing directory")
	}

	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, _ = NewWatcher(1, file, Options{}, nil)
	if err := w.Start(); err != ErrNotDirectory {
		t.Errorf("Start on file = %v, want ErrNotDirectory", err)
	}

	w, _ = NewWatcher(1, t.TempDir(), Options{}, nil)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
	w.Stop()
	w.Stop()
}

// Nothing is posted once Stop has returned, even with changes in flight.
func TestStopJoinsWatchGoroutine(t *testing.T) {
	for _, poll := range []bool{false, true} {
		dir := t.TempDir()
		opts := fastOptions()
		opts.ForcePoll = poll

		var stopped atomic.Bool
		var late atomic.Int32
		w, _ := NewWatcher(9, dir, opts, func(Event) {
			if stopped.Load() {
				late.Add(1)
			}
		})
		if err := w.Start(); err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 20; i++ {
			_ = os.WriteFile(filepath.Join(dir, "f"+string(rune('a'+i))), []byte("x"), 0o644)
		}
		w.Stop()
		stopped.Store(true)

		for i := 0; i < 20; i++ {
			_ = os.WriteFile(filepath.Join(dir, "g"+string(rune('a'+i))), []byte("x"), 0o644)
		}
		time.Sleep(150 * time.Millisecond)
		if n := late.Load(); n != 0 {
			t.Errorf("poll=%v: %d events posted after Stop returned", poll, n)
		}
		if w.IsStarted() {
			t.Error("IsStarted after Stop")
		}
	}
}

func TestManager(t *testing.T) {
	m := NewManager()
	var rec recorder

	a, err := m.Watch(t.TempDir(), fastOptions(), rec.post)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Watch(t.TempDir(), fastOptions(), rec.post)
	if err != nil {
		t.Fatal(err)
	}
	if a == b || b <= a {
		t.Errorf("ids not increasing: %d then %d", a, b)
	}
	if !m.Active(a) || !m.Active(b) || m.Len() != 2 {
		t.Fatal("watches should be active")
	}

	if !m.Stop(a) {
		t.Error("Stop(a) should report an active watch")
	}
	if m.Stop(a) {
		t.Error("second Stop(a) should report inactive")
	}
	if m.Active(a) {
		t.Error("a still active")
	}

	if _, err := m.Watch(filepath.Join(t.TempDir(), "missing"), Options{}, rec.post); err == nil {
		t.Error("Watch on a missing directory should fail")
	}

	c, _ := m.Watch(t.TempDir(), fastOptions(), rec.post)
	if c <= b {
		t.Errorf("id %d reused or decreasing after %d", c, b)
	}
	m.StopAll()
	if m.Len() != 0 || m.Active(b) || m.Active(c) {
		t.Error("StopAll left watches running")
	}
}
