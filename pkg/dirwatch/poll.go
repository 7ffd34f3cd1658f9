package dirwatch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type entryState struct {
	mtime time.Time
	size  int64
	dir   bool
}

type snapshot map[string]entryState

func takeSnapshot(dir string, recursive bool) snapshot {
	snap := snapshot{}
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return snap
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				continue
			}
			snap[filepath.Join(dir, e.Name())] = entryState{info.ModTime(), info.Size(), info.IsDir()}
		}
		return snap
	}
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == dir {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		snap[p] = entryState{info.ModTime(), info.Size(), info.IsDir()}
		return nil
	})
	return snap
}

// diff reports every change from prev to next, in path order so that
// batches are deterministic.
func diff(prev, next snapshot, b *batch) {
	paths := make([]string, 0, len(prev)+len(next))
	for p := range prev {
		paths = append(paths, p)
	}
	for p := range next {
		if _, ok := prev[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		old, had := prev[p]
		cur, has := next[p]
		switch {
		case had && !has:
			b.add(Removed, p)
		case !had && has:
			b.add(Added, p)
		case old.dir != cur.dir:
			b.add(Removed, p)
			b.add(Added, p)
		case !cur.dir && (!old.mtime.Equal(cur.mtime) || old.size != cur.size):
			b.add(Modified, p)
		}
	}
}

// watchPolling monitors using periodic directory snapshots.
func (w *Watcher) watchPolling(ctx context.Context, prev snapshot, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	b := newBatch()
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			next := takeSnapshot(w.dir, w.opts.Recursive)
			if _, err := os.Stat(w.dir); err != nil {
				// The directory itself went away; let the owner re-read.
				b.overflow = true
			} else {
				diff(prev, next, b)
			}
			prev = next
			if ctx.Err() != nil {
				return
			}
			if !b.empty() {
				w.flush(b)
			}
		}
	}
}
