// Package foldersize computes the recursive size of a directory tree.
//
// It is the worker-side half of the folder size feature: Calculate runs on
// a pool goroutine against an immutable path and returns a plain value. Files
// that vanish or cannot be read mid-walk are skipped and flagged; they never
// fail the whole calculation.
package foldersize

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/metrics"
)

// DefaultParallelism bounds concurrent subtree walks.
const DefaultParallelism = 4

// Options tunes a calculation.
type Options struct {
	// IncludeHidden counts dot-files and dot-directories.
	IncludeHidden bool
	// Parallelism is the number of top-level subdirectories walked at once.
	// Zero means DefaultParallelism.
	Parallelism int
}

// DefaultOptions counts everything, like a shell "properties" dialog.
func DefaultOptions() Options {
	return Options{IncludeHidden: true, Parallelism: DefaultParallelism}
}

// Result is the outcome of a walk.
type Result struct {
	Bytes   uint64 `json:"bytes"`
	Files   int    `json:"files"`
	Folders int    `json:"folders"`
	// Partial is set when some entries could not be read, or the walk was
	// cut short by ctx. Bytes is then a lower bound.
	Partial bool `json:"partial,omitempty"`
	Errors  int  `json:"errors,omitempty"`
}

type totals struct {
	bytes   atomic.Uint64
	files   atomic.Int64
	folders atomic.Int64
	errs    atomic.Int64
	partial atomic.Bool
}

func (t *totals) fail() {
	t.errs.Add(1)
	t.partial.Store(true)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Calculate sums the sizes of every regular file below root in fsys.
// A root that is a file yields that file's size.
func Calculate(ctx context.Context, fsys fs.FS, root string, opts Options) Result {
	defer metrics.Timer(metrics.FolderSizeWalk)()
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	if root == "" {
		root = "."
	}

	var t totals
	info, err := fs.Stat(fsys, root)
	if err != nil {
		debug.Log("foldersize: stat %s: %v", root, err)
		t.fail()
		return t.result()
	}
	if !info.IsDir() {
		t.files.Add(1)
		t.bytes.Add(nonNegative(info.Size()))
		return t.result()
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		debug.Log("foldersize: readdir %s: %v", root, err)
		t.fail()
		return t.result()
	}

	g := new(errgroup.Group)
	g.SetLimit(opts.Parallelism)
	for _, e := range entries {
		if !opts.IncludeHidden && hidden(e.Name()) {
			continue
		}
		child := path.Join(root, e.Name())
		if !e.IsDir() {
			t.addFile(e)
			continue
		}
		if ctx.Err() != nil {
			t.partial.Store(true)
			break
		}
		t.folders.Add(1)
		g.Go(func() error {
			walk(ctx, fsys, child, opts, &t)
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		t.partial.Store(true)
	}
	return t.result()
}

// Path calculates the size of a directory on the local filesystem.
func Path(ctx context.Context, dir string, opts Options) Result {
	return Calculate(ctx, os.DirFS(dir), ".", opts)
}

func walk(ctx context.Context, fsys fs.FS, dir string, opts Options, t *totals) {
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Vanished entries and permission errors are skipped.
			t.fail()
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		if !opts.IncludeHidden && hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			t.folders.Add(1)
			return nil
		}
		t.addFile(d)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		debug.Log("foldersize: walk %s: %v", dir, err)
	}
}

func (t *totals) addFile(d fs.DirEntry) {
	if !d.Type().IsRegular() {
		// Symlinks, devices and sockets contribute nothing.
		return
	}
	info, err := d.Info()
	if err != nil {
		t.fail()
		return
	}
	t.files.Add(1)
	t.bytes.Add(nonNegative(info.Size()))
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func (t *totals) result() Result {
	return Result{
		Bytes:   t.bytes.Load(),
		Files:   int(t.files.Load()),
		Folders: int(t.folders.Load()),
		Partial: t.partial.Load(),
		Errors:  int(t.errs.Load()),
	}
}
