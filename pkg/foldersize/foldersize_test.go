package foldersize

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vanderheijden86/panes/pkg/testutil"
)

func TestCalculateSizedFS(t *testing.T) {
	fsys := testutil.SizedFS{
		"a.bin":          1000,
		"sub/b.bin":      2000,
		"sub/deep/c.bin": 3000,
		".git/objects/x": 500,
		"empty/":         0,
	}

	got := Calculate(context.Background(), fsys, ".", DefaultOptions())
	if got.Bytes != 6500 {
		t.Errorf("Bytes = %d, want 6500", got.Bytes)
	}
	if got.Files != 4 {
		t.Errorf("Files = %d, want 4", got.Files)
	}
	// .git, .git/objects, empty, sub, sub/deep
	if got.Folders != 5 {
		t.Errorf("Folders = %d, want 5", got.Folders)
	}
	if got.Partial || got.Errors != 0 {
		t.Errorf("unexpected partial result: %+v", got)
	}
}

func TestCalculateSkipsHidden(t *testing.T) {
	fsys := testutil.SizedFS{
		"a.bin":          1000,
		".git/objects/x": 500,
		"sub/.env":       7,
	}
	got := Calculate(context.Background(), fsys, ".", Options{})
	if got.Bytes != 1000 || got.Files != 1 {
		t.Errorf("got %+v, want 1000 bytes in 1 file", got)
	}
}

func TestCalculateHundredMegabytes(t *testing.T) {
	fsys := testutil.SizedFS{
		"big/part1": 52428800,
		"big/part2": 52428800,
	}
	got := Calculate(context.Background(), fsys, "big", DefaultOptions())
	if got.Bytes != 104857600 {
		t.Errorf("Bytes = %d, want 104857600", got.Bytes)
	}
}

func TestCalculateMatchesRandomTree(t *testing.T) {
	fsys, want := testutil.RandomTree(testutil.TreeConfig{Seed: 7, Depth: 3, Breadth: 3, Files: 5})
	for _, par := range []int{1, 2, 8} {
		got := Calculate(context.Background(), fsys, ".", Options{IncludeHidden: true, Parallelism: par})
		if got.Bytes != want {
			t.Errorf("parallelism %d: Bytes = %d, want %d", par, got.Bytes, want)
		}
		if got.Files != 40*5 {
			t.Errorf("parallelism %d: Files = %d, want %d", par, got.Files, 40*5)
		}
	}
}

func TestCalculateMissingRoot(t *testing.T) {
	got := Calculate(context.Background(), testutil.SizedFS{}, "nope", DefaultOptions())
	if !got.Partial || got.Errors != 1 || got.Bytes != 0 {
		t.Errorf("got %+v, want partial with one error", got)
	}
}

func TestCalculateFileRoot(t *testing.T) {
	got := Calculate(context.Background(), testutil.SizedFS{"f": 42}, "f", DefaultOptions())
	if got.Bytes != 42 || got.Files != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestCalculateCancelled(t *testing.T) {
	fsys, _ := testutil.RandomTree(testutil.TreeConfig{Depth: 3, Breadth: 4, Files: 3})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := Calculate(ctx, fsys, ".", DefaultOptions())
	if !got.Partial {
		t.Errorf("cancelled walk should be partial: %+v", got)
	}
}

func TestPathOnDisk(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"one.txt":       "hello",
		"nested/two":    "0123456789",
		"nested/empty/": "",
	})
	got := Path(context.Background(), dir, DefaultOptions())
	if got.Bytes != 15 || got.Files != 2 || got.Folders != 2 {
		t.Errorf("got %+v, want 15 bytes, 2 files, 2 folders", got)
	}
}

func TestPathSkipsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced here")
	}
	dir := testutil.TempTree(t, map[string]string{
		"ok.txt":         "abc",
		"locked/secret":  "xxxxxxxx",
		"locked/secret2": "yy",
	})
	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := Path(context.Background(), dir, DefaultOptions())
	if got.Bytes != 3 {
		t.Errorf("Bytes = %d, want 3", got.Bytes)
	}
	if !got.Partial || got.Errors == 0 {
		t.Errorf("expected partial result, got %+v", got)
	}
}
