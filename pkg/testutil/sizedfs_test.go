package testutil

import (
	"io/fs"
	"testing"
)

func TestSizedFSWalk(t *testing.T) {
	fsys := SizedFS{
		"a.txt":       10,
		"sub/b.bin":   20,
		"sub/deep/c":  30,
		"empty/":      0,
		"sub/.hidden": 5,
	}

	var total int64
	dirs := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs++
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}
	if total != 65 {
		t.Errorf("total = %d, want 65", total)
	}
	// ".", "empty", "sub", "sub/deep"
	if dirs != 4 {
		t.Errorf("dirs = %d, want 4", dirs)
	}
}

func TestSizedFSMissing(t *testing.T) {
	fsys := SizedFS{"a": 1}
	if _, err := fsys.Stat("nope"); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := fsys.ReadDir("a"); err == nil {
		t.Error("ReadDir on a file should fail")
	}
}

func TestRandomTreeDeterministic(t *testing.T) {
	cfg := TreeConfig{Depth: 2, Breadth: 3, Files: 4, MaxBytes: 1000}
	a, totalA := RandomTree(cfg)
	b, totalB := RandomTree(cfg)
	if totalA != totalB || len(a) != len(b) {
		t.Fatalf("same seed produced different trees: %d/%d vs %d/%d", len(a), totalA, len(b), totalB)
	}
	// 1 + 3 + 9 directories with 4 files each.
	if len(a) != 13*4 {
		t.Errorf("len = %d, want %d", len(a), 13*4)
	}
}
