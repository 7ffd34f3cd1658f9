// Package testutil provides filesystem fixtures and assertion helpers shared
// by the panes test suites.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MakeTree creates files under root. Keys are slash-separated relative
// paths; a key ending in "/" creates an empty directory. Values are file
// contents.
func MakeTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", full, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}

// TempTree creates a fresh temp directory populated by MakeTree.
func TempTree(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	MakeTree(t, dir, files)
	return dir
}

// TreeConfig controls RandomTree generation.
type TreeConfig struct {
	Seed     int64 // Random seed for determinism (0 = 42)
	Depth    int   // Maximum directory depth
	Breadth  int   // Subdirectories per directory
	Files    int   // Files per directory
	MaxBytes int64 // Upper bound on each file's declared size
}

// RandomTree builds a deterministic SizedFS and returns it together with
// the sum of all declared sizes.
func RandomTree(cfg TreeConfig) (SizedFS, uint64) {
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1 << 20
	}
	rng := rand.New(rand.NewSource(seed))

	fsys := SizedFS{}
	var total uint64
	var build func(prefix string, depth int)
	build = func(prefix string, depth int) {
		for i := 0; i < cfg.Files; i++ {
			size := rng.Int63n(cfg.MaxBytes)
			fsys[fmt.Sprintf("%sfile%d.bin", prefix, i)] = size
			total += uint64(size)
		}
		if depth >= cfg.Depth {
			if cfg.Files == 0 {
				fsys[prefix] = 0
			}
			return
		}
		for i := 0; i < cfg.Breadth; i++ {
			build(fmt.Sprintf("%sdir%d/", prefix, i), depth+1)
		}
	}
	build("", 0)
	delete(fsys, "")
	return fsys, total
}
