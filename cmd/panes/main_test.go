package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/panes/pkg/config"
	"github.com/vanderheijden86/panes/pkg/foldersize"
	"github.com/vanderheijden86/panes/pkg/testutil"
	"github.com/vanderheijden86/panes/pkg/version"
)

func fixture(t *testing.T) string {
	t.Helper()
	return testutil.TempTree(t, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "0123456789",
	})
}

// run executes the root command with a config path that does not exist, so
// every test starts from the defaults.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLsTable(t *testing.T) {
	dir := fixture(t)
	out, err := run(t, "ls", "--columns", "size", dir)
	if err != nil {
		t.Fatalf("ls: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Name") || !strings.HasSuffix(lines[0], "Size") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "sub") {
		t.Errorf("folders should sort first, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "a.txt") || !strings.HasSuffix(lines[2], "5 bytes") {
		t.Errorf("file row = %q", lines[2])
	}
}

func TestLsJSON(t *testing.T) {
	dir := fixture(t)
	out, err := run(t, "ls", "--json", "--columns", "size,extension", dir)
	if err != nil {
		t.Fatalf("ls: %v\n%s", err, out)
	}
	var entries []lsEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "sub" || !entries[0].Dir {
		t.Errorf("first entry = %+v, want folder sub", entries[0])
	}
	testutil.AssertJSONEqual(t, lsEntry{
		Name: "a.txt",
		Path: filepath.Join(dir, "a.txt"),
		Columns: map[string]string{
			"name":      "a.txt",
			"size":      "5 bytes",
			"extension": "txt",
		},
	}, entries[1])
}

func TestLsHidden(t *testing.T) {
	dir := testutil.TempTree(t, map[string]string{
		"visible":  "x",
		".private": "y",
	})

	out, err := run(t, "ls", "--json", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, ".private") {
		t.Errorf("hidden file listed without --all:\n%s", out)
	}

	out, err = run(t, "ls", "--json", "--all", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ".private") {
		t.Errorf("hidden file missing with --all:\n%s", out)
	}
}

func TestLsUnknownColumn(t *testing.T) {
	_, err := run(t, "ls", "--columns", "bogus", fixture(t))
	if err == nil || !strings.Contains(err.Error(), "unknown column") {
		t.Fatalf("err = %v, want unknown column", err)
	}
}

func TestLsMissingDir(t *testing.T) {
	_, err := run(t, "ls", filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestDu(t *testing.T) {
	dir := fixture(t)
	out, err := run(t, "du", dir)
	if err != nil {
		t.Fatalf("du: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "Total size: 15 bytes\n") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "2 files") {
		t.Errorf("missing file count:\n%s", out)
	}
}

func TestDuJSON(t *testing.T) {
	dir := fixture(t)
	out, err := run(t, "du", "--json", dir)
	if err != nil {
		t.Fatalf("du: %v\n%s", err, out)
	}
	var r duReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := duReport{
		Path:   r.Path,
		Total:  "15 bytes",
		Result: foldersize.Result{Bytes: 15, Files: 2, Folders: 1},
		Volume: r.Volume,
	}
	testutil.AssertJSONEqual(t, want, r)
	if abs, _ := filepath.Abs(dir); r.Path != abs {
		t.Errorf("path = %q, want %q", r.Path, abs)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("folders:\n  size_unit: furlongs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "ls", fixture(t)})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("err = %v, want invalid config", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("version output %q lacks %s", out, version.Version)
	}
}

func TestInitDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.yaml")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "--workers", "3", "init", "--defaults"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init: %v\n%s", err, out.String())
	}

	got, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Workers != 3 {
		t.Errorf("workers = %d, want 3", got.Workers)
	}

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "init", "--defaults"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second init err = %v, want already exists", err)
	}
}

func TestKeysMarkdown(t *testing.T) {
	out, err := run(t, "keys", "--markdown")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# panes keys") {
		t.Errorf("output = %q", out)
	}
}
