package testutil

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// SizedFS is a read-only fs.FS whose files have declared sizes but no
// content. Keys are slash-separated file paths; parent directories are
// implied. A key ending in "/" declares an empty directory.
//
// It lets folder-size tests describe trees of many gigabytes without
// allocating them.
type SizedFS map[string]int64

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type sizedInfo struct {
	name string
	size int64
	dir  bool
}

func (i sizedInfo) Name() string { return i.name }
func (i sizedInfo) Size() int64  { return i.size }
func (i sizedInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i sizedInfo) ModTime() time.Time { return fixedTime }
func (i sizedInfo) IsDir() bool        { return i.dir }
func (i sizedInfo) Sys() any           { return nil }

func (s SizedFS) lookup(name string) (sizedInfo, bool) {
	if name == "." {
		return sizedInfo{name: ".", dir: true}, true
	}
	if size, ok := s[name]; ok {
		return sizedInfo{name: path.Base(name), size: size}, true
	}
	prefix := name + "/"
	for k := range s {
		if strings.HasPrefix(k, prefix) {
			return sizedInfo{name: path.Base(name), dir: true}, true
		}
	}
	return sizedInfo{}, false
}

// Stat implements fs.StatFS.
func (s SizedFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	info, ok := s.lookup(name)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return info, nil
}

// ReadDir implements fs.ReadDirFS.
func (s SizedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	info, err := s.Stat(name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	prefix := ""
	if name != "." {
		prefix = name + "/"
	}
	seen := map[string]sizedInfo{}
	for k, size := range s {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if rest == "" {
			continue
		}
		child, _, nested := strings.Cut(rest, "/")
		if nested {
			seen[child] = sizedInfo{name: child, dir: true}
		} else if _, exists := seen[child]; !exists {
			seen[child] = sizedInfo{name: child, size: size}
		}
	}

	entries := make([]fs.DirEntry, 0, len(seen))
	for _, info := range seen {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Open implements fs.FS.
func (s SizedFS) Open(name string) (fs.File, error) {
	info, err := s.Stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &sizedFile{fsys: s, path: name, info: info.(sizedInfo)}, nil
}

type sizedFile struct {
	fsys    SizedFS
	path    string
	info    sizedInfo
	entries []fs.DirEntry
	read    bool
}

func (f *sizedFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *sizedFile) Read([]byte) (int, error)   { return 0, io.EOF }
func (f *sizedFile) Close() error               { return nil }

func (f *sizedFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if !f.info.dir {
		return nil, &fs.PathError{Op: "readdir", Path: f.path, Err: fs.ErrInvalid}
	}
	if !f.read {
		entries, err := f.fsys.ReadDir(f.path)
		if err != nil {
			return nil, err
		}
		f.entries = entries
		f.read = true
	}
	if n <= 0 {
		out := f.entries
		f.entries = nil
		return out, nil
	}
	if len(f.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(f.entries) {
		n = len(f.entries)
	}
	out := f.entries[:n]
	f.entries = f.entries[n:]
	return out, nil
}
