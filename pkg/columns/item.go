package columns

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Attribute bits, using the Windows file attribute values so a snapshot
// taken on Windows can be copied straight from the find data.
const (
	AttrReadOnly   uint32 = 0x1
	AttrHidden     uint32 = 0x2
	AttrSystem     uint32 = 0x4
	AttrDirectory  uint32 = 0x10
	AttrArchive    uint32 = 0x20
	AttrCompressed uint32 = 0x800
	AttrEncrypted  uint32 = 0x4000
)

// ItemInfo is the immutable snapshot of one listed item. It is captured on
// the UI goroutine and handed by value to workers.
type ItemInfo struct {
	Name       string
	Path       string
	Size       int64
	Mode       fs.FileMode
	ModTime    time.Time
	AccessTime time.Time
	CreateTime time.Time
	Attributes uint32
	// Links is the hard link count; zero when unknown.
	Links uint64
	UID   uint32
	GID   uint32
	// HasOwner is false where UID and GID are not meaningful.
	HasOwner bool
	// AllocatedBytes is the space used on disk; negative when unknown.
	AllocatedBytes int64
	LinkTarget     string
}

// IsDir reports whether the item is a directory.
func (i ItemInfo) IsDir() bool {
	return i.Mode.IsDir()
}

// Hidden reports whether the item is hidden.
func (i ItemInfo) Hidden() bool {
	return i.Attributes&AttrHidden != 0
}

// Describe snapshots the item at path without following symlinks.
func Describe(path string) (ItemInfo, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return ItemInfo{}, err
	}
	return FromFileInfo(path, fi), nil
}

// FromFileInfo builds a snapshot from an existing FileInfo, filling in the
// platform specific fields from the underlying stat data.
func FromFileInfo(path string, fi fs.FileInfo) ItemInfo {
	info := ItemInfo{
		Name:           fi.Name(),
		Path:           path,
		Size:           fi.Size(),
		Mode:           fi.Mode(),
		ModTime:        fi.ModTime(),
		AllocatedBytes: -1,
	}
	if fi.IsDir() {
		info.Attributes |= AttrDirectory
	}
	if strings.HasPrefix(info.Name, ".") {
		info.Attributes |= AttrHidden
	}
	if fi.Mode().Perm()&0o222 == 0 {
		info.Attributes |= AttrReadOnly
	}
	if fi.Mode()&(fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket|fs.ModeCharDevice) != 0 {
		info.Attributes |= AttrSystem
	}
	if fi.Mode()&fs.ModeSymlink != 0 {
		if target, err := os.Readlink(path); err == nil {
			info.LinkTarget = target
		}
	}
	fillPlatform(&info, fi)
	return info
}

// Extension returns the item's extension without the dot; empty for
// folders and names without one.
func (i ItemInfo) Extension() string {
	if i.IsDir() {
		return ""
	}
	ext := filepath.Ext(i.Name)
	if len(ext) <= 1 || ext == i.Name {
		return ""
	}
	return ext[1:]
}
