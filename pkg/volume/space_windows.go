package volume

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// Space reports the capacity and the space available to the caller.
func Space(path string) (total, free uint64, ok bool) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, 0, false
	}
	var avail, totalBytes, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &avail, &totalBytes, &totalFree); err != nil {
		return 0, 0, false
	}
	return totalBytes, avail, true
}

// IsRemote reports whether path is on a network or removable volume.
func IsRemote(path string) bool {
	root := filepath.VolumeName(path) + `\`
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return false
	}
	switch windows.GetDriveType(p) {
	case windows.DRIVE_REMOTE, windows.DRIVE_REMOVABLE:
		return true
	}
	return false
}
