//go:build darwin || freebsd

package volume

import "golang.org/x/sys/unix"

// Space reports the capacity and the space available to the caller.
func Space(path string) (total, free uint64, ok bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, false
	}
	bs := uint64(st.Bsize)
	return uint64(st.Blocks) * bs, uint64(st.Bavail) * bs, true
}

// IsRemote reports whether path is on a network or removable volume.
func IsRemote(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false
	}
	return st.Flags&unix.MNT_LOCAL == 0
}
