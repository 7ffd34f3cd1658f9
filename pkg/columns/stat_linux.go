package columns

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func fillPlatform(info *ItemInfo, fi fs.FileInfo) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, info.Path, unix.AT_SYMLINK_NOFOLLOW,
		unix.STATX_BASIC_STATS|unix.STATX_BTIME, &stx)
	if err == nil {
		info.Links = uint64(stx.Nlink)
		info.UID = stx.Uid
		info.GID = stx.Gid
		info.HasOwner = true
		info.AllocatedBytes = int64(stx.Blocks) * 512
		info.AccessTime = time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec))
		if stx.Mask&unix.STATX_BTIME != 0 {
			info.CreateTime = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
		return
	}

	// Kernels without statx still give us the classic stat data.
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	info.Links = uint64(st.Nlink)
	info.UID = st.Uid
	info.GID = st.Gid
	info.HasOwner = true
	info.AllocatedBytes = int64(st.Blocks) * 512
	info.AccessTime = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
}
