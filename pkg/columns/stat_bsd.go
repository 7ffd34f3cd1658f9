//go:build darwin || freebsd

package columns

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

func fillPlatform(info *ItemInfo, _ fs.FileInfo) {
	var st unix.Stat_t
	if err := unix.Lstat(info.Path, &st); err != nil {
		return
	}
	info.Links = uint64(st.Nlink)
	info.UID = st.Uid
	info.GID = st.Gid
	info.HasOwner = true
	info.AllocatedBytes = int64(st.Blocks) * 512
	info.AccessTime = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	info.CreateTime = time.Unix(int64(st.Btim.Sec), int64(st.Btim.Nsec))
}
