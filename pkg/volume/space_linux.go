package volume

import "golang.org/x/sys/unix"

// Filesystem magic numbers for network mounts, from statfs(2).
var remoteMagic = map[uint32]bool{
	0x6969:     true, // NFS
	0x517b:     true, // SMB
	0xff534d42: true, // CIFS
	0xfe534d42: true, // SMB2
	0x564c:     true, // NCP
	0x65735546: true, // FUSE (sshfs and friends)
	0x01021997: true, // 9P
	0x73757245: true, // Coda
	0x5346414f: true, // AFS
}

// Space reports the capacity and the space available to the caller.
func Space(path string) (total, free uint64, ok bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, false
	}
	bs := uint64(st.Bsize)
	return st.Blocks * bs, st.Bavail * bs, true
}

// IsRemote reports whether path is on a network or removable volume.
func IsRemote(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false
	}
	return remoteMagic[uint32(st.Type)]
}
