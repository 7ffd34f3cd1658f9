// Package volume answers questions about the filesystem volume that holds a
// path: its capacity and whether it lives on a network or removable drive.
package volume

// Info describes a volume.
type Info struct {
	Total  uint64 `json:"total"`
	Free   uint64 `json:"free"`
	Remote bool   `json:"remote"`
}

// Stat collects everything known about the volume holding path.
func Stat(path string) (Info, bool) {
	total, free, ok := Space(path)
	if !ok {
		return Info{}, false
	}
	return Info{Total: total, Free: free, Remote: IsRemote(path)}, true
}
