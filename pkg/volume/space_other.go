//go:build !linux && !windows && !darwin && !freebsd

package volume

func Space(string) (total, free uint64, ok bool) { return 0, 0, false }

func IsRemote(string) bool { return false }
