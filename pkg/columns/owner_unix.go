//go:build !windows

package columns

import (
	"os/user"
	"strconv"
)

func ownerName(info ItemInfo) (string, bool) {
	if !info.HasOwner {
		return "", false
	}
	id := strconv.FormatUint(uint64(info.UID), 10)
	if u, err := user.LookupId(id); err == nil {
		return u.Username, true
	}
	return id, true
}

func groupName(info ItemInfo) (string, bool) {
	if !info.HasOwner {
		return "", false
	}
	id := strconv.FormatUint(uint64(info.GID), 10)
	if g, err := user.LookupGroupId(id); err == nil {
		return g.Name, true
	}
	return id, true
}
