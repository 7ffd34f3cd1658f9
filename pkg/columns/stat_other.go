//go:build !linux && !windows && !darwin && !freebsd

package columns

import "io/fs"

func fillPlatform(*ItemInfo, fs.FileInfo) {}
