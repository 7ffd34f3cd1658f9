package columns

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

func fillPlatform(info *ItemInfo, fi fs.FileInfo) {
	if d, ok := fi.Sys().(*syscall.Win32FileAttributeData); ok {
		// Windows attributes replace the POSIX-derived guesses.
		info.Attributes = d.FileAttributes
		info.CreateTime = time.Unix(0, d.CreationTime.Nanoseconds())
		info.AccessTime = time.Unix(0, d.LastAccessTime.Nanoseconds())
	}

	p, err := windows.UTF16PtrFromString(info.Path)
	if err != nil {
		return
	}
	h, err := windows.CreateFile(p, 0, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS|windows.FILE_FLAG_OPEN_REPARSE_POINT, 0)
	if err != nil {
		return
	}
	defer windows.CloseHandle(h)

	var data windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(h, &data); err == nil {
		info.Links = uint64(data.NumberOfLinks)
	}
}
