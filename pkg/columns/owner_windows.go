package columns

import "golang.org/x/sys/windows"

func lookupSID(sid *windows.SID) (string, bool) {
	account, domain, _, err := sid.LookupAccount("")
	if err != nil {
		return sid.String(), true
	}
	if domain != "" {
		return domain + `\` + account, true
	}
	return account, true
}

func ownerName(info ItemInfo) (string, bool) {
	sd, err := windows.GetNamedSecurityInfo(info.Path, windows.SE_FILE_OBJECT, windows.OWNER_SECURITY_INFORMATION)
	if err != nil {
		return "", false
	}
	sid, _, err := sd.Owner()
	if err != nil || sid == nil {
		return "", false
	}
	return lookupSID(sid)
}

func groupName(info ItemInfo) (string, bool) {
	sd, err := windows.GetNamedSecurityInfo(info.Path, windows.SE_FILE_OBJECT, windows.GROUP_SECURITY_INFORMATION)
	if err != nil {
		return "", false
	}
	sid, _, err := sd.Group()
	if err != nil || sid == nil {
		return "", false
	}
	return lookupSID(sid)
}
