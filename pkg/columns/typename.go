package columns

import (
	"mime"
	"strings"
)

var knownTypes = map[string]string{
	"txt":  "Text Document",
	"md":   "Markdown Document",
	"log":  "Log File",
	"pdf":  "PDF Document",
	"zip":  "Compressed (zipped) Folder",
	"gz":   "GZip Archive",
	"tar":  "Tape Archive",
	"exe":  "Application",
	"go":   "Go Source File",
	"c":    "C Source File",
	"h":    "C Header File",
	"json": "JSON File",
	"yaml": "YAML File",
	"yml":  "YAML File",
	"html": "HTML Document",
	"lnk":  "Shortcut",
}

// typeDescription returns the Type column text for an item.
func typeDescription(info ItemInfo) string {
	switch {
	case info.IsDir():
		return "File folder"
	case info.LinkTarget != "":
		return "Shortcut"
	}
	ext := strings.ToLower(info.Extension())
	if ext == "" {
		return "File"
	}
	if d, ok := knownTypes[ext]; ok {
		return d
	}
	upper := strings.ToUpper(ext)
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		switch major, _, _ := strings.Cut(mt, "/"); major {
		case "image":
			return upper + " Image"
		case "audio":
			return upper + " Audio"
		case "video":
			return upper + " Video"
		}
	}
	return upper + " File"
}
