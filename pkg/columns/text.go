package columns

import (
	"context"
	"strconv"
	"strings"

	"github.com/vanderheijden86/panes/pkg/foldersize"
	"github.com/vanderheijden86/panes/pkg/metrics"
	"github.com/vanderheijden86/panes/pkg/volume"
)

// Placeholder is shown for any value that cannot be computed: an item of
// the wrong kind, a vanished file, missing permissions.
const Placeholder = ""

// Text computes the display text for column t of one item. It may touch
// the filesystem and can be slow; call it from a worker. Cancelling ctx
// cuts a folder size walk short.
func Text(ctx context.Context, t Type, info ItemInfo, s Settings) string {
	defer metrics.Timer(metrics.ColumnCompute)()

	switch t {
	case Name:
		return info.Name
	case TypeName:
		return typeDescription(info)
	case Size:
		return sizeText(ctx, info, s)
	case DateModified:
		return FormatTime(info.ModTime, s.FriendlyDates, s.CurrentTime())
	case DateCreated:
		return FormatTime(info.CreateTime, s.FriendlyDates, s.CurrentTime())
	case DateAccessed:
		return FormatTime(info.AccessTime, s.FriendlyDates, s.CurrentTime())
	case Attributes:
		return AttributeString(info.Attributes)
	case RealSize:
		if info.IsDir() || info.AllocatedBytes < 0 {
			return Placeholder
		}
		return FormatSize(uint64(info.AllocatedBytes), s.ForceSize, s.SizeUnit)
	case Owner:
		if name, ok := ownerName(info); ok {
			return name
		}
	case Group:
		if name, ok := groupName(info); ok {
			return name
		}
	case HardLinks:
		if info.Links > 0 {
			return strconv.FormatUint(info.Links, 10)
		}
	case Extension:
		return info.Extension()
	case ShortcutTo:
		return info.LinkTarget
	case ImageWidth, ImageHeight:
		if info.IsDir() {
			return Placeholder
		}
		w, h, ok := ImageSize(info.Path)
		if !ok {
			return Placeholder
		}
		if t == ImageWidth {
			return strconv.Itoa(w)
		}
		return strconv.Itoa(h)
	case TotalSize, FreeSpace:
		total, free, ok := volume.Space(info.Path)
		if !ok {
			return Placeholder
		}
		if t == TotalSize {
			return FormatSize(total, s.ForceSize, s.SizeUnit)
		}
		return FormatSize(free, s.ForceSize, s.SizeUnit)
	}
	return Placeholder
}

func sizeText(ctx context.Context, info ItemInfo, s Settings) string {
	if !info.IsDir() {
		if info.Size < 0 {
			return Placeholder
		}
		return FormatSize(uint64(info.Size), s.ForceSize, s.SizeUnit)
	}
	if !s.ShowFolderSizes {
		return Placeholder
	}
	if s.DisableFolderSizesNetworkRemovable && volume.IsRemote(info.Path) {
		return Placeholder
	}
	res := foldersize.Path(ctx, info.Path, foldersize.DefaultOptions())
	return FormatSize(res.Bytes, s.ForceSize, s.SizeUnit)
}

// AttributeString renders attribute bits as the fixed-width "AHRSDCE"
// string, with '-' for each attribute that is not set.
func AttributeString(attrs uint32) string {
	flags := []struct {
		bit uint32
		ch  byte
	}{
		{AttrArchive, 'A'},
		{AttrHidden, 'H'},
		{AttrReadOnly, 'R'},
		{AttrSystem, 'S'},
		{AttrDirectory, 'D'},
		{AttrCompressed, 'C'},
		{AttrEncrypted, 'E'},
	}
	var b strings.Builder
	b.Grow(len(flags))
	for _, f := range flags {
		if attrs&f.bit != 0 {
			b.WriteByte(f.ch)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
