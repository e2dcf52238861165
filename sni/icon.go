package sni

import "fmt"

// Icon is one raster rendition of an item's icon.
//
// Pixels are encoded as ARGB32 in network byte order, as the items put them
// on the wire.
type Icon struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// NewIconFromDBusPixmap returns a new [Icon] from a D-Bus pixmap.
//
// Format of pixmap is as follows
//
//	[<width>, <height>, <bytes>]
//
// Where:
//   - <width>: width of the icon (int32)
//   - <height>: height of the icon (int32)
//   - <bytes>: content of the icon ([]byte)
func NewIconFromDBusPixmap(pixmap any) (*Icon, error) {
	data, ok := pixmap.([]any)
	if !ok || len(data) != 3 {
		return nil, fmt.Errorf("pixmap: expected a slice of 3 elements")
	}

	width, ok := data[0].(int32)
	if !ok {
		return nil, fmt.Errorf("pixmap: expected int32 width")
	}

	height, ok := data[1].(int32)
	if !ok {
		return nil, fmt.Errorf("pixmap: expected int32 height")
	}

	bytes, ok := data[2].([]byte)
	if !ok {
		return nil, fmt.Errorf("pixmap: expected []byte content")
	}

	return &Icon{
		Width:  width,
		Height: height,
		Bytes:  bytes,
	}, nil
}

// RGBA returns a copy of the pixel data converted from the wire's ARGB32
// layout to RGBA, which GTK and most other toolkits consume.
func (i *Icon) RGBA() []byte {
	converted := make([]byte, len(i.Bytes))

	for offset := 0; offset+4 <= len(i.Bytes); offset += 4 {
		alpha := i.Bytes[offset]
		copy(converted[offset:], i.Bytes[offset+1:offset+4])
		converted[offset+3] = alpha
	}

	return converted
}

// BestIcon returns the rendition closest to size, preferring the smallest one
// that still covers it. It returns nil when icons is empty.
func BestIcon(icons []*Icon, size int32) *Icon {
	var best *Icon

	for _, icon := range icons {
		if best == nil {
			best = icon
			continue
		}

		switch {
		case covers(icon, size) && covers(best, size):
			if icon.Width < best.Width {
				best = icon
			}
		case covers(icon, size):
			best = icon
		case !covers(best, size) && icon.Width > best.Width:
			best = icon
		}
	}

	return best
}

func covers(icon *Icon, size int32) bool {
	return icon.Width >= size && icon.Height >= size
}

// newIcons parses the value of a pixmap property, which carries renditions of
// the same icon in one or more sizes.
func newIcons(value any) ([]*Icon, error) {
	pixmaps, ok := value.([][]any)
	if !ok {
		return nil, fmt.Errorf("pixmaps: invalid format")
	}

	icons := make([]*Icon, 0, len(pixmaps))
	for _, pixmap := range pixmaps {
		icon, err := NewIconFromDBusPixmap(pixmap)
		if err != nil {
			return nil, err
		}

		icons = append(icons, icon)
	}

	return icons, nil
}

// IconPixmaps returns the raster renditions of the item's icon.
// Visualizations should prefer [Item.IconName] when it is set.
func (item *Item) IconPixmaps() ([]*Icon, error) {
	return item.pixmapProperty("IconPixmap")
}

// OverlayIconPixmaps returns the raster renditions of the icon that the
// visualization can overlay on top of the main one.
func (item *Item) OverlayIconPixmaps() ([]*Icon, error) {
	return item.pixmapProperty("OverlayIconPixmap")
}

// AttentionIconPixmaps returns the raster renditions of the icon that marks
// the item as needing attention.
func (item *Item) AttentionIconPixmaps() ([]*Icon, error) {
	return item.pixmapProperty("AttentionIconPixmap")
}

// pixmapProperty retrieves a pixmap property of the item.
func (item *Item) pixmapProperty(name string) ([]*Icon, error) {
	property, err := item.object.GetProperty(ItemInterface + "." + name)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", name, err)
	}

	icons, err := newIcons(property.Value())
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", name, err)
	}

	return icons, nil
}
