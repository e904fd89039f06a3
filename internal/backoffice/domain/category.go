package domain

import (
	"strings"
	"time"
)

// IconType tags how a category icon descriptor should be interpreted.
type IconType string

const (
	IconFontAwesome IconType = "fontawesome"
	IconImage       IconType = "image"
)

// Category groups products under a stable key. The key is immutable after
// creation and referenced by Product.Category.
type Category struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	IconType  IconType  `json:"icon_type,omitempty"`
	SortOrder *int      `json:"sort_order,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasImageIcon reports whether the icon descriptor points at an image.
// Older rows predate the icon_type column, so an http-prefixed icon is
// treated as an image as well.
func (c Category) HasImageIcon() bool {
	return c.IconType == IconImage || strings.HasPrefix(c.Icon, "http")
}

// Position resolves the display position of a category: its stored sort
// order, or its 1-based index in the currently loaded collection when unset.
func (c Category) Position(index int) int {
	if c.SortOrder != nil {
		return *c.SortOrder
	}
	return index + 1
}
