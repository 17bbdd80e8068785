package model

import "time"

// DefaultCategoryColor is used when a category has no color of its own.
const DefaultCategoryColor = "#95A5A6"

// Category represents an expense category.
type Category struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Name      string
	Icon      string
	Color     string
	IsDefault bool
}

// DisplayColor returns the category color, falling back to the neutral
// default when none is set.
func (c *Category) DisplayColor() string {
	if c.Color == "" {
		return DefaultCategoryColor
	}
	return c.Color
}

// CategoryPatch describes a partial category update. Nil fields are
// left unchanged.
type CategoryPatch struct {
	Name      *string
	Icon      *string
	Color     *string
	IsDefault *bool
}
