// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// FallbackCategoryID is the seeded category that adopts items whose own
// category is deleted. The schema enforces this with ON DELETE SET DEFAULT.
const FallbackCategoryID int64 = 1

// Category groups items on the public site. Every item belongs to
// exactly one category.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	ImageKey  string    `json:"image_key"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual field populated by store list methods.
	ItemCount int64 `json:"item_count"`
}

// String returns the display name.
func (c *Category) String() string {
	return c.Name
}

// GoString returns a debug representation with the identifying fields.
func (c *Category) GoString() string {
	return fmt.Sprintf("Category(id=%d, name=%q, slug=%q)", c.ID, c.Name, c.Slug)
}
