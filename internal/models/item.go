// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// Item is a single recipe or article. ImageKey points at the uploaded
// original in the storage backend, ThumbKey at the derived thumbnail.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Summary     string    `json:"summary"`
	ImageKey    string    `json:"image_key"`
	ThumbKey    string    `json:"thumb_key"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	Slug        string    `json:"slug"`
	CategoryID  int64     `json:"category_id"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// String returns the display name.
func (i *Item) String() string {
	return i.Name
}

// GoString returns a debug representation with the identifying fields.
func (i *Item) GoString() string {
	return fmt.Sprintf("Item(id=%d, name=%q, slug=%q, views=%d)", i.ID, i.Name, i.Slug, i.Views)
}
