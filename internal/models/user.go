// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// User is a registered reader who receives publish notifications.
// There are no credentials here; registration is handled out of band.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
