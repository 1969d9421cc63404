package model

import "time"

// Class is a user-defined course grouping assignments. The Slug is the
// URL-safe identifier external callers use to look a class up.
type Class struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Emoji     string    `json:"emoji" db:"emoji"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewClass carries the caller-supplied fields for creating a class.
// Name and Slug must be unique across all classes.
type NewClass struct {
	Name  string `json:"name" validate:"required"`
	Emoji string `json:"emoji" validate:"required"`
	Slug  string `json:"slug" validate:"required,slug,max=100"`
}
