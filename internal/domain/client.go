package domain

import (
	"time"
)

// Client represents one client profile managed by the trainer.
// The whole collection is serialized as a JSON array into a single
// persistence slot, so field tags match the stored document exactly.
type Client struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Goal      string     `json:"goal"`
	StartDate string     `json:"startDate"` // calendar date, no time component
	History   string     `json:"history,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"` // nil until the first edit
}
