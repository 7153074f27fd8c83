package model

import "time"

// Item represents a stocked item type and how many units are on hand.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Amount      int       `json:"amount"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item defaults.
const (
	ItemStatusAvailable = "available"
	DefaultItemAmount   = 1
)

// Photo is an item photo as stored: always JPEG.
type Photo struct {
	ItemID int64
	Data   []byte
	MIME   string
	Width  int
	Height int
}
