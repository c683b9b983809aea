package models

import "time"

// Item is a single product shown on the listing page. Price is in whole dollars.
type Item struct {
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
	IsSoldOut bool      `json:"is_sold_out"`
}

// Collection is a named, ordered group of items ("Top Sales", "New Items").
type Collection struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}
