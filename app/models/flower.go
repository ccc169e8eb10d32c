package models

import "time"

// Flower is a catalog item. Length is in centimeters, price in currency
// units. Price >= 0 and length > 0 are enforced by the validation layer,
// not by the storage schema.
//
// No soft-delete column: catalog deletion is immediate and irreversible.
type Flower struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	ImageURL  string    `gorm:"size:255;not null" json:"image_url"`
	Length    float64   `gorm:"not null" json:"length"`
	Price     float64   `gorm:"not null" json:"price"`
}
