package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Order is a purchase record. Orders are created once and never updated;
// deletion happens only through direct administrative action.
type Order struct {
	gorm.Model
	Recipient string      `gorm:"size:100;not null" json:"recipient"`
	Address   string      `gorm:"size:200;not null" json:"address"`
	Message   string      `gorm:"size:500" json:"message"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is one line of an order's flower selection. FlowerName is a
// snapshot taken at purchase time so order history survives catalog
// deletions; FlowerID keeps the reference while the catalog row exists.
type OrderItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OrderID    uint   `gorm:"not null;index" json:"order_id"`
	FlowerID   uint   `json:"flower_id"`
	FlowerName string `gorm:"size:100;not null" json:"flower_name"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	Position   int    `gorm:"not null" json:"position"`
}

// Selection renders the items as a single display string, e.g.
// "Rose (2 pcs), Lily (1 pcs)". Derived at render time; never persisted.
func (o Order) Selection() string {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		parts = append(parts, fmt.Sprintf("%s (%d pcs)", item.FlowerName, item.Quantity))
	}
	return strings.Join(parts, ", ")
}
