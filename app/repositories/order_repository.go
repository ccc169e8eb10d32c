package repositories

import (
	"gorm.io/gorm"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/pkg/orm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists an order together with its items in one transaction.
// GORM inserts the association rows alongside the parent, so the write
// is atomic: either the whole order lands or nothing does.
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.Transaction(func(tx *orm.Query) error {
		return tx.Create(order)
	})
}

// FindByID loads an order with its items.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).Preload("Items", itemOrder).Where("id = ?", id).First(&order)
	return order, err
}

// ByOwner returns a user's orders in creation order, items included.
func (r *OrderRepository) ByOwner(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items", itemOrder).
		Where("user_id = ?", userID).
		Order("id").
		Get(&orders)
	return orders, err
}

// All returns every order in the store, items included. Privileged:
// only the admin data API calls this.
func (r *OrderRepository) All() ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).Preload("Items", itemOrder).Order("id").Get(&orders)
	return orders, err
}

// itemOrder keeps preloaded items in their original selection order.
func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
