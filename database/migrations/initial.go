package migrations

import (
	"gorm.io/gorm"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/pkg/migration"
)

func init() {
	migration.Register("20260801000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260801000001_create_flowers_table", &CreateFlowersTable{})
	migration.Register("20260801000002_create_orders_tables", &CreateOrdersTables{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: flowers --------

type CreateFlowersTable struct{}

func (m *CreateFlowersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Flower{})
}

func (m *CreateFlowersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("flowers")
}

// -------- 0003: orders + order_items --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}
