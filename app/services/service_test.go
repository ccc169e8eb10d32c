package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/pkg/database"
)

// setupDB points the global connection at a fresh in-memory database.
func setupDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Flower{}, &models.Order{}, &models.OrderItem{},
	))

	database.DB = db
	t.Cleanup(func() { database.DB = nil })
}

// seedCatalog installs the three starter flowers and returns them by name.
func seedCatalog(t *testing.T) map[string]models.Flower {
	t.Helper()

	catalog := []models.Flower{
		{Name: "Rose", ImageURL: "images/rose.jpg", Length: 51, Price: 150},
		{Name: "Tulip", ImageURL: "images/tulip.jpg", Length: 62, Price: 120},
		{Name: "Lily", ImageURL: "images/lily.jpg", Length: 56, Price: 180},
	}

	byName := make(map[string]models.Flower, len(catalog))
	for _, flower := range catalog {
		require.NoError(t, database.DB.Create(&flower).Error)
		byName[flower.Name] = flower
	}
	return byName
}

// registerUser creates an account through the real registration path.
func registerUser(t *testing.T, username, email string) models.User {
	t.Helper()

	user, err := services.NewAuthService().Register(services.RegisterInput{
		Username:             username,
		Email:                email,
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func orderCount(dest *int64) error {
	return database.DB.Model(&models.Order{}).Count(dest).Error
}

func names(flowers []models.Flower) []string {
	out := make([]string, len(flowers))
	for i, f := range flowers {
		out[i] = f.Name
	}
	return out
}
