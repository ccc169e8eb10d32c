package seeders

import (
	"gorm.io/gorm"

	"github.com/bloomcart/bloomcart/app/models"
)

func init() {
	Register("flowers", SeedFlowers)
}

// SeedFlowers installs the starter catalog. Each flower is keyed by name
// with FirstOrCreate, so re-running fills gaps without duplicating rows
// or overwriting admin edits.
func SeedFlowers(db *gorm.DB) error {
	catalog := []models.Flower{
		{Name: "Rose", ImageURL: "images/rose.jpg", Length: 51, Price: 150},
		{Name: "Tulip", ImageURL: "images/tulip.jpg", Length: 62, Price: 120},
		{Name: "Lily", ImageURL: "images/lily.jpg", Length: 56, Price: 180},
	}

	for _, flower := range catalog {
		if err := db.Where("name = ?", flower.Name).FirstOrCreate(&flower).Error; err != nil {
			return err
		}
	}
	return nil
}
