package repositories

import (
	"strings"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/pkg/orm"
)

// Range is an inclusive numeric interval used by catalog filters.
type Range struct {
	Min float64
	Max float64
}

// CatalogFilter narrows a catalog query. Zero-value fields impose no
// constraint; set fields are ANDed together.
type CatalogFilter struct {
	Name   string
	Length *Range
	Price  *Range
}

// FlowerRepository handles database operations for Flower.
type FlowerRepository struct{}

func NewFlowerRepository() *FlowerRepository {
	return &FlowerRepository{}
}

// Search returns the flowers satisfying every supplied filter, in stable
// storage order. Read-only.
func (r *FlowerRepository) Search(filter CatalogFilter) ([]models.Flower, error) {
	q := orm.DB().Model(&models.Flower{})

	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Length != nil {
		q = q.Where("length BETWEEN ? AND ?", filter.Length.Min, filter.Length.Max)
	}
	if filter.Price != nil {
		q = q.Where("price BETWEEN ? AND ?", filter.Price.Min, filter.Price.Max)
	}

	var flowers []models.Flower
	err := q.Order("id").Get(&flowers)
	return flowers, err
}

// All returns the full catalog in storage order.
func (r *FlowerRepository) All() ([]models.Flower, error) {
	return r.Search(CatalogFilter{})
}

// FindByID looks up a flower by primary key.
func (r *FlowerRepository) FindByID(id uint) (models.Flower, error) {
	var flower models.Flower
	err := orm.DB().Model(&models.Flower{}).Where("id = ?", id).First(&flower)
	return flower, err
}

// Count returns the number of catalog rows.
func (r *FlowerRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Flower{}).Count(&n)
	return n, err
}

// Create persists a new flower.
func (r *FlowerRepository) Create(flower *models.Flower) error {
	return orm.DB().Create(flower)
}

// Update applies a partial update to an existing flower.
func (r *FlowerRepository) Update(flower *models.Flower, changes map[string]interface{}) error {
	return orm.DB().Model(flower).Updates(changes)
}

// Delete removes a flower by id. Returns true when a row was deleted;
// unknown ids report false without an error. Deletion is immediate and
// irreversible.
func (r *FlowerRepository) Delete(id uint) (bool, error) {
	affected, err := orm.DB().Where("id = ?", id).Delete(&models.Flower{})
	return affected > 0, err
}
