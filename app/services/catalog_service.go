package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/repositories"
	"github.com/bloomcart/bloomcart/pkg/metrics"
)

// CatalogQuery holds the raw filter parameters from the request.
// Empty strings impose no constraint.
type CatalogQuery struct {
	Search string // case-insensitive substring on name
	Length string // "min-max", inclusive
	Price  string // "min-max", inclusive
}

// CatalogService is the read-only catalog query engine.
type CatalogService struct {
	flowers *repositories.FlowerRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{flowers: repositories.NewFlowerRepository()}
}

// ParseRange parses a "min-max" range spec into an inclusive interval.
// An empty spec yields nil (no constraint). Malformed input is a caller
// error, surfaced as a ValidationError, never silently ignored.
func ParseRange(field, spec string) (*repositories.Range, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	lo, hi, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, FieldError(field, fmt.Sprintf("The %s filter must look like min-max.", field))
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return nil, FieldError(field, fmt.Sprintf("The %s filter must look like min-max.", field))
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return nil, FieldError(field, fmt.Sprintf("The %s filter must look like min-max.", field))
	}
	if min > max {
		return nil, FieldError(field, fmt.Sprintf("The %s filter minimum exceeds its maximum.", field))
	}

	return &repositories.Range{Min: min, Max: max}, nil
}

// Search returns the set of flowers satisfying every supplied filter.
// Filters are ANDed; ranges are inclusive on both ends. No side effects.
func (s *CatalogService) Search(q CatalogQuery) ([]models.Flower, error) {
	filter := repositories.CatalogFilter{Name: strings.TrimSpace(q.Search)}

	lengthRange, err := ParseRange("length", q.Length)
	if err != nil {
		return nil, err
	}
	priceRange, err := ParseRange("price", q.Price)
	if err != nil {
		return nil, err
	}
	filter.Length = lengthRange
	filter.Price = priceRange

	filtered := filter.Name != "" || filter.Length != nil || filter.Price != nil
	metrics.CatalogSearches.WithLabelValues(strconv.FormatBool(filtered)).Inc()

	return s.flowers.Search(filter)
}
