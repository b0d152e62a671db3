// internal/services/recommendation_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
)

// PremiumBrands are listed first among matching products.
var PremiumBrands = []string{"LiQui Moly", "Shell", "Castrol", "Motul", "ZIC", "Mobil"}

type RecommendationService struct {
	products repository.ProductRepository
	brands   []VehicleBrand
	index    map[string]map[string]string
}

type Recommendation struct {
	Brand     string           `json:"brand"`
	Model     string           `json:"model"`
	Viscosity string           `json:"viscosity,omitempty"`
	Products  []models.Product `json:"products"`
}

func NewRecommendationService(products repository.ProductRepository) *RecommendationService {
	return newRecommendationService(products, vehicleCatalog)
}

func newRecommendationService(products repository.ProductRepository, brands []VehicleBrand) *RecommendationService {
	index := make(map[string]map[string]string, len(brands))
	for _, brand := range brands {
		byModel := make(map[string]string, len(brand.Models))
		for _, model := range brand.Models {
			byModel[model.Name] = model.Viscosity
		}
		index[brand.Name] = byModel
	}

	return &RecommendationService{
		products: products,
		brands:   brands,
		index:    index,
	}
}

func (s *RecommendationService) Brands() []string {
	names := make([]string, 0, len(s.brands))
	for _, brand := range s.brands {
		names = append(names, brand.Name)
	}
	return names
}

// Models returns the models of a brand in display order, or nil for an
// unknown brand.
func (s *RecommendationService) Models(brand string) []VehicleModel {
	for _, b := range s.brands {
		if b.Name == brand {
			out := make([]VehicleModel, len(b.Models))
			copy(out, b.Models)
			return out
		}
	}
	return nil
}

// Viscosity looks up the grade for an exact (brand, model) pair.
func (s *RecommendationService) Viscosity(brand, model string) (string, bool) {
	grade, ok := s.index[brand][model]
	return grade, ok
}

// Recommend returns every catalog product whose name contains the required
// viscosity grade. Premium brands come first; catalog order is kept within
// each group. An unmapped pair yields an empty result.
func (s *RecommendationService) Recommend(ctx context.Context, brand, model string) (*Recommendation, error) {
	result := &Recommendation{
		Brand:    brand,
		Model:    model,
		Products: []models.Product{},
	}

	grade, ok := s.Viscosity(brand, model)
	if !ok {
		return result, nil
	}
	result.Viscosity = grade

	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result.Products = MatchProducts(catalog, grade)
	return result, nil
}

// MatchProducts filters by case-sensitive name containment and moves
// premium brands to the front without reordering either group.
func MatchProducts(catalog []models.Product, grade string) []models.Product {
	premium := []models.Product{}
	others := []models.Product{}
	for _, p := range catalog {
		if !strings.Contains(p.Name, grade) {
			continue
		}
		if isPremium(p.Name) {
			premium = append(premium, p)
		} else {
			others = append(others, p)
		}
	}
	return append(premium, others...)
}

func isPremium(name string) bool {
	for _, brand := range PremiumBrands {
		if strings.Contains(name, brand) {
			return true
		}
	}
	return false
}
