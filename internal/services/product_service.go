// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

var (
	ErrVariantMismatch  = errors.New("variants, prices and stock must have the same length")
	ErrDuplicateVariant = errors.New("duplicate variant label")
)

type ProductService struct {
	products repository.ProductRepository
	notifier Notifier
	now      func() time.Time
}

type CreateProductRequest struct {
	ID          string              `json:"id,omitempty" validate:"omitempty,max=64"`
	Name        string              `json:"name" validate:"required,min=2,max=255"`
	Category    models.Category     `json:"category" validate:"required,category"`
	Variants    []string            `json:"liters" validate:"required,min=1,dive,required,max=16"`
	Prices      []int64             `json:"price_uzs" validate:"dive,min=0"`
	Stock       []int64             `json:"stock,omitempty" validate:"omitempty,dive,min=0"`
	ImageURL    string              `json:"image_url,omitempty" validate:"omitempty,max=1024"`
	Description string              `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty" validate:"omitempty,dive,max=32"`
	SEO         *models.SEO         `json:"seo,omitempty"`
	TelegramBot *models.BotSettings `json:"telegram_bot,omitempty"`
}

// UpdateProductRequest patches a product; nil fields are left unchanged.
// Variant arrays are checked together after the patch is applied.
type UpdateProductRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Category    *models.Category    `json:"category,omitempty" validate:"omitempty,category"`
	Variants    []string            `json:"liters,omitempty" validate:"omitempty,min=1,dive,required,max=16"`
	Prices      []int64             `json:"price_uzs,omitempty" validate:"omitempty,dive,min=0"`
	Stock       []int64             `json:"stock,omitempty" validate:"omitempty,dive,min=0"`
	ClearStock  bool                `json:"clear_stock,omitempty"`
	ImageURL    *string             `json:"image_url,omitempty" validate:"omitempty,max=1024"`
	Description *string             `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty" validate:"omitempty,dive,max=32"`
	SEO         *models.SEO         `json:"seo,omitempty"`
	TelegramBot *models.BotSettings `json:"telegram_bot,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Brands      []string `json:"brands,omitempty"`
	Viscosities []string `json:"viscosities,omitempty"`
}

type ProductFacets struct {
	Categories  []models.Category `json:"categories"`
	Brands      []string          `json:"brands"`
	Viscosities []string          `json:"viscosities"`
}

type CreateReviewRequest struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=2,max=1000"`
}

func NewProductService(products repository.ProductRepository, notifier Notifier) *ProductService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ProductService{
		products: products,
		notifier: notifier,
		now:      time.Now,
	}
}

// NormalizeVariants enforces the positional variant invariant. Missing
// prices are padded with 0, which later resolves to a volume-derived price.
// Extra prices, a stock list of the wrong length, empty or duplicate labels
// are rejected.
func NormalizeVariants(product *models.Product) error {
	if len(product.Variants) == 0 {
		return ErrNoVariants
	}

	seen := make(map[string]bool, len(product.Variants))
	for i, label := range product.Variants {
		label = strings.TrimSpace(label)
		if label == "" {
			return ErrUnknownVariant
		}
		if seen[label] {
			return fmt.Errorf("%w: %s", ErrDuplicateVariant, label)
		}
		seen[label] = true
		product.Variants[i] = label
	}

	if len(product.Prices) > len(product.Variants) {
		return ErrVariantMismatch
	}
	for len(product.Prices) < len(product.Variants) {
		product.Prices = append(product.Prices, 0)
	}

	if product.Stock != nil && len(product.Stock) != len(product.Variants) {
		return ErrVariantMismatch
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	id := req.ID
	if id == "" {
		id = utils.NewID("prod")
	}

	if _, err := s.products.Get(ctx, id); err == nil {
		return nil, repository.ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	product := &models.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Variants:    pq.StringArray(req.Variants),
		Prices:      pq.Int64Array(req.Prices),
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Tags:        pq.StringArray(req.Tags),
		TelegramBot: models.DefaultBotSettings(),
	}
	if req.Stock != nil {
		product.Stock = pq.Int64Array(req.Stock)
	}
	if req.SEO != nil {
		product.SEO = *req.SEO
	} else {
		product.SEO = models.SEO{Title: product.Name, MetaDescription: product.Description}
	}
	if req.TelegramBot != nil {
		product.TelegramBot = *req.TelegramBot
	}

	if err := s.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	logrus.WithField("product_id", product.ID).Info("Product created")
	return product, nil
}

// SaveProduct validates the variant arrays and upserts the product.
func (s *ProductService) SaveProduct(ctx context.Context, product *models.Product) error {
	if err := NormalizeVariants(product); err != nil {
		return err
	}
	if !product.Category.Valid() {
		return fmt.Errorf("unknown category %q", product.Category)
	}
	if err := s.products.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update fields
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Variants != nil {
		product.Variants = pq.StringArray(req.Variants)
	}
	if req.Prices != nil {
		product.Prices = pq.Int64Array(req.Prices)
	}
	if req.ClearStock {
		product.Stock = nil
	} else if req.Stock != nil {
		product.Stock = pq.Int64Array(req.Stock)
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Tags != nil {
		product.Tags = pq.StringArray(req.Tags)
	}
	if req.SEO != nil {
		product.SEO = *req.SEO
	}
	if req.TelegramBot != nil {
		product.TelegramBot = *req.TelegramBot
	}

	if err := s.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetImage points a product at an uploaded image.
func (s *ProductService) SetImage(ctx context.Context, id, imageURL string) (*models.Product, error) {
	return s.UpdateProduct(ctx, id, &UpdateProductRequest{ImageURL: &imageURL})
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// SearchProducts filters the catalog and returns one page plus the number
// of matches. Category "All" or empty means every category.
func (s *ProductService) SearchProducts(ctx context.Context, params ProductSearchParams) ([]models.Product, int64, error) {
	catalog, err := s.ListProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(strings.TrimSpace(params.Search))
	brands := toSet(params.Brands, strings.TrimSpace)
	viscosities := toSet(params.Viscosities, func(v string) string {
		return strings.ToUpper(strings.TrimSpace(v))
	})

	matches := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		if params.Category != "" && params.Category != "All" && string(p.Category) != params.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if len(brands) > 0 && !brands[BrandOf(p.Name)] {
			continue
		}
		if len(viscosities) > 0 {
			grade, ok := ViscosityOf(p.Name)
			if !ok || !viscosities[grade] {
				continue
			}
		}
		matches = append(matches, p)
	}

	switch params.Sort {
	case "price-asc":
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].BasePrice() < matches[j].BasePrice() })
	case "price-desc":
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].BasePrice() > matches[j].BasePrice() })
	case "name-asc":
		sort.SliceStable(matches, func(i, j int) bool {
			return strings.ToLower(matches[i].Name) < strings.ToLower(matches[j].Name)
		})
	}

	return utils.PageOf(matches, params.PaginationParams), int64(len(matches)), nil
}

// Facets lists the distinct brands and viscosity grades in the catalog.
func (s *ProductService) Facets(ctx context.Context) (*ProductFacets, error) {
	catalog, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	brands := map[string]bool{}
	grades := map[string]bool{}
	for _, p := range catalog {
		if brand := BrandOf(p.Name); brand != "" {
			brands[brand] = true
		}
		if grade, ok := ViscosityOf(p.Name); ok {
			grades[grade] = true
		}
	}

	return &ProductFacets{
		Categories:  models.Categories,
		Brands:      sortedKeys(brands),
		Viscosities: sortedKeys(grades),
	}, nil
}

// PriceFor resolves the unit price of one variant.
func (s *ProductService) PriceFor(ctx context.Context, id, variant string) (int64, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	if variant == "" && len(product.Variants) > 0 {
		variant = product.Variants[0]
	}
	if product.VariantIndex(variant) < 0 {
		return 0, ErrUnknownVariant
	}
	return ResolvePrice(product, variant), nil
}

// AddReview prepends a review and folds its rating into the average. An
// unrated product counts as rated 5.
func (s *ProductService) AddReview(ctx context.Context, productID, userID, userName string, req *CreateReviewRequest) (*models.Product, *models.Review, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	if userName == "" {
		userName = req.Name
	}
	if userID == "" {
		userID = "guest"
	}

	review := models.Review{
		ID:       utils.NewID("rev"),
		UserID:   userID,
		UserName: userName,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
		Date:     s.now().UTC().Format(time.RFC3339),
	}

	current := product.Rating
	if current == 0 {
		current = 5
	}
	n := float64(len(product.Reviews))
	product.Rating = (current*n + float64(req.Rating)) / (n + 1)
	product.Reviews = append(models.Reviews{review}, product.Reviews...)

	if err := s.products.Save(ctx, product); err != nil {
		return nil, nil, fmt.Errorf("failed to save review: %w", err)
	}

	if err := s.notifier.ReviewPosted(ctx, product, &review); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Warn("Review notification not queued")
	}
	return product, &review, nil
}

// brandAliases maps a lowercase name fragment to its display brand. Order
// matters: the first hit wins.
var brandAliases = []struct {
	fragment string
	brand    string
}{
	{"fortex", "Fortex"},
	{"shell", "SHELL"},
	{"castrol", "CASTROL"},
	{"lukoil", "Lukoil"},
	{"liqui", "LiQui"},
	{"venol", "Venol"},
	{"zic", "ZIC"},
	{"mannol", "Mannol"},
	{"mobil", "Mobil"},
	{"total", "Total"},
	{"elf", "Elf"},
	{"kixx", "Kixx"},
	{"motul", "Motul"},
	{"g-energy", "G-Energy"},
	{"felix", "Felix"},
	{"enoc", "Enoc"},
	{"fosser", "Fosser"},
}

// BrandOf derives the brand shown in filters from a product name, falling
// back to the first word.
func BrandOf(name string) string {
	lower := strings.ToLower(name)
	for _, alias := range brandAliases {
		if strings.Contains(lower, alias.fragment) {
			return alias.brand
		}
	}
	return strings.Split(name, " ")[0]
}

var viscosityPattern = regexp.MustCompile(`(?i)\d+W-\d+`)

// ViscosityOf extracts an SAE grade such as 5W-30 from a product name.
func ViscosityOf(name string) (string, bool) {
	match := viscosityPattern.FindString(name)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}

func toSet(values []string, norm func(string) string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = norm(v); v != "" {
			set[v] = true
		}
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
