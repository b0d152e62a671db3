// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnknownVariant  = errors.New("unknown product variant")
	ErrNoVariants      = errors.New("product has no variants")
)

type CartService struct {
	mu       sync.Mutex
	products repository.ProductRepository
	carts    repository.CartRepository
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant,omitempty"`
}

type AdjustCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant" validate:"required"`
	Delta     int    `json:"delta" validate:"required"`
}

func NewCartService(products repository.ProductRepository, carts repository.CartRepository) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
	}
}

func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// Add puts one unit of a product variant into the cart. An empty variant
// means the first one. The unit price is captured now and kept even if the
// catalog price changes later.
func (s *CartService) Add(ctx context.Context, sessionID string, req *AddToCartRequest) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	variant := req.Variant
	if variant == "" {
		if len(product.Variants) == 0 {
			return nil, ErrNoVariants
		}
		variant = product.Variants[0]
	}
	if product.VariantIndex(variant) < 0 {
		return nil, ErrUnknownVariant
	}

	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID && cart.Items[i].Variant == variant {
			cart.Items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			ImageURL:  product.ImageURL,
			Variant:   variant,
			UnitPrice: ResolvePrice(product, variant),
			Quantity:  1,
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// Adjust changes the quantity of a cart line by delta. Lines that reach
// zero are removed. Adjusting a line that is not in the cart changes
// nothing.
func (s *CartService) Adjust(ctx context.Context, sessionID string, req *AdjustCartRequest) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	items := make(models.LineItems, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID == req.ProductID && item.Variant == req.Variant {
			item.Quantity += req.Delta
			if item.Quantity <= 0 {
				continue
			}
		}
		items = append(items, item)
	}
	cart.Items = items

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// Clear empties the cart and removes its stored snapshot.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
