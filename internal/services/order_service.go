// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

type OrderService struct {
	products    repository.ProductRepository
	orders      repository.OrderRepository
	users       repository.UserRepository
	carts       repository.CartRepository
	notifier    Notifier
	ids         *utils.OrderIDGenerator
	now         func() time.Time
	uzsPerPoint int64
}

type CheckoutRequest struct {
	CustomerName  string               `json:"customer_name" validate:"required,min=2,max=255"`
	Phone         string               `json:"phone" validate:"required,uz_phone"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card"`
}

// PlaceOrderInput is a finalized checkout: the customer fields plus the line
// items exactly as they were priced in the cart.
type PlaceOrderInput struct {
	CheckoutRequest
	Items     models.LineItems
	UserID    string
	SessionID string
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,order_status"`
}

type OrderOption func(*OrderService)

// WithClock replaces time.Now for order dates and identifiers.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) {
		s.now = now
		s.ids = utils.NewOrderIDGenerator(now)
	}
}

// WithLoyaltyRate sets how many UZS earn one loyalty point. Zero disables
// points.
func WithLoyaltyRate(uzsPerPoint int64) OrderOption {
	return func(s *OrderService) {
		s.uzsPerPoint = uzsPerPoint
	}
}

func NewOrderService(store *repository.Store, notifier Notifier, opts ...OrderOption) *OrderService {
	s := &OrderService{
		products: store.Products,
		orders:   store.Orders,
		users:    store.Users,
		carts:    store.Carts,
		notifier: notifier,
		ids:      utils.NewOrderIDGenerator(time.Now),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	return s
}

// Checkout turns the session cart into an order.
func (s *OrderService) Checkout(ctx context.Context, sessionID, userID string, req *CheckoutRequest) (*models.Order, error) {
	cart, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return s.PlaceOrder(ctx, &PlaceOrderInput{
		CheckoutRequest: *req,
		Items:           cart.Items,
		UserID:          userID,
		SessionID:       sessionID,
	})
}

// PlaceOrder appends a Pending order, then records the sale against the
// catalog and clears the cart. A successful append is the commit point:
// later failures are logged and the order is still returned.
func (s *OrderService) PlaceOrder(ctx context.Context, in *PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	phone, err := utils.NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	items := make(models.LineItems, len(in.Items))
	copy(items, in.Items)

	now := s.now()
	order := &models.Order{
		ID:            s.ids.Next(),
		CustomerName:  in.CustomerName,
		Phone:         phone,
		PaymentMethod: in.PaymentMethod,
		Items:         items,
		TotalAmount:   items.Total(),
		Status:        models.OrderStatusPending,
		UserID:        in.UserID,
		Date:          now,
		UpdatedAt:     now,
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"items":    len(order.Items),
	})

	sales := make([]repository.SaleLine, 0, len(items))
	for _, item := range items {
		sales = append(sales, repository.SaleLine{
			ProductID: item.ProductID,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
		})
	}
	if err := s.products.RecordSales(ctx, sales); err != nil {
		log.WithError(err).Error("Failed to apply order to catalog")
	}

	if in.SessionID != "" {
		if err := s.carts.Delete(ctx, in.SessionID); err != nil {
			log.WithError(err).Warn("Failed to clear cart after order")
		}
	}

	if points := s.pointsFor(order); points > 0 && order.UserID != "" {
		if err := s.users.AddPoints(ctx, order.UserID, points); err != nil {
			log.WithError(err).Warn("Failed to award loyalty points")
		}
	}

	if err := s.notifier.OrderPlaced(ctx, order); err != nil {
		log.WithError(err).Warn("Order notification not queued")
	}

	log.Info("Order placed")
	return order, nil
}

func (s *OrderService) pointsFor(order *models.Order) int64 {
	if s.uzsPerPoint <= 0 {
		return 0
	}
	return order.TotalAmount / s.uzsPerPoint
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

// List returns matching orders, newest first.
func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
	return orders, nil
}

// ListForPhone returns the orders placed with a phone number.
func (s *OrderService) ListForPhone(ctx context.Context, phone string) ([]models.Order, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, repository.OrderFilter{Phone: normalized})
}

// UpdateStatus sets any known status regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": id,
		"status":   status,
	}).Info("Order status updated")
	return order, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, id, reference string) (*models.Order, error) {
	order, err := s.orders.MarkPaid(ctx, id, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return order, nil
}
