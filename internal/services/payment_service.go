// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/models"
)

var (
	ErrPaymentsDisabled  = errors.New("card payments are not configured")
	ErrNotCardOrder      = errors.New("order is not a card order")
	ErrOrderAlreadyPaid  = errors.New("order is already paid")
	ErrPaymentIncomplete = errors.New("payment has not succeeded")
	ErrPaymentMismatch   = errors.New("payment does not belong to this order")
)

// IntentGateway is the slice of the Stripe API the payment service needs.
type IntentGateway interface {
	Create(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string) (*stripe.PaymentIntent, error)
}

type stripeGateway struct{}

func (stripeGateway) Create(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

func (stripeGateway) Get(id string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}

type PaymentService struct {
	orders         *OrderService
	gateway        IntentGateway
	currency       string
	publishableKey string
	enabled        bool
}

type CreatePaymentIntentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret   string `json:"client_secret"`
	PaymentID      string `json:"payment_id"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PublishableKey string `json:"publishable_key,omitempty"`
}

type ConfirmPaymentRequest struct {
	OrderID         string `json:"order_id" validate:"required"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewPaymentService(orders *OrderService, cfg *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return newPaymentService(orders, stripeGateway{}, cfg.Payment)
}

func newPaymentService(orders *OrderService, gateway IntentGateway, cfg config.PaymentConfig) *PaymentService {
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "uzs"
	}
	return &PaymentService{
		orders:         orders,
		gateway:        gateway,
		currency:       currency,
		publishableKey: cfg.StripePublishableKey,
		enabled:        cfg.StripeSecretKey != "",
	}
}

// zeroDecimalCurrencies are charged in whole units by the gateway. Every
// other currency, UZS included, is charged in hundredths.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// minorUnits converts a whole-unit amount into the unit the gateway expects.
func minorUnits(amount int64, currency string) int64 {
	if zeroDecimalCurrencies[currency] {
		return amount
	}
	return amount * 100
}

// CreateIntent opens a PaymentIntent for the full amount of a card order.
// Orders are priced in whole UZS; the intent is in tiyin.
func (s *PaymentService) CreateIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if !s.enabled {
		return nil, ErrPaymentsDisabled
	}

	order, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodCard {
		return nil, ErrNotCardOrder
	}
	if order.Paid {
		return nil, ErrOrderAlreadyPaid
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(order.TotalAmount, s.currency)),
		Currency: stripe.String(s.currency),
	}
	params.AddMetadata("order_id", order.ID)
	params.AddMetadata("phone", order.Phone)

	pi, err := s.gateway.Create(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret:   pi.ClientSecret,
		PaymentID:      pi.ID,
		Status:         string(pi.Status),
		Amount:         order.TotalAmount,
		Currency:       s.currency,
		PublishableKey: s.publishableKey,
	}, nil
}

// Confirm checks the PaymentIntent with the gateway and marks the order paid
// once it has succeeded.
func (s *PaymentService) Confirm(ctx context.Context, req *ConfirmPaymentRequest) (*models.Order, error) {
	if !s.enabled {
		return nil, ErrPaymentsDisabled
	}

	pi, err := s.gateway.Get(req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	if pi.Metadata["order_id"] != req.OrderID {
		return nil, ErrPaymentMismatch
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrPaymentIncomplete
	}

	order, err := s.orders.MarkPaid(ctx, req.OrderID, pi.ID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"payment_id": pi.ID,
	}).Info("Card payment confirmed")
	return order, nil
}
