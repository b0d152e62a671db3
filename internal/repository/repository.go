// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/fortexuz/fortex-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// SaleLine is one order line applied to the catalog.
type SaleLine struct {
	ProductID string
	Variant   string
	Quantity  int
}

type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// RecordSales applies every line and persists the catalog once. Lines for
	// products that no longer exist are skipped.
	RecordSales(ctx context.Context, lines []SaleLine) error
	ResetSales(ctx context.Context) error
}

type OrderFilter struct {
	Phone  string
	UserID string
	Status models.OrderStatus
}

func (f OrderFilter) Matches(o *models.Order) bool {
	if f.Phone != "" && o.Phone != f.Phone {
		return false
	}
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}

// OrderRepository is append-only: orders are never replaced or deleted.
type OrderRepository interface {
	Append(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	MarkPaid(ctx context.Context, id, reference string) (*models.Order, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AddPoints(ctx context.Context, id string, points int64) error
}

// CartRepository holds session-scoped carts. Load of an unknown session
// returns an empty cart.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context) ([]models.Booking, error)
}

type PreferenceRepository interface {
	GetLanguage(ctx context.Context, sessionID string) (string, bool, error)
	SetLanguage(ctx context.Context, sessionID, lang string) error
}

type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Products    ProductRepository
	Orders      OrderRepository
	Users       UserRepository
	Carts       CartRepository
	Bookings    BookingRepository
	Preferences PreferenceRepository
	Audit       AuditRepository
}
