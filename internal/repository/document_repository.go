// internal/repository/document_repository.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fortexuz/fortex-backend/internal/models"
)

// NewDocumentStore builds every repository on top of a DocumentStore. Each
// mutation reads the whole collection, changes it and writes it back; the
// per-collection mutex serializes writers inside this process.
func NewDocumentStore(docs DocumentStore, seedCatalog bool) *Store {
	return &Store{
		Products:    &documentProductRepository{docs: docs, seed: seedCatalog, now: time.Now},
		Orders:      &documentOrderRepository{docs: docs, now: time.Now},
		Users:       &documentUserRepository{docs: docs, now: time.Now},
		Carts:       &documentCartRepository{docs: docs, now: time.Now},
		Bookings:    &documentBookingRepository{docs: docs},
		Preferences: &documentPreferenceRepository{docs: docs},
		Audit:       &documentAuditRepository{docs: docs},
	}
}

// NewMemoryStore is the in-memory backend used by tests and local runs.
func NewMemoryStore(seedCatalog bool) *Store {
	return NewDocumentStore(NewMemoryDocumentStore(), seedCatalog)
}

type documentProductRepository struct {
	mu   sync.Mutex
	docs DocumentStore
	seed bool
	now  func() time.Time
}

func (r *documentProductRepository) load(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	found, err := r.docs.Load(ctx, KeyProducts, &products)
	if err != nil {
		return nil, err
	}
	if found {
		return products, nil
	}
	if !r.seed {
		return []models.Product{}, nil
	}

	products = models.DefaultCatalog()
	now := r.now()
	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}
	if err := r.docs.Save(ctx, KeyProducts, products); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	return products, nil
}

func (r *documentProductRepository) List(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *documentProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *documentProductRepository) Save(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load(ctx)
	if err != nil {
		return err
	}

	product.UpdatedAt = r.now()
	for i := range products {
		if products[i].ID == product.ID {
			product.CreatedAt = products[i].CreatedAt
			products[i] = *product
			return r.docs.Save(ctx, KeyProducts, products)
		}
	}

	product.CreatedAt = product.UpdatedAt
	products = append(products, *product)
	return r.docs.Save(ctx, KeyProducts, products)
}

func (r *documentProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return ErrNotFound
	}
	return r.docs.Save(ctx, KeyProducts, kept)
}

func (r *documentProductRepository) RecordSales(ctx context.Context, lines []SaleLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(products))
	for i := range products {
		index[products[i].ID] = i
	}

	now := r.now()
	for _, line := range lines {
		i, ok := index[line.ProductID]
		if !ok {
			continue
		}
		products[i].RecordSale(line.Variant, line.Quantity)
		products[i].UpdatedAt = now
	}
	return r.docs.Save(ctx, KeyProducts, products)
}

func (r *documentProductRepository) ResetSales(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].Sales = 0
	}
	return r.docs.Save(ctx, KeyProducts, products)
}

type documentOrderRepository struct {
	mu   sync.Mutex
	docs DocumentStore
	now  func() time.Time
}

func (r *documentOrderRepository) load(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if _, err := r.docs.Load(ctx, KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *documentOrderRepository) Append(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range orders {
		if existing.ID == order.ID {
			return ErrDuplicate
		}
	}

	order.UpdatedAt = order.Date
	orders = append(orders, *order)
	return r.docs.Save(ctx, KeyOrders, orders)
}

func (r *documentOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Order, 0, len(orders))
	for i := range orders {
		if filter.Matches(&orders[i]) {
			matched = append(matched, orders[i])
		}
	}
	return matched, nil
}

func (r *documentOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *documentOrderRepository) update(ctx context.Context, id string, mutate func(*models.Order)) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		mutate(&orders[i])
		orders[i].UpdatedAt = r.now()
		if err := r.docs.Save(ctx, KeyOrders, orders); err != nil {
			return nil, err
		}
		updated := orders[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (r *documentOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return r.update(ctx, id, func(o *models.Order) {
		o.Status = status
	})
}

func (r *documentOrderRepository) MarkPaid(ctx context.Context, id, reference string) (*models.Order, error) {
	return r.update(ctx, id, func(o *models.Order) {
		o.Paid = true
		o.PaymentReference = reference
	})
}

type documentUserRepository struct {
	mu   sync.Mutex
	docs DocumentStore
	now  func() time.Time
}

// users are stored with their hash; the json:"-" tag only applies to API output.
type storedUser struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func (r *documentUserRepository) loadStored(ctx context.Context) ([]storedUser, error) {
	stored := []storedUser{}
	if _, err := r.docs.Load(ctx, KeyUsers, &stored); err != nil {
		return nil, err
	}
	for i := range stored {
		stored[i].User.PasswordHash = stored[i].PasswordHash
	}
	return stored, nil
}

func (r *documentUserRepository) saveStored(ctx context.Context, stored []storedUser) error {
	for i := range stored {
		stored[i].PasswordHash = stored[i].User.PasswordHash
	}
	return r.docs.Save(ctx, KeyUsers, stored)
}

func (r *documentUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.loadStored(ctx)
	if err != nil {
		return err
	}
	for _, existing := range stored {
		if existing.Phone == user.Phone || existing.ID == user.ID {
			return ErrDuplicate
		}
	}

	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored = append(stored, storedUser{User: *user})
	return r.saveStored(ctx, stored)
}

func (r *documentUserRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.loadStored(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stored {
		if match(&stored[i].User) {
			user := stored[i].User
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *documentUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (r *documentUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.Phone == phone })
}

func (r *documentUserRepository) modify(ctx context.Context, id string, mutate func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.loadStored(ctx)
	if err != nil {
		return err
	}
	for i := range stored {
		if stored[i].ID == id {
			mutate(&stored[i].User)
			stored[i].UpdatedAt = r.now()
			return r.saveStored(ctx, stored)
		}
	}
	return ErrNotFound
}

func (r *documentUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.modify(ctx, user.ID, func(u *models.User) {
		createdAt := u.CreatedAt
		*u = *user
		u.CreatedAt = createdAt
	})
}

func (r *documentUserRepository) AddPoints(ctx context.Context, id string, points int64) error {
	return r.modify(ctx, id, func(u *models.User) {
		u.Points += points
	})
}

type documentCartRepository struct {
	docs DocumentStore
	now  func() time.Time
}

func (r *documentCartRepository) Load(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart := &models.Cart{SessionID: sessionID, Items: models.LineItems{}}
	if _, err := r.docs.Load(ctx, cartKeyPrefix+sessionID, cart); err != nil {
		return nil, err
	}
	cart.SessionID = sessionID
	return cart, nil
}

func (r *documentCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = r.now()
	return r.docs.Save(ctx, cartKeyPrefix+cart.SessionID, cart)
}

func (r *documentCartRepository) Delete(ctx context.Context, sessionID string) error {
	return r.docs.Delete(ctx, cartKeyPrefix+sessionID)
}

type documentBookingRepository struct {
	mu   sync.Mutex
	docs DocumentStore
}

func (r *documentBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings := []models.Booking{}
	if _, err := r.docs.Load(ctx, KeyBookings, &bookings); err != nil {
		return err
	}
	bookings = append(bookings, *booking)
	return r.docs.Save(ctx, KeyBookings, bookings)
}

func (r *documentBookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings := []models.Booking{}
	if _, err := r.docs.Load(ctx, KeyBookings, &bookings); err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

type documentPreferenceRepository struct {
	docs DocumentStore
}

func (r *documentPreferenceRepository) GetLanguage(ctx context.Context, sessionID string) (string, bool, error) {
	var lang string
	found, err := r.docs.Load(ctx, languageKeyPrefix+sessionID, &lang)
	if err != nil {
		return "", false, err
	}
	return lang, found, nil
}

func (r *documentPreferenceRepository) SetLanguage(ctx context.Context, sessionID, lang string) error {
	return r.docs.Save(ctx, languageKeyPrefix+sessionID, lang)
}

// maxAuditEntries bounds the audit document; older entries are dropped.
const maxAuditEntries = 1000

type documentAuditRepository struct {
	mu   sync.Mutex
	docs DocumentStore
}

func (r *documentAuditRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := []models.AuditLog{}
	if _, err := r.docs.Load(ctx, KeyAuditLogs, &entries); err != nil {
		return err
	}
	entries = append(entries, *entry)
	if len(entries) > maxAuditEntries {
		entries = entries[len(entries)-maxAuditEntries:]
	}
	return r.docs.Save(ctx, KeyAuditLogs, entries)
}
