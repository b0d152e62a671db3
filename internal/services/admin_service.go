// internal/services/admin_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
)

const (
	ordersSheet   = "Orders"
	productsSheet = "Products"
	topProducts   = 5
)

var ErrInvalidWorkbook = errors.New("invalid workbook")

var productColumns = []interface{}{"ID", "Name", "Category", "Liters", "Prices (UZS)", "Stock", "Image URL", "Description", "Tags", "Sales"}

type AdminService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	bookings repository.BookingRepository
	catalog  *ProductService
	now      func() time.Time
}

// ImportReport summarizes a product sheet import. Row numbers are 1-based
// as shown in a spreadsheet.
type ImportReport struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func NewAdminService(store *repository.Store, catalog *ProductService) *AdminService {
	return &AdminService{
		products: store.Products,
		orders:   store.Orders,
		bookings: store.Bookings,
		catalog:  catalog,
		now:      time.Now,
	}
}

// GetDashboardStats aggregates revenue over every order regardless of
// status, units sold per category from order lines, and the best sellers by
// the catalog sales counter.
func (s *AdminService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	orders, err := s.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	stats := &models.DashboardStats{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
		TotalProducts:  len(products),
		TotalBookings:  len(bookings),
	}
	for _, status := range models.OrderStatuses {
		stats.OrdersByStatus[status] = 0
	}

	units := make(map[models.Category]int, len(models.Categories))
	for _, order := range orders {
		stats.TotalRevenue += order.TotalAmount
		stats.OrdersByStatus[order.Status]++
		for _, item := range order.Items {
			units[item.Category] += item.Quantity
		}
	}
	for _, category := range models.Categories {
		stats.SalesByCategory = append(stats.SalesByCategory, models.CategorySales{
			Category: category,
			Units:    units[category],
		})
	}

	ranked := make([]models.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Sales > ranked[j].Sales })
	stats.TopProducts = []models.TopProduct{}
	for _, p := range ranked {
		if len(stats.TopProducts) == topProducts || p.Sales == 0 {
			break
		}
		stats.TopProducts = append(stats.TopProducts, models.TopProduct{ID: p.ID, Name: p.Name, Sold: p.Sales})
	}

	return stats, nil
}

// ResetStats zeroes every product sales counter. Orders are kept.
func (s *AdminService) ResetStats(ctx context.Context) error {
	if err := s.products.ResetSales(ctx); err != nil {
		return fmt.Errorf("failed to reset sales: %w", err)
	}
	logrus.Info("Sales counters reset")
	return nil
}

// ExportWorkbook writes orders and products into an xlsx workbook. The
// products sheet uses the layout ImportProducts reads.
func (s *AdminService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	orders, err := s.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(productsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	orderRows := [][]interface{}{
		{"ID", "Date", "Customer", "Phone", "Payment", "Status", "Paid", "Items", "Total (UZS)"},
	}
	for _, o := range orders {
		lines := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			lines = append(lines, fmt.Sprintf("%s (%s) x%d", item.Name, item.Variant, item.Quantity))
		}
		orderRows = append(orderRows, []interface{}{
			o.ID, o.Date.Format("2006-01-02 15:04"), o.CustomerName, o.Phone,
			string(o.PaymentMethod), string(o.Status), o.Paid, strings.Join(lines, "; "), o.TotalAmount,
		})
	}
	if err := writeRows(f, ordersSheet, orderRows, header); err != nil {
		return nil, err
	}

	productRows := [][]interface{}{productColumns}
	for _, p := range products {
		productRows = append(productRows, []interface{}{
			p.ID, p.Name, string(p.Category), strings.Join(p.Variants, ","), joinInts(p.Prices),
			joinInts(p.Stock), p.ImageURL, p.Description, strings.Join(p.Tags, ","), p.Sales,
		})
	}
	if err := writeRows(f, productsSheet, productRows, header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "J", 18)
}

// ImportProducts upserts products from the "Products" sheet, or the first
// sheet when there is none. The first row is a header. Invalid rows are
// reported and skipped; valid rows are saved.
func (s *AdminService) ImportProducts(ctx context.Context, data []byte) (*ImportReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidWorkbook
	}
	sheet := sheets[0]
	for _, sh := range sheets {
		if strings.EqualFold(sh, productsSheet) {
			sheet = sh
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	report := &ImportReport{}
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}

		product, err := productFromRow(row)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		existing, err := s.products.Get(ctx, product.ID)
		switch {
		case err == nil:
			product.Sales = existing.Sales
			product.Reviews = existing.Reviews
			product.Rating = existing.Rating
			product.SEO = existing.SEO
			product.TelegramBot = existing.TelegramBot
		case errors.Is(err, repository.ErrNotFound):
			product.SEO = models.SEO{Title: product.Name, MetaDescription: product.Description}
			product.TelegramBot = models.DefaultBotSettings()
		default:
			return report, fmt.Errorf("failed to load product %s: %w", product.ID, err)
		}

		if err := s.catalog.SaveProduct(ctx, product); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if existing != nil {
			report.Updated++
		} else {
			report.Created++
		}
	}

	logrus.WithFields(logrus.Fields{
		"created": report.Created,
		"updated": report.Updated,
		"skipped": report.Skipped,
	}).Info("Products imported")
	return report, nil
}

func productFromRow(row []string) (*models.Product, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	if col(0) == "" || col(1) == "" {
		return nil, errors.New("id and name are required")
	}

	category := models.Category(col(2))
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", col(2))
	}

	prices, err := splitInts(col(4))
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	stock, err := splitInts(col(5))
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}

	product := &models.Product{
		ID:          col(0),
		Name:        col(1),
		Category:    category,
		Variants:    pq.StringArray(splitList(col(3))),
		Prices:      pq.Int64Array(prices),
		ImageURL:    col(6),
		Description: col(7),
		Tags:        pq.StringArray(splitList(col(8))),
	}
	if stock != nil {
		product.Stock = pq.Int64Array(stock)
	}
	return product, nil
}

func splitList(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// splitInts parses "85000, 320000"; an empty cell yields nil.
func splitInts(value string) ([]int64, error) {
	parts := splitList(value)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseInt(strings.ReplaceAll(part, " ", ""), 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func joinInts(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
