package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
)

type AdminServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *repository.Store
	orders *OrderService
	admin  *AdminService
}

func (s *AdminServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repository.NewMemoryStore(true)
	s.orders = NewOrderService(s.store, NopNotifier{})
	s.admin = NewAdminService(s.store, NewProductService(s.store.Products, nil))
}

func (s *AdminServiceTestSuite) place(items ...models.LineItem) *models.Order {
	order, err := s.orders.PlaceOrder(s.ctx, &PlaceOrderInput{
		CheckoutRequest: CheckoutRequest{CustomerName: "Aziz", Phone: "901234567", PaymentMethod: models.PaymentMethodCash},
		Items:           items,
	})
	s.Require().NoError(err)
	return order
}

func (s *AdminServiceTestSuite) TestDashboardStats() {
	s.place(
		models.LineItem{ProductID: "prod_1", Name: "Fortex Premium 5W-30", Category: models.CategoryMotorOil, Variant: "4L", UnitPrice: 320000, Quantity: 2},
		models.LineItem{ProductID: "prod_13", Name: "Felix Antifreeze G12 Red", Category: models.CategoryAntifreeze, Variant: "1L", UnitPrice: 45000, Quantity: 1},
	)
	cancelled := s.place(
		models.LineItem{ProductID: "prod_10", Name: "Mannol Dexron III ATF", Category: models.CategoryATF, Variant: "1L", UnitPrice: 70000, Quantity: 3},
	)
	_, err := s.orders.UpdateStatus(s.ctx, cancelled.ID, models.OrderStatusCancelled)
	s.Require().NoError(err)

	stats, err := s.admin.GetDashboardStats(s.ctx)
	s.Require().NoError(err)

	s.Equal(2, stats.TotalOrders)
	s.Equal(int64(895000), stats.TotalRevenue)
	s.Equal(13, stats.TotalProducts)
	s.Equal(map[models.OrderStatus]int{
		models.OrderStatusPending:   1,
		models.OrderStatusAccepted:  0,
		models.OrderStatusReady:     0,
		models.OrderStatusCancelled: 1,
	}, stats.OrdersByStatus)

	units := map[models.Category]int{}
	for _, c := range stats.SalesByCategory {
		units[c.Category] = c.Units
	}
	s.Len(stats.SalesByCategory, len(models.Categories))
	s.Equal(2, units[models.CategoryMotorOil])
	s.Equal(3, units[models.CategoryATF])
	s.Equal(1, units[models.CategoryAntifreeze])
	s.Zero(units[models.CategoryHydraulicOil])

	s.Equal([]models.TopProduct{
		{ID: "prod_10", Name: "Mannol Dexron III ATF", Sold: 3},
		{ID: "prod_1", Name: "Fortex Premium 5W-30", Sold: 2},
		{ID: "prod_13", Name: "Felix Antifreeze G12 Red", Sold: 1},
	}, stats.TopProducts)
}

func (s *AdminServiceTestSuite) TestResetStatsKeepsOrders() {
	s.place(models.LineItem{ProductID: "prod_2", Name: "Shell Helix HX7 10W-40", Category: models.CategoryMotorOil, Variant: "1L", UnitPrice: 95000, Quantity: 1})

	s.Require().NoError(s.admin.ResetStats(s.ctx))

	stats, err := s.admin.GetDashboardStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.TotalOrders)
	s.Equal(int64(95000), stats.TotalRevenue)
	s.Empty(stats.TopProducts)
}

func (s *AdminServiceTestSuite) TestExportImportRoundTrip() {
	s.place(models.LineItem{ProductID: "prod_1", Name: "Fortex Premium 5W-30", Category: models.CategoryMotorOil, Variant: "1L", UnitPrice: 85000, Quantity: 1})

	data, err := s.admin.ExportWorkbook(s.ctx)
	s.Require().NoError(err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	s.Require().NoError(err)
	s.Equal([]string{ordersSheet, productsSheet}, f.GetSheetList())
	orderRows, err := f.GetRows(ordersSheet)
	s.Require().NoError(err)
	s.Len(orderRows, 2)
	s.Require().NoError(f.Close())

	target := repository.NewMemoryStore(false)
	importer := NewAdminService(target, NewProductService(target.Products, nil))

	report, err := importer.ImportProducts(s.ctx, data)
	s.Require().NoError(err)
	s.Equal(13, report.Created)
	s.Zero(report.Skipped)

	product, err := target.Products.Get(s.ctx, "prod_1")
	s.Require().NoError(err)
	s.Equal("Fortex Premium 5W-30", product.Name)
	s.Equal(pq.StringArray{"1L", "4L", "5L"}, product.Variants)
	s.Equal(pq.Int64Array{85000, 320000, 0}, product.Prices)
	s.Nil(product.Stock)
	s.Equal(pq.StringArray{"New"}, product.Tags)

	report, err = importer.ImportProducts(s.ctx, data)
	s.Require().NoError(err)
	s.Equal(13, report.Updated)
	s.Zero(report.Created)
}

func (s *AdminServiceTestSuite) TestImportReportsBadRows() {
	f := excelize.NewFile()
	rows := [][]interface{}{
		productColumns,
		{"prod_1", "Fortex Premium 5W-30", "Motor Oil", "1L,4L", "90000, 330000", "3,0"},
		{"prod_new", "Venol Semisynthetic 10W-40", "Motor Oil", "1L,4L", "60000", ""},
		{"prod_x", "Bad category", "Brake Fluid", "1L", "1000"},
		{"prod_y", "Bad price", "ATF", "1L", "abc"},
		{},
		{"prod_z", "Too many prices", "ATF", "1L", "1000,2000"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		s.Require().NoError(err)
		row := row
		s.Require().NoError(f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	s.Require().NoError(err)
	s.Require().NoError(f.Close())

	report, err := s.admin.ImportProducts(s.ctx, buf.Bytes())
	s.Require().NoError(err)
	s.Equal(1, report.Created)
	s.Equal(1, report.Updated)
	s.Equal(3, report.Skipped)
	s.Require().Len(report.Errors, 3)
	s.Contains(report.Errors[0], "row 4")
	s.Contains(report.Errors[2], "row 7")

	updated, err := s.store.Products.Get(s.ctx, "prod_1")
	s.Require().NoError(err)
	s.Equal(pq.Int64Array{90000, 330000}, updated.Prices)
	s.Equal(pq.Int64Array{3, 0}, updated.Stock)
	s.Equal("Fortex Premium 5W-30 | Fortex", updated.SEO.Title)

	created, err := s.store.Products.Get(s.ctx, "prod_new")
	s.Require().NoError(err)
	s.Equal(pq.Int64Array{60000, 0}, created.Prices)
}

func (s *AdminServiceTestSuite) TestImportRejectsGarbage() {
	_, err := s.admin.ImportProducts(s.ctx, []byte("not a workbook"))
	s.ErrorIs(err, ErrInvalidWorkbook)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
