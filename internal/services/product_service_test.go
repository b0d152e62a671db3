package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type ProductServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	notifier *mockNotifier
	products *ProductService
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.notifier = new(mockNotifier)
	s.products = NewProductService(repository.NewMemoryStore(true).Products, s.notifier)
}

func (s *ProductServiceTestSuite) search(params ProductSearchParams) []string {
	if params.Limit == 0 {
		params.Page, params.Limit = 1, 50
	}
	found, _, err := s.products.SearchProducts(s.ctx, params)
	s.Require().NoError(err)
	return productIDs(found)
}

func (s *ProductServiceTestSuite) TestSearchFilters() {
	tests := []struct {
		name   string
		params ProductSearchParams
		want   []string
	}{
		{
			name:   "category and grade",
			params: ProductSearchParams{PaginationParams: utils.PaginationParams{Category: "Motor Oil"}, Viscosities: []string{"5w-30"}},
			want:   []string{"prod_1", "prod_3", "prod_6"},
		},
		{
			name:   "brand",
			params: ProductSearchParams{Brands: []string{"SHELL", "Kixx"}},
			want:   []string{"prod_2", "prod_9"},
		},
		{
			name:   "name search ignores case",
			params: ProductSearchParams{PaginationParams: utils.PaginationParams{Search: "FORTEX"}},
			want:   []string{"prod_1", "prod_11", "prod_12"},
		},
		{
			name:   "sorted by base price",
			params: ProductSearchParams{PaginationParams: utils.PaginationParams{Sort: "price-asc"}, Viscosities: []string{"5W-30"}},
			want:   []string{"prod_1", "prod_6", "prod_3"},
		},
		{
			name:   "all categories",
			params: ProductSearchParams{PaginationParams: utils.PaginationParams{Category: "All", Search: "antifreeze"}},
			want:   []string{"prod_13"},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			if diff := cmp.Diff(tt.want, s.search(tt.params)); diff != "" {
				s.Failf("search mismatch", "(-want +got):\n%s", diff)
			}
		})
	}
}

func (s *ProductServiceTestSuite) TestSearchPaginates() {
	found, total, err := s.products.SearchProducts(s.ctx, ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 2, Limit: 5},
	})
	s.Require().NoError(err)
	s.Equal(int64(13), total)
	s.Equal([]string{"prod_6", "prod_7", "prod_8", "prod_9", "prod_10"}, productIDs(found))

	found, total, err = s.products.SearchProducts(s.ctx, ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 4, Limit: 5},
	})
	s.Require().NoError(err)
	s.Equal(int64(13), total)
	s.Empty(found)
}

func (s *ProductServiceTestSuite) TestFacets() {
	facets, err := s.products.Facets(s.ctx)
	s.Require().NoError(err)

	s.Equal(models.Categories, facets.Categories)
	s.Equal([]string{"CASTROL", "Felix", "Fortex", "Kixx", "LiQui", "Lukoil", "Mannol", "Mobil", "SHELL", "Total", "ZIC"}, facets.Brands)
	s.Equal([]string{"0W-20", "10W-40", "15W-40", "5W-30", "5W-40", "75W-90"}, facets.Viscosities)
}

func (s *ProductServiceTestSuite) TestCreateProductPadsPrices() {
	product, err := s.products.CreateProduct(s.ctx, &CreateProductRequest{
		Name:     "Motul 8100 X-clean 5W-40",
		Category: models.CategoryMotorOil,
		Variants: []string{"1L", "5L"},
		Prices:   []int64{150000},
	})
	s.Require().NoError(err)
	s.Contains(product.ID, "prod")
	s.Equal(pq.Int64Array{150000, 0}, product.Prices)
	s.Equal("Motul 8100 X-clean 5W-40", product.SEO.Title)

	price, err := s.products.PriceFor(s.ctx, product.ID, "5L")
	s.Require().NoError(err)
	s.Equal(int64(750000), price)

	_, err = s.products.CreateProduct(s.ctx, &CreateProductRequest{
		ID:       product.ID,
		Name:     "Copy",
		Category: models.CategoryMotorOil,
		Variants: []string{"1L"},
	})
	s.ErrorIs(err, repository.ErrDuplicate)
}

func (s *ProductServiceTestSuite) TestUpdateProductChecksVariants() {
	_, err := s.products.UpdateProduct(s.ctx, "prod_2", &UpdateProductRequest{Stock: []int64{5}})
	s.ErrorIs(err, ErrVariantMismatch)

	updated, err := s.products.UpdateProduct(s.ctx, "prod_2", &UpdateProductRequest{Stock: []int64{5, 2}})
	s.Require().NoError(err)
	s.True(updated.TracksStock())

	updated, err = s.products.UpdateProduct(s.ctx, "prod_2", &UpdateProductRequest{ClearStock: true})
	s.Require().NoError(err)
	s.False(updated.TracksStock())

	_, err = s.products.UpdateProduct(s.ctx, "prod_404", &UpdateProductRequest{})
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *ProductServiceTestSuite) TestDeleteProduct() {
	s.Require().NoError(s.products.DeleteProduct(s.ctx, "prod_13"))
	s.ErrorIs(s.products.DeleteProduct(s.ctx, "prod_13"), ErrProductNotFound)

	_, err := s.products.GetProduct(s.ctx, "prod_13")
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *ProductServiceTestSuite) TestPriceFor() {
	price, err := s.products.PriceFor(s.ctx, "prod_4", "")
	s.Require().NoError(err)
	s.Equal(int64(110000), price)

	price, err = s.products.PriceFor(s.ctx, "prod_4", "5L")
	s.Require().NoError(err)
	s.Equal(int64(550000), price)

	_, err = s.products.PriceFor(s.ctx, "prod_4", "4L")
	s.ErrorIs(err, ErrUnknownVariant)
}

func (s *ProductServiceTestSuite) TestAddReviewAveragesRating() {
	s.notifier.On("ReviewPosted", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	product, review, err := s.products.AddReview(s.ctx, "prod_1", "", "", &CreateReviewRequest{
		Name: "Bobur", Rating: 4, Comment: "Good oil",
	})
	s.Require().NoError(err)
	s.Equal("guest", review.UserID)
	s.Equal("Bobur", review.UserName)
	s.InDelta(4.0, product.Rating, 1e-9)

	product, review, err = s.products.AddReview(s.ctx, "prod_1", "user_1", "Aziz", &CreateReviewRequest{
		Name: "ignored", Rating: 2, Comment: "Too thin for my car",
	})
	s.Require().NoError(err)
	s.Equal("Aziz", review.UserName)
	s.InDelta(3.0, product.Rating, 1e-9)
	s.Require().Len(product.Reviews, 2)
	s.Equal(review.ID, product.Reviews[0].ID)

	s.notifier.AssertNumberOfCalls(s.T(), "ReviewPosted", 2)
}

func (s *ProductServiceTestSuite) TestReviewNotificationFailureIsIgnored() {
	s.notifier.On("ReviewPosted", mock.Anything, mock.Anything, mock.Anything).Return(ErrQueueClosed)

	_, _, err := s.products.AddReview(s.ctx, "prod_2", "", "", &CreateReviewRequest{
		Name: "Guest", Rating: 5, Comment: "Great",
	})
	s.NoError(err)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func TestNormalizeVariants(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		want    error
		prices  pq.Int64Array
	}{
		{"pads missing prices", models.Product{Variants: pq.StringArray{"1L", "4L"}, Prices: pq.Int64Array{1000}}, nil, pq.Int64Array{1000, 0}},
		{"no variants", models.Product{}, ErrNoVariants, nil},
		{"extra prices", models.Product{Variants: pq.StringArray{"1L"}, Prices: pq.Int64Array{1, 2}}, ErrVariantMismatch, nil},
		{"stock length", models.Product{Variants: pq.StringArray{"1L", "4L"}, Stock: pq.Int64Array{1}}, ErrVariantMismatch, nil},
		{"duplicate label", models.Product{Variants: pq.StringArray{"1L", " 1L"}}, ErrDuplicateVariant, nil},
		{"empty label", models.Product{Variants: pq.StringArray{"1L", " "}}, ErrUnknownVariant, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := tt.product
			err := NormalizeVariants(&product)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("got %v, want %v", err, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.prices, product.Prices); diff != "" {
				t.Errorf("prices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBrandAndViscosityOf(t *testing.T) {
	brands := map[string]string{
		"Shell Helix HX7 10W-40":  "SHELL",
		"LiQui Moly Optimal":      "LiQui",
		"Total Quartz 9000 0W-20": "Total",
		"Rosneft Maximum 5W-40":   "Rosneft",
	}
	for name, want := range brands {
		if got := BrandOf(name); got != want {
			t.Errorf("BrandOf(%q) = %q, want %q", name, got, want)
		}
	}

	if grade, ok := ViscosityOf("Kixx G1 15w-40"); !ok || grade != "15W-40" {
		t.Errorf("ViscosityOf = %q, %v", grade, ok)
	}
	if _, ok := ViscosityOf("Mannol Dexron III ATF"); ok {
		t.Error("ATF should have no SAE grade")
	}
}
