// internal/tests/api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/middleware"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/router"
	"github.com/fortexuz/fortex-backend/internal/services"
)

const (
	testSession  = "test-session-0001"
	testPasscode = "fortex-admin"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   *errorBody             `json:"error"`
	Meta    map[string]interface{} `json:"meta"`
}

type APITestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *repository.Store
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(i18n.Initialize())
}

func (s *APITestSuite) SetupTest() {
	cfg := &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{AllowedOrigins: []string{"*"}, RateLimit: false},
		Storage:     config.StorageConfig{Driver: "memory", DataDir: s.T().TempDir(), SeedCatalog: true},
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1, RefreshTokenTTL: 24, AdminTokenTTL: 1},
		Admin:       config.AdminConfig{Passcode: testPasscode},
		Loyalty:     config.LoyaltyConfig{UZSPerPoint: 10000},
		I18n:        config.I18nConfig{DefaultLocale: "uz"},
	}

	s.store = repository.NewMemoryStore(true)
	r, err := router.Initialize(s.store, services.NopNotifier{}, cfg)
	s.Require().NoError(err)
	s.router = r
}

type request struct {
	method  string
	path    string
	body    interface{}
	token   string
	headers map[string]string
}

func (s *APITestSuite) do(req request) (*httptest.ResponseRecorder, *envelope) {
	var body *bytes.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		s.Require().NoError(err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.method, req.path, body)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(middleware.SessionHeader, testSession)
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httpReq)

	env := &envelope{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), env), w.Body.String())
	}
	return w, env
}

func (s *APITestSuite) decode(env *envelope, dest interface{}) {
	s.Require().NoError(json.Unmarshal(env.Data, dest))
}

func (s *APITestSuite) adminToken() string {
	w, env := s.do(request{method: http.MethodPost, path: "/v1/auth/admin", body: map[string]string{"passcode": testPasscode}})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	s.decode(env, &data)
	s.Require().NotEmpty(data.Token)
	return data.Token
}

func (s *APITestSuite) TestHealth() {
	w, _ := s.do(request{method: http.MethodGet, path: "/health"})
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestSessionIDIsIssued() {
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(w.Header().Get(middleware.SessionHeader), "sess_"))

	_, env := s.do(request{method: http.MethodGet, path: "/v1/cart"})
	s.True(env.Success)
}

func (s *APITestSuite) TestCatalogListing() {
	w, env := s.do(request{method: http.MethodGet, path: "/v1/products?category=Motor%20Oil&limit=5"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("9", w.Header().Get("X-Total-Count"))

	var products []struct {
		ID string `json:"id"`
	}
	s.decode(env, &products)
	s.Len(products, 5)

	w, env = s.do(request{method: http.MethodGet, path: "/v1/products/prod_1/price?variant=5L"})
	s.Require().Equal(http.StatusOK, w.Code)
	var price struct {
		Price int64 `json:"price"`
	}
	s.decode(env, &price)
	s.Equal(int64(425000), price.Price)

	w, env = s.do(request{method: http.MethodGet, path: "/v1/products/prod_404", headers: map[string]string{"Accept-Language": "en-US,en;q=0.9"}})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Product not found", env.Error.Message)
}

func (s *APITestSuite) TestCheckoutFlow() {
	for _, item := range []map[string]string{
		{"product_id": "prod_1", "variant": "4L"},
		{"product_id": "prod_1", "variant": "4L"},
		{"product_id": "prod_13"},
	} {
		w, _ := s.do(request{method: http.MethodPost, path: "/v1/cart/items", body: item})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	_, env := s.do(request{method: http.MethodGet, path: "/v1/cart"})
	var cart struct {
		Total int64 `json:"total"`
		Units int   `json:"units"`
	}
	s.decode(env, &cart)
	s.Equal(int64(685000), cart.Total)
	s.Equal(3, cart.Units)

	w, env := s.do(request{method: http.MethodPost, path: "/v1/orders", body: map[string]string{
		"customer_name":  "Aziz",
		"phone":          "+998 90 123 45 67",
		"payment_method": "cash",
	}})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var placed struct {
		Order struct {
			ID          string `json:"id"`
			Status      string `json:"status"`
			TotalAmount int64  `json:"totalAmount"`
		} `json:"order"`
	}
	s.decode(env, &placed)
	s.True(strings.HasPrefix(placed.Order.ID, "ORD-"))
	s.Equal("Pending", placed.Order.Status)
	s.Equal(int64(685000), placed.Order.TotalAmount)

	// The cart was cleared and the catalog counted the sale
	_, env = s.do(request{method: http.MethodGet, path: "/v1/cart"})
	s.decode(env, &cart)
	s.Zero(cart.Units)

	_, env = s.do(request{method: http.MethodGet, path: "/v1/products/prod_1"})
	var product struct {
		Sales int64 `json:"sales"`
	}
	s.decode(env, &product)
	s.Equal(int64(2), product.Sales)

	// Staff move the order along
	token := s.adminToken()
	w, env = s.do(request{method: http.MethodPut, path: "/v1/admin/orders/" + placed.Order.ID + "/status", token: token, body: map[string]string{"status": "Ready"}})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(env, &placed)
	s.Equal("Ready", placed.Order.Status)

	w, _ = s.do(request{method: http.MethodPut, path: "/v1/admin/orders/" + placed.Order.ID + "/status", token: token, body: map[string]string{"status": "Shipped"}})
	s.Equal(http.StatusBadRequest, w.Code)

	w, env = s.do(request{method: http.MethodGet, path: "/v1/admin/orders?phone=901234567", token: token})
	s.Require().Equal(http.StatusOK, w.Code)
	var orders []map[string]interface{}
	s.decode(env, &orders)
	s.Len(orders, 1)
}

func (s *APITestSuite) TestCheckoutWithEmptyCart() {
	w, env := s.do(request{method: http.MethodPost, path: "/v1/orders", body: map[string]string{
		"customer_name":  "Aziz",
		"phone":          "901234567",
		"payment_method": "cash",
	}})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("CART_EMPTY", env.Error.Code)

	w, _ = s.do(request{method: http.MethodPost, path: "/v1/orders", body: map[string]string{
		"customer_name":  "Aziz",
		"phone":          "12",
		"payment_method": "bitcoin",
	}})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestRecommendations() {
	w, env := s.do(request{method: http.MethodGet, path: "/v1/recommendations?brand=Chevrolet&model=Cobalt&lang=en"})
	s.Require().Equal(http.StatusOK, w.Code)

	var data struct {
		Message        string `json:"message"`
		Recommendation struct {
			Viscosity string `json:"viscosity"`
			Products  []struct {
				ID string `json:"id"`
			} `json:"products"`
		} `json:"recommendation"`
	}
	s.decode(env, &data)
	s.Equal("5W-30 oil is recommended for your car", data.Message)
	s.Equal("5W-30", data.Recommendation.Viscosity)
	s.Require().Len(data.Recommendation.Products, 3)
	s.Equal("prod_3", data.Recommendation.Products[0].ID)

	_, env = s.do(request{method: http.MethodGet, path: "/v1/recommendations?brand=Chevrolet&model=Unknown&lang=en"})
	s.decode(env, &data)
	s.Equal("No matching oil found", data.Message)
	s.Empty(data.Recommendation.Products)

	w, _ = s.do(request{method: http.MethodGet, path: "/v1/recommendations?brand=Chevrolet"})
	s.Equal(http.StatusBadRequest, w.Code)

	w, env = s.do(request{method: http.MethodGet, path: "/v1/recommendations/brands/Chevrolet/models"})
	s.Require().Equal(http.StatusOK, w.Code)
	var models struct {
		Models []services.VehicleModel `json:"models"`
	}
	s.decode(env, &models)
	s.NotEmpty(models.Models)
}

func (s *APITestSuite) TestLanguagePreference() {
	w, env := s.do(request{method: http.MethodPut, path: "/v1/preferences/language", body: map[string]string{"language": "RU"}})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Message  string `json:"message"`
		Language string `json:"language"`
	}
	s.decode(env, &updated)
	s.Equal("ru", updated.Language)
	s.Equal(i18n.T("ru", i18n.KeyLanguageUpdated), updated.Message)

	// Later requests in the session answer in Russian
	_, env = s.do(request{method: http.MethodGet, path: "/v1/products/prod_404", headers: map[string]string{"Accept-Language": "en"}})
	s.Equal(i18n.T("ru", i18n.KeyProductNotFound), env.Error.Message)

	w, _ = s.do(request{method: http.MethodPut, path: "/v1/preferences/language", body: map[string]string{"language": "de"}})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestCustomerAccount() {
	w, env := s.do(request{method: http.MethodPost, path: "/v1/auth/register", body: map[string]string{
		"name":     "Aziz",
		"phone":    "901234567",
		"password": "secret1",
	}})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var auth struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	s.decode(env, &auth)
	s.NotEmpty(auth.RefreshToken)

	w, _ = s.do(request{method: http.MethodPost, path: "/v1/auth/register", body: map[string]string{
		"name":     "Aziz",
		"phone":    "+998901234567",
		"password": "secret1",
	}})
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.do(request{method: http.MethodPost, path: "/v1/auth/login", body: map[string]string{"phone": "901234567", "password": "nope12"}})
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(request{method: http.MethodGet, path: "/v1/auth/me", token: auth.Token})
	s.Equal(http.StatusOK, w.Code)

	// A refresh token cannot be used as a bearer token
	w, _ = s.do(request{method: http.MethodGet, path: "/v1/auth/me", token: auth.RefreshToken})
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(request{method: http.MethodGet, path: "/v1/admin/stats", token: auth.Token})
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(request{method: http.MethodGet, path: "/v1/orders/mine", token: auth.Token})
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestAdminLogin() {
	w, _ := s.do(request{method: http.MethodGet, path: "/v1/admin/stats"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(request{method: http.MethodPost, path: "/v1/auth/admin", body: map[string]string{"passcode": "guess"}})
	s.Equal(http.StatusUnauthorized, w.Code)

	token := s.adminToken()
	w, env := s.do(request{method: http.MethodGet, path: "/v1/admin/stats", token: token})
	s.Require().Equal(http.StatusOK, w.Code)

	var data struct {
		Stats struct {
			TotalProducts int `json:"totalProducts"`
		} `json:"stats"`
	}
	s.decode(env, &data)
	s.Equal(13, data.Stats.TotalProducts)

	w, _ = s.do(request{method: http.MethodGet, path: "/v1/admin/export", token: token})
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), ".xlsx")
}

func (s *APITestSuite) TestProductImageUpload() {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", "fortex.png")
	s.Require().NoError(err)
	_, err = part.Write(append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...))
	s.Require().NoError(err)
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/products/prod_1/image", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.adminToken())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	var data struct {
		Product struct {
			ImageURL string `json:"image_url"`
		} `json:"product"`
	}
	s.decode(&env, &data)
	s.True(strings.HasPrefix(data.Product.ImageURL, "/uploads/products/"), data.Product.ImageURL)

	w, _ = s.do(request{method: http.MethodGet, path: data.Product.ImageURL})
	s.Equal(http.StatusOK, w.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
