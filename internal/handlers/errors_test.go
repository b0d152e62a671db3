package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/services"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"taken phone", services.ErrPhoneTaken, http.StatusConflict, "CONFLICT"},
		{"wrapped duplicate", fmt.Errorf("create product: %w", repository.ErrDuplicate), http.StatusConflict, "CONFLICT"},
		{"admin login off", services.ErrAdminLoginDisabled, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"payments off", services.ErrPaymentsDisabled, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"empty cart", services.ErrEmptyCart, http.StatusBadRequest, "CART_EMPTY"},
		{"unknown product", services.ErrProductNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"anything else", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}
