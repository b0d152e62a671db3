package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParamsDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/v1/products?page=0&limit=500&sort=price-asc&category=ATF", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "price-asc", params.Sort)
	assert.Equal(t, "ATF", params.Category)
}

func TestPageOf(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, PageOf(items, PaginationParams{Page: 1, Limit: 2}))
	assert.Equal(t, []int{5}, PageOf(items, PaginationParams{Page: 3, Limit: 2}))
	assert.Equal(t, []int{}, PageOf(items, PaginationParams{Page: 4, Limit: 2}))

	result := CreatePaginationResult(PageOf(items, PaginationParams{Page: 1, Limit: 2}), int64(len(items)), PaginationParams{Page: 1, Limit: 2})
	assert.Equal(t, 3, result.TotalPages)
}
