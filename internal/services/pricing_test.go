package services

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/fortexuz/fortex-backend/internal/models"
)

func TestParseVolume(t *testing.T) {
	cases := map[string]string{
		"4L":    "4",
		"0.8 L": "0.8",
		"20L":   "20",
		"1.5L":  "1.5",
		"L":     "0",
		"":      "0",
	}
	for label, want := range cases {
		assert.Equal(t, want, ParseVolume(label).String(), label)
	}
}

func TestResolvePrice(t *testing.T) {
	product := &models.Product{
		Variants: pq.StringArray{"1L", "4L", "5L", "0.5L", "L"},
		Prices:   pq.Int64Array{85000, 320000, 0, 0, 0},
	}

	tests := []struct {
		name    string
		variant string
		want    int64
	}{
		{"explicit base price", "1L", 85000},
		{"explicit price wins over volume", "4L", 320000},
		{"derived from base volume", "5L", 425000},
		{"derived below base volume", "0.5L", 42500},
		{"label without volume", "L", 0},
		{"unknown variant", "3L", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePrice(product, tt.variant))
		})
	}
}

func TestResolvePriceRoundsHalfUp(t *testing.T) {
	product := &models.Product{
		Variants: pq.StringArray{"3L", "1L", "2L"},
		Prices:   pq.Int64Array{100000},
	}

	// 100000 * 1 / 3 = 33333.33
	assert.Equal(t, int64(33333), ResolvePrice(product, "1L"))
	// 100000 * 2 / 3 = 66666.67
	assert.Equal(t, int64(66667), ResolvePrice(product, "2L"))
}

func TestResolvePriceWithoutBase(t *testing.T) {
	product := &models.Product{
		Variants: pq.StringArray{"1L", "4L"},
		Prices:   pq.Int64Array{0, 0},
	}
	assert.Zero(t, ResolvePrice(product, "4L"))

	product.Prices = nil
	assert.Zero(t, ResolvePrice(product, "1L"))
}
