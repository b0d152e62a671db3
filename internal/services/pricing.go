// internal/services/pricing.go
package services

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/fortexuz/fortex-backend/internal/models"
)

var volumePattern = regexp.MustCompile(`(\d+(\.\d+)?)`)

// ParseVolume reads the leading numeric portion of a variant label, so
// "4L" is 4 and "0.8 L" is 0.8. Labels without a number parse to zero.
func ParseVolume(label string) decimal.Decimal {
	match := volumePattern.FindString(label)
	if match == "" {
		return decimal.Zero
	}
	volume, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return volume
}

// ResolvePrice returns the unit price of a variant. An explicit non-zero
// price wins; otherwise the price is scaled from the first variant by volume.
// A zero base price, a zero volume or an unknown label all resolve to 0.
func ResolvePrice(product *models.Product, variant string) int64 {
	index := product.VariantIndex(variant)
	if index < 0 {
		return 0
	}
	if index < len(product.Prices) && product.Prices[index] > 0 {
		return product.Prices[index]
	}

	base := product.BasePrice()
	if base <= 0 || len(product.Variants) == 0 {
		return 0
	}

	baseVolume := ParseVolume(product.Variants[0])
	targetVolume := ParseVolume(variant)
	if baseVolume.IsZero() || targetVolume.IsZero() {
		return 0
	}

	price := decimal.NewFromInt(base).Mul(targetVolume).DivRound(baseVolume, 8).Round(0)
	return price.IntPart()
}
