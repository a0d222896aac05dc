package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const (
	// MinQuantity is the smallest quantity a line item may hold.
	MinQuantity = 1
	// MaxQuantity is the largest quantity of one product a cart may hold.
	MaxQuantity = 20

	tenPercentTierFrom    = 4
	twentyPercentTierFrom = 10
)

var (
	discountTenPercent    = decimal.New(10, -2)
	discountTwentyPercent = decimal.New(20, -2)

	// MaxDiscount is the highest discount any tier grants.
	MaxDiscount = discountTwentyPercent
)

// DiscountFor returns the discount fraction for a quantity:
// 1-3 pays full price, 4-9 gets 10% off, 10-20 gets 20% off.
func DiscountFor(quantity int) (decimal.Decimal, error) {
	switch {
	case quantity < MinQuantity || quantity > MaxQuantity:
		return decimal.Zero, invalidQuantity(quantity)
	case quantity >= twentyPercentTierFrom:
		return discountTwentyPercent, nil
	case quantity >= tenPercentTierFrom:
		return discountTenPercent, nil
	default:
		return decimal.Zero, nil
	}
}

// ItemTotal computes quantity * unitPrice * (1 - discount) without rounding.
func ItemTotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(1).Sub(discount))
}

func invalidQuantity(quantity int) error {
	return pkgerrors.New(
		pkgerrors.CodeInvalidQuantity,
		fmt.Sprintf("quantity %d is outside the allowed range %d-%d", quantity, MinQuantity, MaxQuantity),
	).WithDetails(map[string]any{
		"quantity": quantity,
		"min":      MinQuantity,
		"max":      MaxQuantity,
	})
}
