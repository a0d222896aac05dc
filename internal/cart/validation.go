package cart

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const (
	msgUserIDRequired     = "UserId must be a value."
	msgDateRequired       = "Date is required."
	msgItemsRequired      = "Cart must contain at least one item."
	msgTotalNegative      = "Total amount cannot be negative."
	msgAboveMaxIdentical  = "It's not possible to sell above 20 identical items."
	msgDiscountBelowTier  = "Purchases below 4 items cannot have a discount."
	msgProductIDRequired  = "ProductId must be a value."
	msgQuantityRange      = "Quantity must be between 1 and 20."
	msgUnitPricePositive  = "Unit price must be greater than zero."
	msgDiscountRange      = "Discount must be between 0% and 20%."
	msgTotalAmountInvalid = "Total amount calculation is incorrect."
)

// Violation is a single failed rule, addressed by its JSON field path.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects every violation found on a cart.
type ValidationResult struct {
	Violations []Violation
}

// IsValid reports whether no rule failed.
func (r ValidationResult) IsValid() bool {
	return len(r.Violations) == 0
}

// Err converts the result into a validation error carrying the violations.
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "cart validation failed").WithDetails(map[string]any{
		"violations": r.Violations,
	})
}

// Validate runs the cart rules against c.
func (c *Cart) Validate() ValidationResult {
	return ValidationResult{Violations: Validate(c)}
}

// Validate checks the cart and every item, returning all violations.
func Validate(c *Cart) []Violation {
	var out []Violation
	if c.userID == uuid.Nil {
		out = append(out, Violation{Field: "userId", Message: msgUserIDRequired})
	}
	if c.date.IsZero() {
		out = append(out, Violation{Field: "date", Message: msgDateRequired})
	}
	if len(c.items) == 0 {
		out = append(out, Violation{Field: "items", Message: msgItemsRequired})
	}

	for idx, it := range c.items {
		out = append(out, ValidateItem(*it, fmt.Sprintf("items[%d].", idx))...)
	}

	if c.totalAmount.IsNegative() {
		out = append(out, Violation{Field: "totalAmount", Message: msgTotalNegative})
	}

	for idx, it := range c.items {
		if it.quantity > MaxQuantity {
			out = append(out, Violation{Field: fmt.Sprintf("items[%d].quantity", idx), Message: msgAboveMaxIdentical})
		}
		if it.quantity < tenPercentTierFrom && !it.discount.IsZero() {
			out = append(out, Violation{Field: fmt.Sprintf("items[%d].discount", idx), Message: msgDiscountBelowTier})
		}
	}
	return out
}

// ValidateItem checks a single line. prefix is prepended to field names.
func ValidateItem(item Item, prefix string) []Violation {
	var out []Violation
	if item.productID == uuid.Nil {
		out = append(out, Violation{Field: prefix + "productId", Message: msgProductIDRequired})
	}
	if item.quantity < MinQuantity || item.quantity > MaxQuantity {
		out = append(out, Violation{Field: prefix + "quantity", Message: msgQuantityRange})
	}
	if !item.unitPrice.IsPositive() {
		out = append(out, Violation{Field: prefix + "unitPrice", Message: msgUnitPricePositive})
	}
	if item.discount.IsNegative() || item.discount.GreaterThan(MaxDiscount) {
		out = append(out, Violation{Field: prefix + "discount", Message: msgDiscountRange})
	}
	expected := ItemTotal(item.quantity, item.unitPrice, item.discount)
	if item.totalAmount.IsNegative() || !item.totalAmount.Equal(expected) {
		out = append(out, Violation{Field: prefix + "totalAmount", Message: msgTotalAmountInvalid})
	}
	return out
}
