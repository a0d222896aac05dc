package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// CartDTO is the API shape of a cart.
type CartDTO struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Date        time.Time       `json:"date"`
	Items       []CartItemDTO   `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IsCancelled bool            `json:"isCancelled"`
	Version     int             `json:"version"`
}

// CartItemDTO is the API shape of a cart line.
type CartItemDTO struct {
	ProductID   uuid.UUID       `json:"productId"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DeleteCartResult acknowledges a deleted cart.
type DeleteCartResult struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

// CartListDTO is one page of carts.
type CartListDTO = pagination.Page[CartDTO]

func toDTO(c *Cart) *CartDTO {
	items := make([]CartItemDTO, 0, c.Len())
	for _, it := range c.Items() {
		items = append(items, CartItemDTO{
			ProductID:   it.ProductID(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			Discount:    it.Discount(),
			TotalAmount: it.TotalAmount(),
		})
	}
	return &CartDTO{
		ID:          c.ID(),
		UserID:      c.UserID(),
		Date:        c.Date(),
		Items:       items,
		TotalAmount: c.TotalAmount(),
		IsCancelled: c.IsCancelled(),
		Version:     c.Version(),
	}
}

func toModel(c *Cart) *models.Cart {
	record := &models.Cart{
		ID:          c.ID(),
		UserID:      c.UserID(),
		Date:        c.Date(),
		TotalAmount: c.TotalAmount(),
		IsCancelled: c.IsCancelled(),
		Version:     c.Version(),
	}
	for idx, it := range c.Items() {
		record.Items = append(record.Items, models.CartItem{
			CartID:      c.ID(),
			Position:    idx,
			ProductID:   it.ProductID(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			Discount:    it.Discount(),
			TotalAmount: it.TotalAmount(),
		})
	}
	return record
}

func fromModel(record *models.Cart) *Cart {
	params := RestoreParams{
		ID:          record.ID,
		UserID:      record.UserID,
		Date:        record.Date.UTC(),
		TotalAmount: record.TotalAmount,
		IsCancelled: record.IsCancelled,
		Version:     record.Version,
	}
	for _, it := range record.Items {
		params.Items = append(params.Items, RestoredItem{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TotalAmount: it.TotalAmount,
		})
	}
	return Restore(params)
}
