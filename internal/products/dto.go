package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      RatingDTO       `json:"rating"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RatingDTO exposes the aggregated customer rating.
type RatingDTO struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}

// DeleteProductResult acknowledges a deleted product.
type DeleteProductResult struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

// ProductListDTO is one page of products.
type ProductListDTO = pagination.Page[ProductDTO]

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Price:       product.Price,
		Description: product.Description,
		Category:    product.Category,
		Image:       product.Image,
		Rating: RatingDTO{
			Rate:  product.Rating.Rate,
			Count: product.Rating.Count,
		},
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

func newProductListDTO(rows []models.Product, total int64, params pagination.Params) *ProductListDTO {
	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewProductDTO(&rows[i]))
	}
	page := pagination.NewPage(items, total, params)
	return &page
}
