package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, record *models.Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	List(ctx context.Context, query ListQuery) ([]models.Cart, int64, error)
	Save(ctx context.Context, record *models.Cart, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ListQuery narrows and orders a cart listing.
type ListQuery struct {
	Page        pagination.Params
	Order       []clause.OrderByColumn
	UserID      *uuid.UUID
	IsCancelled *bool
}

// PriceLookup resolves the current catalog price of a product.
type PriceLookup interface {
	UnitPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// EventNotifier publishes cart lifecycle notifications. Delivery is best
// effort and never fails the calling operation.
type EventNotifier interface {
	CartCreated(ctx context.Context, c *Cart)
	CartModified(ctx context.Context, c *Cart)
	CartCancelled(ctx context.Context, c *Cart)
	ItemCancelled(ctx context.Context, c *Cart, productID uuid.UUID)
}
