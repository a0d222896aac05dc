package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// PriceCache is the read-through cache in front of catalog prices.
type PriceCache interface {
	GetPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, bool, error)
	SetPrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// PriceLookup resolves unit prices for carts from the catalog. Cache errors
// are logged and fall through to the database.
type PriceLookup struct {
	repo  productFinder
	cache PriceCache
	logg  *logger.Logger
}

// NewPriceLookup builds a lookup over repo. cache may be nil.
func NewPriceLookup(repo productFinder, cache PriceCache, logg *logger.Logger) (*PriceLookup, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &PriceLookup{repo: repo, cache: cache, logg: logg}, nil
}

// UnitPrice returns the current price of productID.
func (p *PriceLookup) UnitPrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	if productID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	logCtx := p.logg.WithProductID(ctx, productID.String())

	if p.cache != nil {
		price, hit, err := p.cache.GetPrice(ctx, productID)
		if err != nil {
			p.logg.Warn(logCtx, fmt.Sprintf("price cache read failed: %v", err))
		} else if hit {
			return price, nil
		}
	}

	product, err := p.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{
				"productId": productID,
			})
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product price")
	}

	if p.cache != nil {
		if err := p.cache.SetPrice(ctx, productID, product.Price); err != nil {
			p.logg.Warn(logCtx, fmt.Sprintf("price cache write failed: %v", err))
		}
	}
	return product.Price, nil
}
