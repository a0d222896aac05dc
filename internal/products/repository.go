package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// Repository wires together the product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// productListQuery narrows and orders a product listing.
type productListQuery struct {
	Page    pagination.Params
	Order   []clause.OrderByColumn
	Filters []Filter
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID and reports whether it existed.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListProducts returns one page of products plus the total number of matches.
func (r *Repository) ListProducts(ctx context.Context, query productListQuery) ([]models.Product, int64, error) {
	scope := applyFilters(query.Filters)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(scope).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listing := r.db.WithContext(ctx).Scopes(scope)
	if len(query.Order) == 0 {
		listing = listing.Order("title ASC")
	}
	for _, column := range query.Order {
		listing = listing.Order(column)
	}

	var rows []models.Product
	if err := listing.
		Offset(query.Page.Offset()).
		Limit(query.Page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListCategories returns the distinct categories in alphabetical order.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
