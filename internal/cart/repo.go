package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// ErrVersionConflict is returned by Save when the stored version moved on.
var ErrVersionConflict = errors.New("cart version conflict")

// Repository exposes persistence operations for carts and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the cart and its items at version 1.
func (r *Repository) Create(ctx context.Context, record *models.Cart) error {
	record.Version = 1
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return err
	}
	return r.insertItems(ctx, record.ID, record.Items)
}

// FindByID loads a cart with its items in insertion order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns one page of carts plus the total number of matches.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Cart, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if query.UserID != nil {
			db = db.Where("user_id = ?", *query.UserID)
		}
		if query.IsCancelled != nil {
			db = db.Where("is_cancelled = ?", *query.IsCancelled)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Scopes(filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listing := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Items", orderedItems)
	if len(query.Order) == 0 {
		listing = listing.Order("date DESC")
	}
	for _, column := range query.Order {
		listing = listing.Order(column)
	}

	var rows []models.Cart
	if err := listing.
		Offset(query.Page.Offset()).
		Limit(query.Page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Save writes the cart if its stored version still equals expectedVersion,
// bumps the version and replaces the items.
func (r *Repository) Save(ctx context.Context, record *models.Cart, expectedVersion int) error {
	next := expectedVersion + 1
	result := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Updates(map[string]any{
			"user_id":      record.UserID,
			"total_amount": record.TotalAmount,
			"is_cancelled": record.IsCancelled,
			"version":      next,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	record.Version = next

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", record.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.insertItems(ctx, record.ID, record.Items)
}

// Delete removes the cart and its items. It reports whether a cart existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", id).
		Delete(&models.CartItem{}).Error; err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Cart{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) insertItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].CartID = cartID
		items[i].Position = i
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
