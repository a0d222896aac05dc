package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog listing that carts price against.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null"`
	Description string          `gorm:"column:description;not null"`
	Category    string          `gorm:"column:category;not null;index"`
	Image       string          `gorm:"column:image"`
	Rating      ProductRating   `gorm:"embedded;embeddedPrefix:rating_"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductRating is stored inline as rating_rate and rating_count.
type ProductRating struct {
	Rate  decimal.Decimal `gorm:"column:rate;type:numeric(3,2);not null;default:0"`
	Count int             `gorm:"column:count;not null;default:0"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
