package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem stores one product line of a Cart. Position keeps insertion order.
type CartItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID      uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	Position    int             `gorm:"column:position;not null;default:0"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2);not null"`
	Discount    decimal.Decimal `gorm:"column:discount;type:numeric(5,4);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,4);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (CartItem) TableName() string { return "cart_items" }

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
