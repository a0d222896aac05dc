package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Item is one product line in a cart. Discount and total are derived from
// quantity and unit price and are refreshed on every quantity change.
type Item struct {
	productID   uuid.UUID
	quantity    int
	unitPrice   decimal.Decimal
	discount    decimal.Decimal
	totalAmount decimal.Decimal
}

func newItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	item := &Item{productID: productID, unitPrice: unitPrice}
	if err := item.UpdateQuantity(quantity); err != nil {
		return nil, err
	}
	return item, nil
}

func (i Item) ProductID() uuid.UUID         { return i.productID }
func (i Item) Quantity() int                { return i.quantity }
func (i Item) UnitPrice() decimal.Decimal   { return i.unitPrice }
func (i Item) Discount() decimal.Decimal    { return i.discount }
func (i Item) TotalAmount() decimal.Decimal { return i.totalAmount }

// UpdateQuantity sets a new quantity and re-derives discount and total.
// An out of range quantity leaves the item untouched.
func (i *Item) UpdateQuantity(quantity int) error {
	discount, err := DiscountFor(quantity)
	if err != nil {
		return err
	}
	i.quantity = quantity
	i.discount = discount
	i.totalAmount = ItemTotal(quantity, i.unitPrice, discount)
	return nil
}

// Cart is the aggregate root for a user's cart and its items.
// It is not safe for concurrent use.
type Cart struct {
	id          uuid.UUID
	userID      uuid.UUID
	date        time.Time
	items       []*Item
	totalAmount decimal.Decimal
	cancelled   bool
	version     int
}

// New returns an empty cart for the user dated at now.
func New(userID uuid.UUID, now time.Time) *Cart {
	return &Cart{
		id:          uuid.New(),
		userID:      userID,
		date:        now.UTC(),
		totalAmount: decimal.Zero,
	}
}

// RestoredItem carries persisted item values back into the aggregate.
type RestoredItem struct {
	ProductID   uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TotalAmount decimal.Decimal
}

// RestoreParams carries a persisted cart back into the aggregate.
type RestoreParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Items       []RestoredItem
	TotalAmount decimal.Decimal
	IsCancelled bool
	Version     int
}

// Restore rebuilds a cart from stored values as-is. Derived fields are not
// recomputed so Validate can still report totals that drifted in storage.
func Restore(p RestoreParams) *Cart {
	c := &Cart{
		id:          p.ID,
		userID:      p.UserID,
		date:        p.Date,
		totalAmount: p.TotalAmount,
		cancelled:   p.IsCancelled,
		version:     p.Version,
	}
	for _, it := range p.Items {
		c.items = append(c.items, &Item{
			productID:   it.ProductID,
			quantity:    it.Quantity,
			unitPrice:   it.UnitPrice,
			discount:    it.Discount,
			totalAmount: it.TotalAmount,
		})
	}
	return c
}

func (c *Cart) ID() uuid.UUID                { return c.id }
func (c *Cart) UserID() uuid.UUID            { return c.userID }
func (c *Cart) Date() time.Time              { return c.date }
func (c *Cart) TotalAmount() decimal.Decimal { return c.totalAmount }
func (c *Cart) IsCancelled() bool            { return c.cancelled }
func (c *Cart) Version() int                 { return c.version }
func (c *Cart) Len() int                     { return len(c.items) }

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	return out
}

// Item looks up the line for productID.
func (c *Cart) Item(productID uuid.UUID) (Item, bool) {
	if it := c.find(productID); it != nil {
		return *it, true
	}
	return Item{}, false
}

// AddProduct adds quantity units of productID. An existing line has the
// quantity merged into it and keeps its original unit price.
func (c *Cart) AddProduct(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	if _, err := DiscountFor(quantity); err != nil {
		return err
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msgProductIDRequired)
	}
	if !unitPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, msgUnitPricePositive)
	}

	if existing := c.find(productID); existing != nil {
		if err := existing.UpdateQuantity(existing.quantity + quantity); err != nil {
			return err
		}
		c.recalculate()
		return nil
	}

	item, err := newItem(productID, quantity, unitPrice)
	if err != nil {
		return err
	}
	c.items = append(c.items, item)
	c.recalculate()
	return nil
}

// RemoveProduct drops the line for productID. It reports whether a line
// was removed; an unknown product is a no-op.
func (c *Cart) RemoveProduct(productID uuid.UUID) bool {
	for idx, it := range c.items {
		if it.productID == productID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			c.recalculate()
			return true
		}
	}
	return false
}

// UpdateItemQuantity replaces the quantity of an existing line.
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, quantity int) error {
	if _, err := DiscountFor(quantity); err != nil {
		return err
	}
	item := c.find(productID)
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}
	c.recalculate()
	return nil
}

// Cancel marks the cart cancelled. It returns false if it already was.
func (c *Cart) Cancel() bool {
	if c.cancelled {
		return false
	}
	c.cancelled = true
	return true
}

// replaceContents swaps user and lines for those of draft.
func (c *Cart) replaceContents(draft *Cart) {
	c.userID = draft.userID
	c.items = draft.items
	c.recalculate()
}

func (c *Cart) setVersion(version int) {
	c.version = version
}

func (c *Cart) find(productID uuid.UUID) *Item {
	for _, it := range c.items {
		if it.productID == productID {
			return it
		}
	}
	return nil
}

func (c *Cart) recalculate() {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.totalAmount)
	}
	c.totalAmount = total
}
