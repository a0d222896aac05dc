package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

var orderColumns = map[string]string{
	"date":        "date",
	"totalamount": "total_amount",
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations on top of the pricing engine.
type Service interface {
	CreateCart(ctx context.Context, input CreateCartInput) (*CartDTO, error)
	GetCart(ctx context.Context, id uuid.UUID) (*CartDTO, error)
	ListCarts(ctx context.Context, input ListCartsInput) (*CartListDTO, error)
	UpdateCart(ctx context.Context, id uuid.UUID, input UpdateCartInput) (*CartDTO, error)
	DeleteCart(ctx context.Context, id uuid.UUID) (*DeleteCartResult, error)
	AddProduct(ctx context.Context, cartID uuid.UUID, input ItemInput) (*CartDTO, error)
	RemoveProduct(ctx context.Context, cartID, productID uuid.UUID) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*CartDTO, error)
	CancelCart(ctx context.Context, id uuid.UUID) (*CartDTO, error)
}

// CreateCartInput is the payload for a new cart.
type CreateCartInput struct {
	UserID uuid.UUID
	Items  []ItemInput
}

// UpdateCartInput replaces the owner and lines of a cart.
type UpdateCartInput struct {
	UserID uuid.UUID
	Items  []ItemInput
}

// ItemInput requests quantity units of a product. Prices always come from
// the catalog.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// ListCartsInput selects a page of carts.
type ListCartsInput struct {
	Pagination  pagination.Params
	UserID      *uuid.UUID
	IsCancelled *bool
}

type service struct {
	repo     CartRepository
	tx       txRunner
	prices   PriceLookup
	notifier EventNotifier
	metrics  *metrics.CartMetrics
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, prices PriceLookup, notifier EventNotifier, cartMetrics *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price lookup required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("event notifier required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		prices:   prices,
		notifier: notifier,
		metrics:  cartMetrics,
		now:      time.Now,
	}, nil
}

func (s *service) CreateCart(ctx context.Context, input CreateCartInput) (dto *CartDTO, err error) {
	defer func() { s.metrics.ObserveOperation("create", err) }()

	c := New(input.UserID, s.now())
	if err := s.addItems(ctx, c, input.Items); err != nil {
		return nil, err
	}
	if err := c.Validate().Err(); err != nil {
		return nil, err
	}

	record := toModel(c)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, record)
	}); err != nil {
		return nil, pkgerrors.FromDB(err, "create cart")
	}
	c.setVersion(record.Version)

	s.metrics.ObserveTotal(c.TotalAmount())
	s.notifier.CartCreated(ctx, c)
	return toDTO(c), nil
}

func (s *service) GetCart(ctx context.Context, id uuid.UUID) (*CartDTO, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

func (s *service) ListCarts(ctx context.Context, input ListCartsInput) (*CartListDTO, error) {
	params := input.Pagination.Normalize()
	if err := params.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	order, err := pagination.ParseOrderBy(params.OrderBy, orderColumns)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	rows, total, err := s.repo.List(ctx, ListQuery{
		Page:        params,
		Order:       order,
		UserID:      input.UserID,
		IsCancelled: input.IsCancelled,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}

	carts := make([]CartDTO, 0, len(rows))
	for i := range rows {
		carts = append(carts, *toDTO(fromModel(&rows[i])))
	}
	page := pagination.NewPage(carts, total, params)
	return &page, nil
}

func (s *service) UpdateCart(ctx context.Context, id uuid.UUID, input UpdateCartInput) (dto *CartDTO, err error) {
	defer func() { s.metrics.ObserveOperation("update", err) }()

	c, err := s.mutate(ctx, id, func(c *Cart) (bool, error) {
		draft := New(input.UserID, c.Date())
		if err := s.addItems(ctx, draft, input.Items); err != nil {
			return false, err
		}
		c.replaceContents(draft)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.CartModified(ctx, c)
	return toDTO(c), nil
}

func (s *service) DeleteCart(ctx context.Context, id uuid.UUID) (result *DeleteCartResult, err error) {
	defer func() { s.metrics.ObserveOperation("delete", err) }()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var deleted bool
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		deleted, txErr = s.repo.WithTx(tx).Delete(ctx, id)
		return txErr
	}); err != nil {
		return nil, pkgerrors.FromDB(err, "delete cart")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}

	s.notifier.CartCancelled(ctx, c)
	return &DeleteCartResult{
		ID:      id,
		Success: true,
		Message: "Cart deleted successfully",
	}, nil
}

func (s *service) AddProduct(ctx context.Context, cartID uuid.UUID, input ItemInput) (dto *CartDTO, err error) {
	defer func() { s.metrics.ObserveOperation("add_product", err) }()

	c, err := s.mutate(ctx, cartID, func(c *Cart) (bool, error) {
		if err := s.addItems(ctx, c, []ItemInput{input}); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.CartModified(ctx, c)
	return toDTO(c), nil
}

func (s *service) RemoveProduct(ctx context.Context, cartID, productID uuid.UUID) (dto *CartDTO, err error) {
	defer func() { s.metrics.ObserveOperation("remove_product", err) }()

	removed := false
	c, err := s.mutate(ctx, cartID, func(c *Cart) (bool, error) {
		removed = c.RemoveProduct(productID)
		return removed, nil
	})
	if err != nil {
		return nil, err
	}
	if removed {
		s.notifier.ItemCancelled(ctx, c, productID)
		s.notifier.CartModified(ctx, c)
	}
	return toDTO(c), nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (dto *CartDTO, err error) {
	defer func() { s.metrics.ObserveOperation("update_quantity", err) }()

	c, err := s.mutate(ctx, cartID, func(c *Cart) (bool, error) {
		if err := c.UpdateItemQuantity(productID, quantity); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.CartModified(ctx, c)
	return toDTO(c), nil
}

func (s *service) CancelCart(ctx context.Context, id uuid.UUID) (dto *CartDTO, err error) {
	defer func() { s.metrics.ObserveOperation("cancel", err) }()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Cancel() {
		return toDTO(c), nil
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.notifier.CartCancelled(ctx, c)
	return toDTO(c), nil
}

// mutate loads an active cart, applies fn and persists the result when fn
// reports a change. Nothing is written if fn or validation fails.
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(c *Cart) (bool, error)) (*Cart, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsCancelled() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is cancelled")
	}

	changed, err := fn(c)
	if err != nil {
		return nil, err
	}
	if !changed {
		return c, nil
	}
	if err := c.Validate().Err(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) save(ctx context.Context, c *Cart) error {
	record := toModel(c)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, record, c.Version())
	})
	if errors.Is(err, ErrVersionConflict) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart was modified concurrently")
	}
	if err != nil {
		return pkgerrors.FromDB(err, "save cart")
	}
	c.setVersion(record.Version)
	s.metrics.ObserveTotal(c.TotalAmount())
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Cart, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return fromModel(record), nil
}

func (s *service) addItems(ctx context.Context, c *Cart, items []ItemInput) error {
	for _, item := range items {
		if _, err := DiscountFor(item.Quantity); err != nil {
			return err
		}
		price, err := s.prices.UnitPrice(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := c.AddProduct(item.ProductID, item.Quantity, price); err != nil {
			return err
		}
	}
	return nil
}
