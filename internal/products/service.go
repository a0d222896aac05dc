package product

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// Service exposes catalog management and browsing operations.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*DeleteProductResult, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string, params pagination.Params) (*ProductListDTO, error)
}

// ProductInput holds the full set of writable product fields.
type ProductInput struct {
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	Rate        decimal.Decimal
	Count       int
}

// ListProductsInput captures paging and raw query-string filters.
type ListProductsInput struct {
	Pagination pagination.Params
	Filters    map[string]string
}

// Violation is a single failed product rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type priceInvalidator interface {
	InvalidatePrice(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    priceInvalidator
	logg     *logger.Logger
}

// NewService constructs a product service instance. cache may be nil when
// prices are not cached.
func NewService(repo *Repository, dbClient *db.Client, cache priceInvalidator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cache:    cache,
		logg:     logg,
	}, nil
}

// CreateProduct validates and inserts a new catalog product.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	input = normalizeInput(input)
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product := &models.Product{}
	applyInput(product, input)

	var created *models.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.repo.WithTx(tx).CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.FromDB(err, "db: insert product")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return NewProductDTO(created), nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// UpdateProduct replaces every writable field and drops the cached price.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	input = normalizeInput(input)
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	var updated *models.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := s.find(ctx, txRepo, id)
		if err != nil {
			return err
		}
		applyInput(product, input)
		updated, err = txRepo.UpdateProduct(ctx, product)
		if err != nil {
			return pkgerrors.FromDB(err, "db: update product")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.invalidatePrice(ctx, id)
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product and drops the cached price.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) (*DeleteProductResult, error) {
	var deleted bool
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.repo.WithTx(tx).DeleteProduct(ctx, id)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.invalidatePrice(ctx, id)
	return &DeleteProductResult{
		ID:      id,
		Success: true,
		Message: "Product deleted successfully",
	}, nil
}

// ListProducts pages through the catalog with the query-string filter grammar.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListDTO, error) {
	query, params, err := buildListQuery(input.Pagination)
	if err != nil {
		return nil, err
	}
	filters, err := ParseFilters(input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	query.Filters = filters

	rows, total, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return newProductListDTO(rows, total, params), nil
}

// ListCategories returns every distinct product category.
func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// ListByCategory pages through the products of one category.
func (s *service) ListByCategory(ctx context.Context, category string, params pagination.Params) (*ProductListDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	query, params, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}
	query.Filters = []Filter{{Column: "category", Op: opEqual, Value: category}}

	rows, total, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by category")
	}
	return newProductListDTO(rows, total, params), nil
}

func (s *service) find(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) invalidatePrice(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrice(ctx, id); err != nil {
		s.logg.Warn(s.logg.WithProductID(ctx, id.String()), fmt.Sprintf("price cache invalidation failed: %v", err))
	}
}

func buildListQuery(params pagination.Params) (productListQuery, pagination.Params, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return productListQuery{}, params, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	order, err := pagination.ParseOrderBy(params.OrderBy, orderColumns)
	if err != nil {
		return productListQuery{}, params, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return productListQuery{Page: params, Order: order}, params, nil
}

func normalizeInput(input ProductInput) ProductInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Image = strings.TrimSpace(input.Image)
	return input
}

func applyInput(product *models.Product, input ProductInput) {
	product.Title = input.Title
	product.Price = input.Price
	product.Description = input.Description
	product.Category = input.Category
	product.Image = input.Image
	product.Rating = models.ProductRating{Rate: input.Rate, Count: input.Count}
}

var maxRate = decimal.NewFromInt(5)

func validateProduct(input ProductInput) error {
	var violations []Violation
	add := func(field, message string) {
		violations = append(violations, Violation{Field: field, Message: message})
	}

	switch {
	case input.Title == "":
		add("title", "Title is required.")
	case utf8.RuneCountInString(input.Title) > 200:
		add("title", "Title cannot be longer than 200 characters.")
	}
	if !input.Price.IsPositive() {
		add("price", "Price must be greater than zero.")
	}
	switch {
	case input.Description == "":
		add("description", "Description is required.")
	case utf8.RuneCountInString(input.Description) > 1000:
		add("description", "Description cannot be longer than 1000 characters.")
	}
	switch {
	case input.Category == "":
		add("category", "Category is required.")
	case utf8.RuneCountInString(input.Category) > 100:
		add("category", "Category cannot be longer than 100 characters.")
	}
	switch {
	case input.Image == "":
		add("image", "Image URL is required.")
	case !isAbsoluteURL(input.Image):
		add("image", "Image must be a valid URL.")
	}
	if input.Rate.IsNegative() || input.Rate.GreaterThan(maxRate) {
		add("rating.rate", "Rating rate must be between 0 and 5.")
	}
	if input.Count < 0 {
		add("rating.count", "Rating count must be non-negative.")
	}

	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "product validation failed").WithDetails(map[string]any{
		"violations": violations,
	})
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}
