package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	productsvc "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

// withRouteParams attaches chi URL params to the request context.
func withRouteParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withCaller(req *http.Request, userID uuid.UUID, role enums.UserRole) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, role.String())
	return req.WithContext(ctx)
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body
}

type stubProductService struct {
	created  productsvc.ProductInput
	listIn   productsvc.ListProductsInput
	category string
	err      error
}

func (s *stubProductService) CreateProduct(_ context.Context, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	s.created = input
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.ProductDTO{ID: uuid.New(), Title: input.Title, Price: input.Price}, nil
}

func (s *stubProductService) GetProduct(_ context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.ProductDTO{ID: id, Title: "Backpack"}, nil
}

func (s *stubProductService) UpdateProduct(_ context.Context, id uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.ProductDTO{ID: id, Title: input.Title}, nil
}

func (s *stubProductService) DeleteProduct(_ context.Context, id uuid.UUID) (*productsvc.DeleteProductResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.DeleteProductResult{ID: id, Success: true, Message: "Product deleted successfully"}, nil
}

func (s *stubProductService) ListProducts(_ context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListDTO, error) {
	s.listIn = input
	if s.err != nil {
		return nil, s.err
	}
	page := pagination.NewPage([]productsvc.ProductDTO{{ID: uuid.New(), Title: "Backpack"}}, 3, input.Pagination)
	return &page, nil
}

func (s *stubProductService) ListCategories(context.Context) ([]string, error) {
	return []string{"electronics", "jewelery"}, s.err
}

func (s *stubProductService) ListByCategory(_ context.Context, category string, params pagination.Params) (*productsvc.ProductListDTO, error) {
	s.category = category
	if s.err != nil {
		return nil, s.err
	}
	page := pagination.NewPage([]productsvc.ProductDTO{}, 0, params)
	return &page, nil
}

func TestListProducts(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=2&pageSize=1&category=electronics", nil)
	rec := httptest.NewRecorder()

	ListProducts(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.listIn.Pagination.Page != 2 || svc.listIn.Pagination.PageSize != 1 {
		t.Fatalf("unexpected pagination %+v", svc.listIn.Pagination)
	}
	if svc.listIn.Filters["category"] != "electronics" {
		t.Fatalf("expected category filter, got %v", svc.listIn.Filters)
	}

	var body struct {
		Data        []map[string]any `json:"data"`
		TotalItems  int64            `json:"totalItems"`
		CurrentPage int              `json:"currentPage"`
		TotalPages  int              `json:"totalPages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.TotalItems != 3 || body.CurrentPage != 2 || body.TotalPages != 3 {
		t.Fatalf("unexpected page envelope %+v", body)
	}
}

func TestListProductsRejectsBadPageSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?pageSize=500", nil)
	rec := httptest.NewRecorder()

	ListProducts(&stubProductService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		req := withRouteParams(httptest.NewRequest(http.MethodGet, "/api/products/x", nil), map[string]string{"id": "not-a-uuid"})
		rec := httptest.NewRecorder()
		GetProduct(&stubProductService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		id := uuid.New()
		req := withRouteParams(httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil), map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		GetProduct(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error.Code != string(pkgerrors.CodeNotFound) {
			t.Fatalf("unexpected error code %q", body.Error.Code)
		}
	})
}

func TestCreateProduct(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubProductService{}
		payload := `{"title":"Backpack","price":109.95,"description":"Fits laptops","category":"men's clothing","image":"https://img.example.com/1.png","rating":{"rate":3.9,"count":120}}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !svc.created.Price.Equal(decimal.RequireFromString("109.95")) || svc.created.Count != 120 {
			t.Fatalf("unexpected service input %+v", svc.created)
		}
		if !svc.created.Rate.Equal(decimal.RequireFromString("3.9")) {
			t.Fatalf("expected rate 3.9, got %s", svc.created.Rate)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"title":"x","vendor":"y"}`))
		rec := httptest.NewRecorder()
		CreateProduct(&stubProductService{}, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("service validation details", func(t *testing.T) {
		svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeValidation, "product validation failed").
			WithDetails(map[string]any{"violations": []productsvc.Violation{{Field: "title", Message: "Title is required"}}})}
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"title":""}`))
		rec := httptest.NewRecorder()
		CreateProduct(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error.Details["violations"] == nil {
			t.Fatalf("expected violations in details, got %+v", body.Error)
		}
	})
}

func TestDeleteProduct(t *testing.T) {
	id := uuid.New()
	req := withRouteParams(httptest.NewRequest(http.MethodDelete, "/api/products/"+id.String(), nil), map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()

	DeleteProduct(&stubProductService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Product deleted successfully") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestListProductsByCategory(t *testing.T) {
	svc := &stubProductService{}
	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/api/products/category/men%27s%20clothing", nil),
		map[string]string{"category": "men%27s%20clothing"})
	rec := httptest.NewRecorder()

	ListProductsByCategory(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.category != "men's clothing" {
		t.Fatalf("expected unescaped category, got %q", svc.category)
	}
}

type stubCartService struct {
	carts      map[uuid.UUID]*cart.CartDTO
	listIn     cart.ListCartsInput
	createIn   cart.CreateCartInput
	addedItem  cart.ItemInput
	quantity   int
	mutateErr  error
	cancelled  bool
	removedFor uuid.UUID
}

func newStubCartService(carts ...*cart.CartDTO) *stubCartService {
	s := &stubCartService{carts: map[uuid.UUID]*cart.CartDTO{}}
	for _, c := range carts {
		s.carts[c.ID] = c
	}
	return s
}

func (s *stubCartService) CreateCart(_ context.Context, input cart.CreateCartInput) (*cart.CartDTO, error) {
	s.createIn = input
	if s.mutateErr != nil {
		return nil, s.mutateErr
	}
	return &cart.CartDTO{ID: uuid.New(), UserID: input.UserID, Version: 1}, nil
}

func (s *stubCartService) GetCart(_ context.Context, id uuid.UUID) (*cart.CartDTO, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return c, nil
}

func (s *stubCartService) ListCarts(_ context.Context, input cart.ListCartsInput) (*cart.CartListDTO, error) {
	s.listIn = input
	page := pagination.NewPage([]cart.CartDTO{}, 0, input.Pagination)
	return &page, nil
}

func (s *stubCartService) UpdateCart(_ context.Context, id uuid.UUID, input cart.UpdateCartInput) (*cart.CartDTO, error) {
	if s.mutateErr != nil {
		return nil, s.mutateErr
	}
	return &cart.CartDTO{ID: id, UserID: input.UserID}, nil
}

func (s *stubCartService) DeleteCart(_ context.Context, id uuid.UUID) (*cart.DeleteCartResult, error) {
	return &cart.DeleteCartResult{ID: id, Success: true, Message: "Cart deleted successfully"}, nil
}

func (s *stubCartService) AddProduct(_ context.Context, cartID uuid.UUID, input cart.ItemInput) (*cart.CartDTO, error) {
	s.addedItem = input
	if s.mutateErr != nil {
		return nil, s.mutateErr
	}
	return s.carts[cartID], nil
}

func (s *stubCartService) RemoveProduct(_ context.Context, cartID, productID uuid.UUID) (*cart.CartDTO, error) {
	s.removedFor = productID
	return s.carts[cartID], nil
}

func (s *stubCartService) UpdateItemQuantity(_ context.Context, cartID, _ uuid.UUID, quantity int) (*cart.CartDTO, error) {
	s.quantity = quantity
	if s.mutateErr != nil {
		return nil, s.mutateErr
	}
	return s.carts[cartID], nil
}

func (s *stubCartService) CancelCart(_ context.Context, id uuid.UUID) (*cart.CartDTO, error) {
	s.cancelled = true
	c := *s.carts[id]
	c.IsCancelled = true
	return &c, nil
}

func TestCreateCart(t *testing.T) {
	owner := uuid.New()
	productID := uuid.New()

	t.Run("customer creates own cart", func(t *testing.T) {
		svc := newStubCartService()
		payload := `{"userId":"` + owner.String() + `","items":[{"productId":"` + productID.String() + `","quantity":4}]}`
		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(payload)), owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()

		CreateCart(svc, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(svc.createIn.Items) != 1 || svc.createIn.Items[0].Quantity != 4 || svc.createIn.Items[0].ProductID != productID {
			t.Fatalf("unexpected service input %+v", svc.createIn)
		}
	})

	t.Run("customer cannot create for another user", func(t *testing.T) {
		payload := `{"userId":"` + uuid.NewString() + `","items":[]}`
		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(payload)), owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		CreateCart(newStubCartService(), testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("missing product id reports field path", func(t *testing.T) {
		payload := `{"userId":"` + owner.String() + `","items":[{"quantity":1}]}`
		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(payload)), owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		CreateCart(newStubCartService(), testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error.Details["items[0].productId"] == nil {
			t.Fatalf("expected items[0].productId detail, got %+v", body.Error.Details)
		}
	})

	t.Run("invalid quantity passes through", func(t *testing.T) {
		svc := newStubCartService()
		svc.mutateErr = pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be between 1 and 20")
		payload := `{"userId":"` + owner.String() + `","items":[{"productId":"` + productID.String() + `","quantity":21}]}`
		req := withCaller(httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(payload)), owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		CreateCart(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Error.Code != string(pkgerrors.CodeInvalidQuantity) {
			t.Fatalf("expected INVALID_QUANTITY, got %q", body.Error.Code)
		}
	})

	t.Run("no caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		CreateCart(newStubCartService(), testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestListCartsScopesCustomers(t *testing.T) {
	caller := uuid.New()
	other := uuid.New()

	svc := newStubCartService()
	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/carts?userId="+other.String()+"&isCancelled=false", nil), caller, enums.UserRoleCustomer)
	rec := httptest.NewRecorder()
	ListCarts(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listIn.UserID == nil || *svc.listIn.UserID != caller {
		t.Fatalf("expected customer listing forced to own id, got %v", svc.listIn.UserID)
	}
	if svc.listIn.IsCancelled == nil || *svc.listIn.IsCancelled {
		t.Fatalf("expected isCancelled=false filter, got %v", svc.listIn.IsCancelled)
	}

	svc = newStubCartService()
	req = withCaller(httptest.NewRequest(http.MethodGet, "/api/carts?userId="+other.String(), nil), caller, enums.UserRoleManager)
	rec = httptest.NewRecorder()
	ListCarts(svc, testLogger()).ServeHTTP(rec, req)
	if svc.listIn.UserID == nil || *svc.listIn.UserID != other {
		t.Fatalf("expected manager filter to pass through, got %v", svc.listIn.UserID)
	}

	req = withCaller(httptest.NewRequest(http.MethodGet, "/api/carts?isCancelled=maybe", nil), caller, enums.UserRoleAdmin)
	rec = httptest.NewRecorder()
	ListCarts(newStubCartService(), testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad boolean, got %d", rec.Code)
	}
}

func TestGetCartOwnership(t *testing.T) {
	owner := uuid.New()
	existing := &cart.CartDTO{ID: uuid.New(), UserID: owner}
	svc := newStubCartService(existing)

	get := func(who uuid.UUID, role enums.UserRole) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/carts/"+existing.ID.String(), nil)
		req = withRouteParams(req, map[string]string{"id": existing.ID.String()})
		req = withCaller(req, who, role)
		rec := httptest.NewRecorder()
		GetCart(svc, testLogger()).ServeHTTP(rec, req)
		return rec
	}

	if rec := get(owner, enums.UserRoleCustomer); rec.Code != http.StatusOK {
		t.Fatalf("owner expected 200, got %d", rec.Code)
	}
	if rec := get(uuid.New(), enums.UserRoleCustomer); rec.Code != http.StatusNotFound {
		t.Fatalf("stranger expected 404, got %d", rec.Code)
	}
	if rec := get(uuid.New(), enums.UserRoleAdmin); rec.Code != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", rec.Code)
	}
}

func TestCartItemHandlers(t *testing.T) {
	owner := uuid.New()
	productID := uuid.New()
	existing := &cart.CartDTO{ID: uuid.New(), UserID: owner}

	t.Run("add item", func(t *testing.T) {
		svc := newStubCartService(existing)
		body := `{"productId":"` + productID.String() + `","quantity":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/carts/"+existing.ID.String()+"/items", strings.NewReader(body))
		req = withCaller(withRouteParams(req, map[string]string{"id": existing.ID.String()}), owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		AddCartItem(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.addedItem.ProductID != productID || svc.addedItem.Quantity != 10 {
			t.Fatalf("unexpected item %+v", svc.addedItem)
		}
	})

	t.Run("update quantity on cancelled cart", func(t *testing.T) {
		svc := newStubCartService(existing)
		svc.mutateErr = pkgerrors.New(pkgerrors.CodeStateConflict, "cart is cancelled")
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":3}`))
		req = withRouteParams(req, map[string]string{"id": existing.ID.String(), "productId": productID.String()})
		req = withCaller(req, owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		UpdateCartItemQuantity(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if svc.quantity != 3 {
			t.Fatalf("expected quantity 3 forwarded, got %d", svc.quantity)
		}
	})

	t.Run("remove item", func(t *testing.T) {
		svc := newStubCartService(existing)
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = withRouteParams(req, map[string]string{"id": existing.ID.String(), "productId": productID.String()})
		req = withCaller(req, owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		RemoveCartItem(svc, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || svc.removedFor != productID {
			t.Fatalf("expected removal of %s, got code %d removed %s", productID, rec.Code, svc.removedFor)
		}
	})

	t.Run("bad product id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = withRouteParams(req, map[string]string{"id": existing.ID.String(), "productId": "nope"})
		req = withCaller(req, owner, enums.UserRoleCustomer)
		rec := httptest.NewRecorder()
		RemoveCartItem(newStubCartService(existing), testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCancelAndDeleteCart(t *testing.T) {
	owner := uuid.New()
	existing := &cart.CartDTO{ID: uuid.New(), UserID: owner}
	svc := newStubCartService(existing)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = withCaller(withRouteParams(req, map[string]string{"id": existing.ID.String()}), owner, enums.UserRoleCustomer)
	rec := httptest.NewRecorder()
	CancelCart(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !svc.cancelled {
		t.Fatalf("expected cancel to succeed, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"isCancelled":true`) {
		t.Fatalf("expected cancelled cart in body, got %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req = withCaller(withRouteParams(req, map[string]string{"id": existing.ID.String()}), uuid.New(), enums.UserRoleCustomer)
	rec = httptest.NewRecorder()
	DeleteCart(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected stranger delete to be 404, got %d", rec.Code)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Storefront-Env") != "test" {
		t.Fatalf("expected env header")
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{err: errors.New("dial tcp: refused")}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error.Details["redis"] == nil {
		t.Fatalf("expected redis failure in details, got %+v", body.Error.Details)
	}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(&config.Config{App: config.AppConfig{Env: "dev"}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
