package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type cartRequest struct {
	UserID uuid.UUID         `json:"userId" validate:"required"`
	Items  []cartItemRequest `json:"items" validate:"dive"`
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (r cartRequest) itemInputs() []cart.ItemInput {
	items := make([]cart.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.toInput())
	}
	return items
}

func (r cartItemRequest) toInput() cart.ItemInput {
	return cart.ItemInput{ProductID: r.ProductID, Quantity: r.Quantity}
}

// caller is the authenticated principal behind a cart request.
type caller struct {
	userID uuid.UUID
	role   enums.UserRole
}

func (c caller) isStaff() bool {
	return c.role == enums.UserRoleAdmin || c.role == enums.UserRoleManager
}

// canAccess reports whether the caller may act on carts owned by owner.
func (c caller) canAccess(owner uuid.UUID) bool {
	return c.isStaff() || c.userID == owner
}

func callerFromContext(ctx context.Context) (caller, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "role context missing")
	}
	return caller{userID: userID, role: role}, nil
}

// authorizeCart loads the cart and rejects callers that do not own it. Missing
// carts and foreign carts both surface as not found to customers.
func authorizeCart(ctx context.Context, svc cart.Service, who caller, cartID uuid.UUID) (*cart.CartDTO, error) {
	dto, err := svc.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !who.canAccess(dto.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return dto, nil
}

// cartRequestContext resolves the caller and cart id shared by every
// single-cart handler.
func cartRequestContext(r *http.Request, logg *logger.Logger) (context.Context, caller, uuid.UUID, error) {
	ctx := r.Context()
	who, err := callerFromContext(ctx)
	if err != nil {
		return ctx, caller{}, uuid.Nil, err
	}
	cartID, err := uuidParam(r, "id")
	if err != nil {
		return ctx, caller{}, uuid.Nil, err
	}
	if logg != nil {
		ctx = logg.WithCartID(ctx, cartID.String())
	}
	return ctx, who, cartID, nil
}

func CreateCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		who, err := callerFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !who.canAccess(payload.UserID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot create carts for another user"))
			return
		}

		dto, err := svc.CreateCart(r.Context(), cart.CreateCartInput{
			UserID: payload.UserID,
			Items:  payload.itemInputs(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListCarts pages through carts. Customers only ever see their own.
func ListCarts(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		who, err := callerFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseQueryUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cancelled, err := validators.ParseQueryBool(r, "isCancelled")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !who.isStaff() {
			userID = &who.userID
		}

		page, err := svc.ListCarts(r.Context(), cart.ListCartsInput{
			Pagination:  params,
			UserID:      userID,
			IsCancelled: cancelled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, *page)
	}
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dto, err := authorizeCart(ctx, svc, who, cartID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UpdateCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := authorizeCart(ctx, svc, who, cartID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !who.canAccess(payload.UserID) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot reassign cart to another user"))
			return
		}

		dto, err := svc.UpdateCart(ctx, cartID, cart.UpdateCartInput{
			UserID: payload.UserID,
			Items:  payload.itemInputs(),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := authorizeCart(ctx, svc, who, cartID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.DeleteCart(ctx, cartID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := authorizeCart(ctx, svc, who, cartID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.AddProduct(ctx, cartID, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UpdateCartItemQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := authorizeCart(ctx, svc, who, cartID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.UpdateItemQuantity(ctx, cartID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := authorizeCart(ctx, svc, who, cartID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.RemoveProduct(ctx, cartID, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CancelCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, who, cartID, err := cartRequestContext(r, logg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := authorizeCart(ctx, svc, who, cartID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.CancelCart(ctx, cartID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
