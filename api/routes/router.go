package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	products "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	productService products.Service,
	cartService cart.Service,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/categories", controllers.ListCategories(productService, logg))
		r.Get("/category/{category}", controllers.ListProductsByCategory(productService, logg))
		r.Get("/{id}", controllers.GetProduct(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleManager),
			)
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Put("/{id}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})
	})

	// Idempotency is attached per route so the full pattern is resolved
	// before the middleware runs.
	idempotent := middleware.Idempotency(idempotencyStore, logg)

	r.Route("/api/carts", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.With(idempotent).Post("/", controllers.CreateCart(cartService, logg))
		r.Get("/", controllers.ListCarts(cartService, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.With(idempotent).Put("/", controllers.UpdateCart(cartService, logg))
			r.Delete("/", controllers.DeleteCart(cartService, logg))
			r.Post("/cancel", controllers.CancelCart(cartService, logg))

			r.With(idempotent).Post("/items", controllers.AddCartItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.UpdateCartItemQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(cartService, logg))
		})
	})

	return r
}
