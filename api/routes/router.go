package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Avannubo/subirananadons-backend/api/controllers"
	"github.com/Avannubo/subirananadons-backend/api/middleware"
	"github.com/Avannubo/subirananadons-backend/internal/auth"
	"github.com/Avannubo/subirananadons-backend/internal/brands"
	"github.com/Avannubo/subirananadons-backend/internal/checkout"
	"github.com/Avannubo/subirananadons-backend/internal/orders"
	"github.com/Avannubo/subirananadons-backend/internal/products"
	"github.com/Avannubo/subirananadons-backend/internal/registry"
	"github.com/Avannubo/subirananadons-backend/pkg/auth/session"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/metrics"
	redisclient "github.com/Avannubo/subirananadons-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redisclient.Client
	Sessions session.AccessSessionChecker

	Auth     auth.Service
	Checkout checkout.Service
	Orders   orders.Service
	Registry registry.Service
	Products products.Service
	Brands   brands.Service

	Metrics    *metrics.HTTPMetrics
	Prometheus prometheus.Gatherer
}

// New wires the full HTTP surface.
func New(deps Deps) http.Handler {
	logg := deps.Logger
	jwtCfg := deps.Config.JWT

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.CORS(deps.Config.CORS))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Logging(logg))

	r.Get("/health/live", controllers.Live())
	r.Get("/health/ready", controllers.Ready(deps.DB, deps.Redis, logg))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Prometheus, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(deps.Auth, logg))
			r.Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(jwtCfg, deps.Sessions, logg))
				r.Post("/logout", controllers.Logout(deps.Auth, logg))
			})
		})

		// Public storefront surface.
		r.Post("/cart/quote", controllers.Quote(deps.Config.Shop, logg))
		r.Get("/products", controllers.ListProducts(deps.Products, logg, false))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))
		r.Get("/brands", controllers.ListBrands(deps.Brands, logg, false))
		r.Get("/brands/{brandId}", controllers.GetBrand(deps.Brands, logg))
		r.Get("/lists/{listId}", controllers.GetList(deps.Registry, logg))
		r.Get("/lists/{listId}/items", controllers.GetListItems(deps.Registry, logg))

		// Checkout works for guests and signed-in users alike.
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaybeAuthenticate(jwtCfg, deps.Sessions, logg))
			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		})

		// Account-holder surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtCfg, deps.Sessions, logg))

			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/number/{orderNumber}", controllers.GetOrderByNumber(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Get("/orders/{orderId}/invoice", controllers.OrderInvoice(deps.Orders, logg))
			r.Post("/orders/{orderId}/receipt", controllers.OrderReceipt(deps.Orders, logg))

			r.Get("/lists", controllers.ListLists(deps.Registry, logg))
			r.Post("/lists", controllers.CreateList(deps.Registry, logg))
			r.Put("/lists/{listId}/items", controllers.SetListItems(deps.Registry, logg))
			r.Delete("/lists/{listId}/items/{itemId}", controllers.DeleteListItem(deps.Registry, logg))
		})

		// Back office.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtCfg, deps.Sessions, logg))
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

			r.Get("/products", controllers.ListProducts(deps.Products, logg, true))
			r.Post("/products", controllers.CreateProduct(deps.Products, logg))
			r.Put("/products/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Patch("/products/{productId}/stock", controllers.UpdateProductStock(deps.Products, logg))
			r.Delete("/products/{productId}", controllers.DeleteProduct(deps.Products, logg))

			r.Get("/brands", controllers.ListBrands(deps.Brands, logg, true))
			r.Post("/brands", controllers.CreateBrand(deps.Brands, logg))
			r.Put("/brands/{brandId}", controllers.UpdateBrand(deps.Brands, logg))
			r.Delete("/brands/{brandId}", controllers.DeleteBrand(deps.Brands, logg))

			r.Patch("/orders/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		})
	})

	return r
}
