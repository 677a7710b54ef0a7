package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/innovativehub/storefront/api/controllers"
	"github.com/innovativehub/storefront/api/middleware"
	"github.com/innovativehub/storefront/internal/session"
	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/logger"
)

// Params wires the gateway router. Pingers with a nil value are skipped by
// the readiness probe; a nil Gatherer disables /metrics.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions *session.Registry
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins, cfg.Session.Header),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Pingers))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(p.Sessions, cfg.Session, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionShow(logg))
			r.Post("/login", controllers.SessionLogin(logg))
			r.Post("/register", controllers.SessionRegister(logg))
			r.Post("/google", controllers.SessionGoogle(logg))
			r.Post("/logout", controllers.SessionLogout(logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(logg))
			r.Get("/{id}", controllers.ProductDetail(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartShow(logg))
			r.Delete("/", controllers.CartClear(logg))
			r.Post("/items", controllers.CartAddItem(logg))
			r.Put("/items/{productId}", controllers.CartUpdateItem(logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistShow(logg))
			r.Post("/items", controllers.WishlistAddItem(logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(logg))
		})

		r.Route("/buy-now", func(r chi.Router) {
			r.Post("/", controllers.BuyNowStage(logg))
			r.Post("/contact-3d", controllers.BuyNowContact3D(logg))
			r.Delete("/", controllers.BuyNowClear(logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", controllers.CheckoutQuote(logg))
			r.Get("/summary", controllers.CheckoutSummary(logg))
			r.Post("/orders", controllers.CheckoutCreate(logg))
			r.Post("/orders/{pendingId}/success", controllers.CheckoutSuccess(logg))
			r.Post("/orders/{pendingId}/dismiss", controllers.CheckoutDismiss(logg))
			r.Post("/orders/{pendingId}/failure", controllers.CheckoutFailure(logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(logg))
			r.Post("/", controllers.AddressCreate(logg))
			r.Put("/{id}", controllers.AddressUpdate(logg))
			r.Delete("/{id}", controllers.AddressDelete(logg))
			r.Put("/{id}/default", controllers.AddressSetDefault(logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(logg))
			r.Get("/{id}", controllers.OrderDetail(logg))
			r.Post("/{id}/invoice", controllers.OrderGenerateInvoice(logg))
			r.Get("/{id}/invoice", controllers.OrderInvoice(logg))
		})
	})

	return r
}
