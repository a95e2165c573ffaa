package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomery-io/loomery-backend/api/controllers"
	"github.com/loomery-io/loomery-backend/api/middleware"
	"github.com/loomery-io/loomery-backend/internal/auth"
	checkoutsvc "github.com/loomery-io/loomery-backend/internal/checkout"
	"github.com/loomery-io/loomery-backend/internal/designs"
	"github.com/loomery-io/loomery-backend/internal/orders"
	"github.com/loomery-io/loomery-backend/internal/parties"
	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/internal/wishlist"
	"github.com/loomery-io/loomery-backend/pkg/cache"
	"github.com/loomery-io/loomery-backend/pkg/config"
	"github.com/loomery-io/loomery-backend/pkg/enums"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

// Deps carries everything the HTTP surface needs. All services are
// required; the cache and metrics registry are optional.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Cache         *cache.Cache
	Registry      *prometheus.Registry
	AuthService   auth.Service
	PartyService  parties.Service
	DesignService designs.Service
	OrderService  orders.Service
	Wishlist      wishlist.Service
	Checkout      checkoutsvc.Service
	Maintainer    tiers.Maintainer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/designs", func(r chi.Router) {
			r.Get("/", controllers.ListDesigns(deps.DesignService, logg))
			r.Get("/{designId}", controllers.GetDesign(deps.DesignService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.ListWishlist(deps.Wishlist, logg))
			r.Post("/{designId}", controllers.AddWishlistItem(deps.Wishlist, logg))
			r.Delete("/{designId}", controllers.RemoveWishlistItem(deps.Wishlist, logg))
		})

		r.Post("/cart/quote", controllers.CartQuote(deps.PartyService, logg))
		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.OrderService, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
		})

		r.Route("/parties/{partyId}", func(r chi.Router) {
			r.Get("/", controllers.GetParty(deps.PartyService, logg))
			r.Get("/discount", controllers.PartyDiscount(deps.PartyService, deps.Cache, cfg.Cache.DiscountPreviewTTL, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))

		r.Route("/designs", func(r chi.Router) {
			r.Post("/", controllers.CreateDesign(deps.DesignService, logg))
			r.Patch("/{designId}", controllers.UpdateDesign(deps.DesignService, logg))
		})

		r.Route("/parties", func(r chi.Router) {
			r.Post("/", controllers.CreateParty(deps.PartyService, logg))
			r.Patch("/{partyId}/tier-assignments", controllers.UpdatePartyTierAssignments(deps.PartyService, logg))
		})

		r.Route("/tiers", func(r chi.Router) {
			r.Post("/update-party/{partyId}", controllers.UpdatePartyTier(deps.Maintainer, logg))
			r.Post("/batch-update", controllers.BatchUpdateTiers(deps.Maintainer, logg))
		})
	})

	return r
}
