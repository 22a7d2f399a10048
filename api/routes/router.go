package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catalogo-io/catalog-admin/api/controllers"
	"github.com/catalogo-io/catalog-admin/api/middleware"
	"github.com/catalogo-io/catalog-admin/internal/auth"
	"github.com/catalogo-io/catalog-admin/internal/categories"
	"github.com/catalogo-io/catalog-admin/internal/media"
	"github.com/catalogo-io/catalog-admin/internal/products"
	"github.com/catalogo-io/catalog-admin/pkg/config"
	"github.com/catalogo-io/catalog-admin/pkg/enums"
	"github.com/catalogo-io/catalog-admin/pkg/logger"
	"github.com/catalogo-io/catalog-admin/pkg/metrics"
	"github.com/catalogo-io/catalog-admin/pkg/redis"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           *redis.Client
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsHandler  http.Handler
	AuthService     auth.Service
	CategoryService categories.Service
	ProductService  products.Service
	MediaService    media.Service
	MediaValidator  *media.Validator
}

// NewRouter assembles the HTTP surface of the catalog admin API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	pingers := map[string]controllers.Pinger{}
	if deps.DB != nil {
		pingers["db"] = deps.DB
	}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	var limiter middleware.RateLimiterStore
	if deps.Redis != nil {
		limiter = deps.Redis
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.CategoryService, logg))
			r.Post("/", controllers.CategoryCreate(deps.CategoryService, logg))
			r.Get("/{categoryId}", controllers.CategoryGet(deps.CategoryService, logg))
			r.Patch("/{categoryId}", controllers.CategoryUpdate(deps.CategoryService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Delete("/{categoryId}", controllers.CategoryDelete(deps.CategoryService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductService, logg))
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.ProductService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Delete("/{productId}", controllers.ProductDelete(deps.ProductService, logg))

			r.Route("/{productId}/media", func(r chi.Router) {
				r.Get("/", controllers.MediaList(deps.MediaService, logg))
				r.Post("/", controllers.MediaAttach(deps.MediaService, logg))
				r.Post("/normalize", controllers.MediaNormalize(deps.MediaService, logg))
			})
		})

		r.Post("/media/validate", controllers.MediaValidate(deps.MediaValidator, logg))
	})

	return r
}
