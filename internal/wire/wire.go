package wire

import (
	"fmt"
	"net/http"

	"yamdb/internal/access"
	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	mailer usecase.Mailer,
	throttle usecase.Throttle,
	logger *zap.Logger,
) (*App, error) {
	service, err := usecase.NewService(repo, config, mailer, throttle, logger)
	if err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}
	handler := adaptor.NewHandler(service, logger)

	limiter, err := middleware.NewRateLimiter(config.RateLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}

	router := setupRouter(handler, service.Auth, limiter, logger)

	return &App{
		Router: router,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	auth middleware.Authenticator,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(auth, logger))

		wireAuth(r, handler.Auth, limiter)
		wireUser(r, handler.User, logger)
		wireCatalog(r, handler.Catalog, logger)
		wireTitle(r, handler, logger)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// allow wraps the collection-level check for one route.
func allow(op access.Operation, class access.ResourceClass, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.Authorize(op, class, log)
}
