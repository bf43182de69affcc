package wire

import (
	"context"
	"net/http"
	"time"

	"media-review/internal/adaptor"
	"media-review/internal/data/repository"
	"media-review/internal/usecase"
	"media-review/pkg/middleware"
	"media-review/pkg/ratelimit"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenService signs and validates access tokens.
type TokenService interface {
	usecase.TokenIssuer
	middleware.TokenValidator
}

// Dependencies are the process-level collaborators built in main.
// A nil Limiter disables rate limiting.
type Dependencies struct {
	DB      Pinger
	Tokens  TokenService
	Mail    usecase.MailDispatcher
	Limiter ratelimit.Limiter
}

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, deps Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps.Tokens, deps.Mail, config, logger)
	handler := adaptor.NewHandler(service, config.Messages, logger)

	router := setupRouter(handler, repo, deps, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	deps Dependencies,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()
	msgs := config.Messages

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(msgs, logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, msgs.NotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w, msgs.MethodNotAllowed)
	})

	r.Route("/v1", func(r chi.Router) {
		// A stale bearer token must not block signup or the code exchange
		wireAuth(r, handler.Auth, deps.Limiter, config, logger)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.Tokens, repo.User, msgs, logger))

			wireUser(r, handler.User, config, logger)
			wireCategory(r, handler.Category, config, logger)
			wireGenre(r, handler.Genre, config, logger)
			wireTitle(r, handler, config, logger)
		})
	})

	// Health check endpoint
	r.Get("/health", healthHandler(deps.DB, msgs, logger))

	return r
}

func healthHandler(db Pinger, msgs utils.Messages, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, msgs.ServiceUnavailable, nil, nil)
				return
			}
		}

		utils.ResponseSuccess(w, "OK", nil)
	}
}
