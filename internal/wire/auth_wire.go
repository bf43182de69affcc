package wire

import (
	"media-review/internal/adaptor"
	"media-review/pkg/middleware"
	"media-review/pkg/ratelimit"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	limiter ratelimit.Limiter,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /v1/auth/signup and POST /v1/auth/token; every other verb or
	// action under /auth is refused by AuthAction
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.RateLimit(limiter, config.Messages, log))
		}
		r.Use(middleware.AuthAction(config.Messages))

		r.HandleFunc("/auth/{action}", authHandler.Action)
	})
}
