package wire

import (
	"media-review/internal/adaptor"
	"media-review/internal/permission"
	"media-review/pkg/middleware"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures user management routes with role-based access control
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/users", func(r chi.Router) {
		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(permission.ResourceUser, false, config.Messages, log))

			r.Get("/", userHandler.List)     // GET /v1/users?search=&page=1&per_page=10
			r.Post("/", userHandler.Create) // POST /v1/users
		})

		// ==================== SELF OR ADMIN ROUTES ====================
		// {username} may be "me"; ownership is settled once the record is resolved
		r.With(middleware.Authorize(permission.ResourceUser, true, config.Messages, log)).
			Get("/{username}", userHandler.Retrieve)
		r.With(middleware.Authorize(permission.ResourceUser, true, config.Messages, log)).
			Patch("/{username}", userHandler.PartialUpdate)

		// Not gated: deleting oneself is 405 for every role, which the gate would
		// turn into 403
		r.Delete("/{username}", userHandler.Destroy)
	})
}
