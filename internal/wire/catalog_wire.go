package wire

import (
	"media-review/internal/adaptor"
	"media-review/internal/permission"
	"media-review/pkg/middleware"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ==================== CATEGORIES ====================

func wireCategory(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/categories", func(r chi.Router) {
		r.With(middleware.Authorize(permission.ResourceCategory, false, config.Messages, log)).Group(func(r chi.Router) {
			r.Get("/", categoryHandler.List)     // public
			r.Post("/", categoryHandler.Create) // admin
		})
		r.With(middleware.Authorize(permission.ResourceCategory, true, config.Messages, log)).
			Delete("/{slug}", categoryHandler.Delete) // admin
	})
}

// ==================== GENRES ====================

func wireGenre(
	r chi.Router,
	genreHandler *adaptor.GenreHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/genres", func(r chi.Router) {
		r.With(middleware.Authorize(permission.ResourceGenre, false, config.Messages, log)).Group(func(r chi.Router) {
			r.Get("/", genreHandler.List)
			r.Post("/", genreHandler.Create)
		})
		r.With(middleware.Authorize(permission.ResourceGenre, true, config.Messages, log)).
			Delete("/{slug}", genreHandler.Delete)
	})
}
