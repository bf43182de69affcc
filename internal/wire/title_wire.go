package wire

import (
	"media-review/internal/adaptor"
	"media-review/internal/permission"
	"media-review/pkg/middleware"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireTitle mounts titles with their nested reviews and comments
func wireTitle(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	gate := func(resource permission.Resource, target bool) func(chi.Router) chi.Router {
		return func(r chi.Router) chi.Router {
			return r.With(middleware.Authorize(resource, target, config.Messages, log))
		}
	}

	r.Route("/titles", func(r chi.Router) {
		// GET /v1/titles?category=&genre=&name=&year= (public), POST (admin)
		collection := gate(permission.ResourceTitle, false)(r)
		collection.Get("/", handler.Title.GetTitles)
		collection.Post("/", handler.Title.CreateTitle)

		r.Route("/{title_id}", func(r chi.Router) {
			detail := gate(permission.ResourceTitle, true)(r)
			detail.Get("/", handler.Title.GetTitle)
			detail.Patch("/", handler.Title.UpdateTitle)
			detail.Delete("/", handler.Title.DeleteTitle)

			r.Route("/reviews", func(r chi.Router) {
				wireReview(r, handler.Review, handler.Comment, gate)
			})
		})
	})
}

// ==================== REVIEWS & COMMENTS ====================

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	gate func(permission.Resource, bool) func(chi.Router) chi.Router,
) {
	reviews := gate(permission.ResourceReview, false)(r)
	reviews.Get("/", reviewHandler.GetReviews)
	reviews.Post("/", reviewHandler.CreateReview) // authenticated

	r.Route("/{review_id}", func(r chi.Router) {
		// author, moderator or admin for writes; settled after the review is loaded
		review := gate(permission.ResourceReview, true)(r)
		review.Get("/", reviewHandler.GetReview)
		review.Patch("/", reviewHandler.UpdateReview)
		review.Delete("/", reviewHandler.DeleteReview)

		r.Route("/comments", func(r chi.Router) {
			comments := gate(permission.ResourceComment, false)(r)
			comments.Get("/", commentHandler.GetComments)
			comments.Post("/", commentHandler.CreateComment)

			comment := gate(permission.ResourceComment, true)(r)
			comment.Get("/{comment_id}", commentHandler.GetComment)
			comment.Patch("/{comment_id}", commentHandler.UpdateComment)
			comment.Delete("/{comment_id}", commentHandler.DeleteComment)
		})
	})
}
