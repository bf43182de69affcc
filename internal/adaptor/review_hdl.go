package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/permission"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, msgs utils.Messages, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetReviews handles GET /v1/titles/{title_id}/reviews
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetReviews(r.Context(), chi.URLParam(r, "title_id"), paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /v1/titles/{title_id}/reviews/{review_id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// CreateReview handles POST /v1/titles/{title_id}/reviews (authenticated)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	actor := permission.ActorFromContext(r.Context())

	review, err := h.service.CreateReview(r.Context(), actor, chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// UpdateReview handles PATCH /v1/titles/{title_id}/reviews/{review_id} (author or staff)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	actor := permission.ActorFromContext(r.Context())

	review, err := h.service.UpdateReview(r.Context(), actor, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /v1/titles/{title_id}/reviews/{review_id} (author or staff)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor := permission.ActorFromContext(r.Context())

	if err := h.service.DeleteReview(r.Context(), actor, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id")); err != nil {
		handleServiceError(h.log, h.msgs, w, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}
