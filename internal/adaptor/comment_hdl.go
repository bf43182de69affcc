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

type CommentHandler struct {
	service usecase.CommentService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, msgs utils.Messages, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "comment")),
	}
}

func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.GetComments(r.Context(), chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	actor := permission.ActorFromContext(r.Context())

	comment, err := h.service.CreateComment(r.Context(), actor, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "success", comment)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	actor := permission.ActorFromContext(r.Context())

	comment, err := h.service.UpdateComment(r.Context(), actor,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor := permission.ActorFromContext(r.Context())

	err := h.service.DeleteComment(r.Context(), actor,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
