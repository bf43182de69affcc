package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, msgs utils.Messages, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "category")),
	}
}

// List handles GET /v1/categories?search=
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context(), r.URL.Query().Get("search"), paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// Create handles POST /v1/categories (admin)
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "create category")
		return
	}

	utils.ResponseCreated(w, "success", category)
}

// Delete handles DELETE /v1/categories/{slug} (admin)
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(h.log, h.msgs, w, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}
