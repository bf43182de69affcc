package adaptor

import (
	"net/http"

	"media-review/internal/data/entity"
	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, msgs utils.Messages, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetTitles handles GET /v1/titles?category=&genre=&name=&year=
func (h *TitleHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := entity.TitleFilter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
		Year:         utils.ParseInt(query.Get("year"), 0),
	}

	titles, err := h.service.GetTitles(r.Context(), filter, paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitle handles GET /v1/titles/{title_id}
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetTitleByID(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// CreateTitle handles POST /v1/titles (admin)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "create title")
		return
	}

	utils.ResponseCreated(w, "success", title)
}

// UpdateTitle handles PATCH /v1/titles/{title_id} (admin)
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleUpdateRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// DeleteTitle handles DELETE /v1/titles/{title_id} (admin)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTitle(r.Context(), chi.URLParam(r, "title_id")); err != nil {
		handleServiceError(h.log, h.msgs, w, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
