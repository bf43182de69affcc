package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GenreHandler struct {
	service usecase.GenreService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, msgs utils.Messages, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "genre")),
	}
}

func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.List(r.Context(), r.URL.Query().Get("search"), paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "list genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	genre, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "success", genre)
}

func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(h.log, h.msgs, w, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}
