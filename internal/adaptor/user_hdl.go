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

type UserHandler struct {
	service usecase.UserService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, msgs utils.Messages, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "user")),
	}
}

// List handles GET /v1/users?search= (admin)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), r.URL.Query().Get("search"), paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// Create handles POST /v1/users (admin)
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "create user")
		return
	}

	utils.ResponseCreated(w, "success", user)
}

// Retrieve handles GET /v1/users/{username}, where username may be "me"
func (h *UserHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	actor := permission.ActorFromContext(r.Context())

	user, err := h.service.Retrieve(r.Context(), actor, chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// PartialUpdate handles PATCH /v1/users/{username}
func (h *UserHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	actor := permission.ActorFromContext(r.Context())

	user, err := h.service.PartialUpdate(r.Context(), actor, chi.URLParam(r, "username"), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// Destroy handles DELETE /v1/users/{username}
func (h *UserHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	actor := permission.ActorFromContext(r.Context())

	if err := h.service.Destroy(r.Context(), actor, chi.URLParam(r, "username")); err != nil {
		handleServiceError(h.log, h.msgs, w, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}
