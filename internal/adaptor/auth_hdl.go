package adaptor

import (
	"net/http"

	"media-review/internal/dto/request"
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, msgs utils.Messages, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		msgs:    msgs,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Action routes POST /v1/auth/{action}; AuthAction has already rejected
// anything but signup and token.
func (h *AuthHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "signup":
		h.Signup(w, r)
	case "token":
		h.Token(w, r)
	default:
		utils.ResponseNotFound(w, h.msgs.NotFound)
	}
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "signup")
		return
	}

	// 200 for both a new account and a resend
	utils.ResponseSuccess(w, h.msgs.MailSent, resp)
}

// Token handles POST /v1/auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req request.TokenRequest
	if !decodeJSON(h.msgs, w, r, &req) {
		return
	}

	resp, err := h.service.Token(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, h.msgs, w, err, "issue token")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}
