package middleware

import (
	"net/http"
	"strings"

	"media-review/internal/data/repository"
	"media-review/internal/permission"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// Authenticate resolves an optional bearer token into the request identity.
// Requests without an Authorization header continue as anonymous; a header
// that does not carry a valid token for an existing user is rejected.
func Authenticate(tokens TokenValidator, userRepo repository.UserRepository, msgs utils.Messages, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, raw, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				utils.ResponseUnauthorized(w, msgs.InvalidTokenFormat)
				return
			}

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				logger.Warn("Invalid access token", zap.Error(err))
				utils.ResponseUnauthorized(w, msgs.InvalidToken)
				return
			}

			userID, err := claims.ParseUserID()
			if err != nil {
				utils.ResponseUnauthorized(w, msgs.InvalidToken)
				return
			}

			// The role is read fresh so promotions and deletions apply immediately
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, msgs.InternalError)
				return
			}
			if user == nil {
				logger.Warn("Token for missing user", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, msgs.AuthenticationNeeded)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, user.Username, string(user.Role), user.IsSuperuser)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize gates a route on the capability table before the handler runs.
// target tells a detail route from a collection route for safe verbs.
func Authorize(resource permission.Resource, target bool, msgs utils.Messages, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := permission.ActorFromContext(r.Context())
			action := permission.ActionForMethod(r.Method, target)

			switch permission.Gate(actor, resource, action) {
			case permission.Unauthenticated:
				utils.ResponseUnauthorized(w, msgs.AuthenticationNeeded)
				return
			case permission.Forbidden:
				logger.Warn("Access denied",
					zap.String("user_id", actor.ID.String()),
					zap.String("resource", string(resource)),
					zap.String("action", string(action)),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, msgs.PermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthAction lets only POST /auth/signup and POST /auth/token through.
func AuthAction(msgs utils.Messages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !permission.AuthActionAllowed(r.Method, chi.URLParam(r, "action")) {
				utils.ResponseForbidden(w, msgs.ActionNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
