package wire

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/data/repository/mocks"
	"media-review/pkg/ratelimit"
	"media-review/pkg/token"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	mu sync.Mutex
	to []string
}

func (d *recordingDispatcher) Dispatch(to, subject, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.to = append(d.to, to)
}

type testApp struct {
	router   http.Handler
	users    *mocks.UserRepository
	category *mocks.CategoryRepository
	tokens   *token.JWTService
	mail     *recordingDispatcher
}

func newTestApp(t *testing.T, limiter ratelimit.Limiter) *testApp {
	t.Helper()

	users := &mocks.UserRepository{}
	category := &mocks.CategoryRepository{}
	repo := &repository.Repository{
		User:     users,
		Category: category,
		Genre:    &mocks.GenreRepository{},
		Title:    &mocks.TitleRepository{},
		Review:   &mocks.ReviewRepository{},
		Comment:  &mocks.CommentRepository{},
	}

	config := &utils.Config{
		App:          utils.AppConfig{Name: "media-review-test"},
		Confirmation: utils.ConfirmationConfig{CodeLength: 16},
		Messages:     utils.DefaultMessages(),
	}

	tokens := token.NewJWTService("test-secret", time.Hour)
	mail := &recordingDispatcher{}

	app := Wiring(repo, Dependencies{Tokens: tokens, Mail: mail, Limiter: limiter}, config, zap.NewNop())

	return &testApp{router: app.Router, users: users, category: category, tokens: tokens, mail: mail}
}

// login makes the user resolvable by the authentication middleware and returns a bearer header.
func (a *testApp) login(t *testing.T, user *entity.User) string {
	t.Helper()

	a.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	signed, _, err := a.tokens.GenerateAccessToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + signed
}

func (a *testApp) do(method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRoutes_OnlySignupAndTokenAreReachable(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/v1/auth/signup", "", "").Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/v1/auth/create", `{}`, "").Code)
}

func TestSignup_ReturnsEchoAndQueuesMail(t *testing.T) {
	app := newTestApp(t, nil)

	app.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	app.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, nil)
	app.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	rec := app.do(http.MethodPost, "/v1/auth/signup", `{"username":"alice","email":"alice@example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Status)
	assert.Equal(t, map[string]any{"username": "alice", "email": "alice@example.com"}, resp.Data)
	assert.Equal(t, []string{"alice@example.com"}, app.mail.to)
}

func TestSignup_ReservedUsername(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(http.MethodPost, "/v1/auth/signup", `{"username":"me","email":"me@example.com"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, map[string]any{"username": utils.DefaultMessages().UsernameReserved}, resp.Errors)
}

func TestCatalogWrites_RequireAdmin(t *testing.T) {
	app := newTestApp(t, nil)
	body := `{"name":"Movie","slug":"movie"}`

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/v1/categories", body, "").Code)

	for _, role := range []entity.UserRole{entity.RoleUser, entity.RoleModerator} {
		user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: string(role), Role: role}
		auth := app.login(t, user)

		assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/v1/categories", body, auth).Code, role)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/v1/titles", `{"name":"x","year":2000}`, auth).Code, role)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodDelete, "/v1/genres/drama", "", auth).Code, role)
	}

	admin := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "root", Role: entity.RoleAdmin}
	app.category.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).Return(nil)

	rec := app.do(http.MethodPost, "/v1/categories", body, app.login(t, admin))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCatalogReads_ArePublic(t *testing.T) {
	app := newTestApp(t, nil)

	app.category.On("FindAll", mock.Anything, "", 10, 0).Return([]*entity.Category{}, nil)
	app.category.On("CountAll", mock.Anything, "").Return(int64(0), nil)

	rec := app.do(http.MethodGet, "/v1/categories", "", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUsers_DeleteSelfIsNotAllowed(t *testing.T) {
	app := newTestApp(t, nil)

	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Role: entity.RoleUser}
	auth := app.login(t, user)

	assert.Equal(t, http.StatusMethodNotAllowed, app.do(http.MethodDelete, "/v1/users/me", "", auth).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodDelete, "/v1/users/me", "", "").Code)
}

func TestUsers_ListIsAdminOnly(t *testing.T) {
	app := newTestApp(t, nil)

	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Role: entity.RoleUser}
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/v1/users", "", app.login(t, user)).Code)
}

func TestUsers_MeReturnsOwnRecord(t *testing.T) {
	app := newTestApp(t, nil)

	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Email: "alice@example.com", Role: entity.RoleUser}
	rec := app.do(http.MethodGet, "/v1/users/me", "", app.login(t, user))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "user", data["role"])
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	app := newTestApp(t, nil)
	msgs := utils.DefaultMessages()

	rec := app.do(http.MethodGet, "/v1/users/me", "", "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgs.InvalidToken, decodeEnvelope(t, rec).Message)

	rec = app.do(http.MethodGet, "/v1/users/me", "", "Basic abc")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgs.InvalidTokenFormat, decodeEnvelope(t, rec).Message)
}

func TestToken_StaleBearerDoesNotBlockExchange(t *testing.T) {
	app := newTestApp(t, nil)

	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Role: entity.RoleUser, ConfirmationCode: "code-123"}
	app.users.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	rec := app.do(http.MethodPost, "/v1/auth/token",
		`{"username":"alice","confirmation_code":"code-123"}`, "Bearer expired.or.garbage")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec).Data.(map[string]any)
	claims, err := app.tokens.ValidateToken(data["access"].(string))
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestRouter_MethodNotAllowedUsesMessages(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(http.MethodPut, "/health", "", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, utils.DefaultMessages().MethodNotAllowed, decodeEnvelope(t, rec).Message)
}

func TestTitles_MalformedIDIsNotFound(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/v1/titles/42", "", "").Code)
}

func TestAuthRoutes_AreRateLimited(t *testing.T) {
	app := newTestApp(t, ratelimit.NewMemory(1, time.Minute))

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/v1/auth/signup", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do(http.MethodGet, "/v1/auth/signup", "", "").Code)
}
