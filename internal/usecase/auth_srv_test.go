package usecase

import (
	"context"
	"errors"
	"testing"

	"media-review/internal/data/entity"
	"media-review/internal/dto/request"
	"media-review/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (AuthService, *repoMocks, *fakeDispatcher) {
	repo, m := newRepoMocks(t)
	mail := &fakeDispatcher{}
	svc := NewAuthService(repo.User, fakeIssuer{token: "signed"}, mail, testConfig(), zap.NewNop())
	return svc, m, mail
}

func TestAuthService_SignupCreatesUserAndMailsCode(t *testing.T) {
	svc, m, mail := newAuthService(t)
	ctx := context.Background()

	var created *entity.User
	m.user.On("FindByUsername", ctx, "alice").Return(nil, nil)
	m.user.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
	m.user.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.User) }).
		Return(nil)

	resp, err := svc.Signup(ctx, &request.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	require.NotNil(t, created)
	assert.Equal(t, entity.RoleUser, created.Role)
	assert.Len(t, created.ConfirmationCode, 32)

	sent := mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].to)
	assert.Contains(t, sent[0].body, created.ConfirmationCode)
}

func TestAuthService_SignupResendsForExistingPair(t *testing.T) {
	svc, m, mail := newAuthService(t)
	ctx := context.Background()

	existing := &entity.User{
		Base:             entity.Base{ID: uuid.New()},
		Username:         "alice",
		Email:            "alice@example.com",
		ConfirmationCode: "existing-code",
	}
	m.user.On("FindByUsername", ctx, "alice").Return(existing, nil).Twice()

	for range 2 {
		_, err := svc.Signup(ctx, &request.SignupRequest{Username: "alice", Email: "ALICE@example.com"})
		require.NoError(t, err)
	}

	m.user.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	sent := mail.Sent()
	require.Len(t, sent, 2)
	for _, s := range sent {
		assert.Contains(t, s.body, "existing-code")
	}
}

func TestAuthService_SignupRejectsTakenFields(t *testing.T) {
	svc, m, mail := newAuthService(t)
	ctx := context.Background()

	m.user.On("FindByUsername", ctx, "alice").Return(&entity.User{Username: "alice", Email: "other@example.com"}, nil)
	m.user.On("FindByEmail", ctx, "bob@example.com").Return(&entity.User{Username: "bob", Email: "bob@example.com"}, nil)

	_, err := svc.Signup(ctx, &request.SignupRequest{Username: "alice", Email: "bob@example.com"})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "username")
	assert.Contains(t, appErr.Fields, "email")
	assert.Empty(t, mail.Sent())
}

func TestAuthService_SignupRejectsReservedUsername(t *testing.T) {
	svc, _, mail := newAuthService(t)

	_, err := svc.Signup(context.Background(), &request.SignupRequest{Username: "Me", Email: "me@example.com"})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, testConfig().Messages.UsernameReserved, appErr.Fields["username"])
	assert.Empty(t, mail.Sent())
}

func TestAuthService_SignupDoesNotMailWhenCreateFails(t *testing.T) {
	svc, m, mail := newAuthService(t)
	ctx := context.Background()

	m.user.On("FindByUsername", ctx, "alice").Return(nil, nil)
	m.user.On("FindByEmail", ctx, "alice@example.com").Return(nil, nil)
	m.user.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := svc.Signup(ctx, &request.SignupRequest{Username: "alice", Email: "alice@example.com"})
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.Empty(t, mail.Sent())
}

func TestAuthService_Token(t *testing.T) {
	user := &entity.User{
		Base:             entity.Base{ID: uuid.New()},
		Username:         "alice",
		ConfirmationCode: "right-code",
	}

	t.Run("valid code", func(t *testing.T) {
		svc, m, _ := newAuthService(t)
		m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

		resp, err := svc.Token(context.Background(), &request.TokenRequest{Username: "alice", ConfirmationCode: "right-code"})
		require.NoError(t, err)
		assert.Equal(t, "signed", resp.Access)
	})

	t.Run("wrong code and unknown user fail alike", func(t *testing.T) {
		svc, m, _ := newAuthService(t)
		m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
		m.user.On("FindByUsername", mock.Anything, "nobody").Return(nil, nil)

		_, wrongCode := svc.Token(context.Background(), &request.TokenRequest{Username: "alice", ConfirmationCode: "wrong"})
		_, unknown := svc.Token(context.Background(), &request.TokenRequest{Username: "nobody", ConfirmationCode: "wrong"})

		assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(wrongCode))
		assert.Equal(t, wrongCode.Error(), unknown.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newAuthService(t)

		_, err := svc.Token(context.Background(), &request.TokenRequest{})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}
