package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	mail     MailDispatcher
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	mail MailDispatcher,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
	}
}

// Signup creates an account and mails its confirmation code. Repeating the
// call with the same (username, email) re-sends the existing code.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	msgs := s.config.Messages

	// 1. Validate input
	if entity.IsReservedUsername(req.Username) {
		return nil, apperror.FieldError("username", msgs.UsernameReserved)
	}
	if err := validationError(req, s.config.Messages); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Existing pair: resend, never create
	byUsername, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Internal("check username", err)
	}
	if byUsername != nil && strings.EqualFold(byUsername.Email, req.Email) {
		s.sendConfirmationCode(byUsername)
		s.log.Info("Confirmation code re-sent", zap.String("username", byUsername.Username))
		return &response.SignupResponse{Username: byUsername.Username, Email: byUsername.Email}, nil
	}

	// 3. Username or email belongs to someone else
	fields := map[string]string{}
	if byUsername != nil {
		fields["username"] = msgs.UsernameTaken
	}

	byEmail, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal("check email", err)
	}
	if byEmail != nil {
		fields["email"] = msgs.EmailTaken
	}

	if len(fields) > 0 {
		return nil, apperror.Validation(msgs.ValidationFailed, fields)
	}

	// 4. Create with a fresh code
	code, err := utils.GenerateConfirmationCode(s.config.Confirmation.CodeLength)
	if err != nil {
		return nil, apperror.Internal("generate confirmation code", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:         req.Username,
		Email:            req.Email,
		Role:             entity.RoleUser,
		ConfirmationCode: code,
	}

	// 5. Persist before mailing; no record means no email
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, apperror.Validation(msgs.ValidationFailed, map[string]string{
				"username": msgs.UsernameTaken,
			})
		}
		return nil, apperror.Internal("create account", err)
	}

	s.sendConfirmationCode(user)

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &response.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// Token exchanges a (username, confirmation code) pair for an access token.
// Unknown usernames and wrong codes fail identically.
func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validationError(req, s.config.Messages); err != nil {
		return nil, err
	}

	invalid := apperror.Authentication(s.config.Messages.InvalidCredentials)

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Internal("find user", err)
	}
	if user == nil {
		s.log.Warn("Token requested for unknown username", zap.String("username", req.Username))
		return nil, invalid
	}

	if subtle.ConstantTimeCompare([]byte(user.ConfirmationCode), []byte(req.ConfirmationCode)) != 1 {
		s.log.Warn("Wrong confirmation code", zap.String("username", req.Username))
		return nil, invalid
	}

	access, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, apperror.Internal("issue token", err)
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))

	return &response.TokenResponse{Access: access, ExpiresAt: expiresAt.Unix()}, nil
}

func (s *authService) sendConfirmationCode(user *entity.User) {
	body := fmt.Sprintf(s.config.Messages.MailText, user.ConfirmationCode)
	s.mail.Dispatch(user.Email, s.config.Messages.MailSubject, body)
}
