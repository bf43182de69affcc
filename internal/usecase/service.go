package usecase

import (
	"errors"
	"time"

	"media-review/internal/data/repository"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MailDispatcher queues an email without waiting for delivery.
type MailDispatcher interface {
	Dispatch(to, subject, body string)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, username string) (string, time.Time, error)
}

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(repo *repository.Repository, tokens TokenIssuer, mail MailDispatcher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo.User, tokens, mail, config, log),
		User:     NewUserService(repo.User, config, log),
		Category: NewCategoryService(repo.Category, config.Messages, log),
		Genre:    NewGenreService(repo.Genre, config.Messages, log),
		Title:    NewTitleService(repo, config.Messages, log),
		Review:   NewReviewService(repo, config.Messages, log),
		Comment:  NewCommentService(repo, config.Messages, log),
	}
}

// validationError wraps validator output, nil when there is nothing to report.
func validationError(data any, msgs utils.Messages) error {
	if errs := utils.ValidateStruct(data); len(errs) > 0 {
		return apperror.Validation(msgs.ValidationFailed, errs)
	}
	return nil
}

// parseID treats a malformed id as a missing record.
func parseID(raw string, msgs utils.Messages) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound(msgs.NotFound)
	}
	return id, nil
}

// notFoundOr turns a missing-row error from an update or delete into NotFound.
func notFoundOr(err error, msgs utils.Messages, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(msgs.NotFound)
	}
	return apperror.Internal(message, err)
}
