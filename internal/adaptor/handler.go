package adaptor

import (
	"media-review/internal/usecase"
	"media-review/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, msgs utils.Messages, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, msgs, log),
		User:     NewUserHandler(service.User, msgs, log),
		Category: NewCategoryHandler(service.Category, msgs, log),
		Genre:    NewGenreHandler(service.Genre, msgs, log),
		Title:    NewTitleHandler(service.Title, msgs, log),
		Review:   NewReviewHandler(service.Review, msgs, log),
		Comment:  NewCommentHandler(service.Comment, msgs, log),
	}
}
