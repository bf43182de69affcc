package usecase

import (
	"context"
	"errors"
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

// GenreService is slug-keyed and has no update operation.
type GenreService interface {
	List(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	Create(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
	msgs utils.Messages
	log  *zap.Logger
}

func NewGenreService(repo repository.GenreRepository, msgs utils.Messages, log *zap.Logger) GenreService {
	return &genreService{
		repo: repo,
		msgs: msgs,
		log:  log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) List(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	items, err := s.repo.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal("get genre list", err)
	}

	total, err := s.repo.CountAll(ctx, search)
	if err != nil {
		return nil, apperror.Internal("count genre list", err)
	}

	data := make([]response.GenreResponse, len(items))
	for i, item := range items {
		data[i] = response.GenreToResponse(item)
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

func (s *genreService) Create(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, apperror.FieldError("slug", s.msgs.SlugTaken)
		}
		return nil, apperror.Internal("create genre", err)
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return notFoundOr(err, s.msgs, "delete genre")
	}
	return nil
}
