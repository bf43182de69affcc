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

// CategoryService is slug-keyed and has no update operation.
type CategoryService interface {
	List(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
	msgs utils.Messages
	log  *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, msgs utils.Messages, log *zap.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		msgs: msgs,
		log:  log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) List(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	items, err := s.repo.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal("get category list", err)
	}

	total, err := s.repo.CountAll(ctx, search)
	if err != nil {
		return nil, apperror.Internal("count category list", err)
	}

	data := make([]response.CategoryResponse, len(items))
	for i, item := range items {
		data[i] = response.CategoryToResponse(item)
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

func (s *categoryService) Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, apperror.FieldError("slug", s.msgs.SlugTaken)
		}
		return nil, apperror.Internal("create category", err)
	}

	s.log.Info("Category created", zap.String("slug", category.Slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return notFoundOr(err, s.msgs, "delete category")
	}
	return nil
}
