package usecase

import (
	"context"
	"fmt"
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

type TitleService interface {
	GetTitles(ctx context.Context, filter entity.TitleFilter, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitleByID(ctx context.Context, titleID string) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, titleID string) error
}

type titleService struct {
	repo *repository.Repository
	msgs utils.Messages
	now  func() time.Time
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, msgs utils.Messages, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		msgs: msgs,
		now:  time.Now,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetTitles(ctx context.Context, filter entity.TitleFilter, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	titles, err := s.repo.Title.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal("get titles", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("count titles", err)
	}

	titleResponses := make([]response.TitleResponse, len(titles))
	for i, title := range titles {
		resp, err := s.toResponse(ctx, title, nil)
		if err != nil {
			return nil, err
		}
		titleResponses[i] = *resp
	}

	s.log.Debug("Titles retrieved",
		zap.Int("count", len(titles)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(titleResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (s *titleService) GetTitleByID(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, title, nil)
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := s.checkYear(req.Year); err != nil {
		return nil, err
	}
	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := s.now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs(genres)); err != nil {
		return nil, apperror.Internal("create title", err)
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
	)

	return s.toResponse(ctx, title, genres)
}

func (s *titleService) UpdateTitle(ctx context.Context, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return nil, err
		}
	}
	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
		} else if title.CategoryID, err = s.resolveCategory(ctx, req.Category); err != nil {
			return nil, err
		}
	}

	// nil keeps the current links
	var (
		genres []*entity.Genre
		ids    []uuid.UUID
	)
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, req.Genre); err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []*entity.Genre{}
		}
		ids = genreIDs(genres)
		if ids == nil {
			ids = []uuid.UUID{}
		}
	}

	title.UpdatedAt = s.now()
	if err := s.repo.Title.Update(ctx, title, ids); err != nil {
		return nil, notFoundOr(err, s.msgs, "update title")
	}

	s.log.Info("Title updated", zap.String("title_id", title.ID.String()))

	if req.Genre != nil {
		return s.toResponse(ctx, title, genres)
	}
	return s.toResponse(ctx, title, nil)
}

// DeleteTitle removes the title with its reviews and their comments.
func (s *titleService) DeleteTitle(ctx context.Context, titleID string) error {
	id, err := parseID(titleID, s.msgs)
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, id); err != nil {
		return notFoundOr(err, s.msgs, "delete title")
	}
	return nil
}

func (s *titleService) findTitle(ctx context.Context, titleID string) (*entity.Title, error) {
	id, err := parseID(titleID, s.msgs)
	if err != nil {
		return nil, err
	}

	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("find title", err)
	}
	if title == nil {
		return nil, apperror.NotFound(s.msgs.NotFound)
	}
	return title, nil
}

func (s *titleService) checkYear(year int) error {
	if year > s.now().Year() {
		return apperror.FieldError("year", s.msgs.FutureYear)
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*uuid.UUID, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}

	category, err := s.repo.Category.FindBySlug(ctx, *slug)
	if err != nil {
		return nil, apperror.Internal("find category", err)
	}
	if category == nil {
		return nil, apperror.FieldError("category", fmt.Sprintf(s.msgs.UnknownSlug, *slug))
	}
	return &category.ID, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, apperror.Internal("find genres", err)
	}

	found := make(map[string]bool, len(genres))
	for _, genre := range genres {
		found[genre.Slug] = true
	}
	for _, slug := range unique {
		if !found[slug] {
			return nil, apperror.FieldError("genre", fmt.Sprintf(s.msgs.UnknownSlug, slug))
		}
	}

	return genres, nil
}

// toResponse loads whatever the caller has not already resolved.
func (s *titleService) toResponse(ctx context.Context, title *entity.Title, genres []*entity.Genre) (*response.TitleResponse, error) {
	var category *entity.Category
	if title.CategoryID != nil {
		var err error
		category, err = s.repo.Category.FindByID(ctx, *title.CategoryID)
		if err != nil {
			return nil, apperror.Internal("find category", err)
		}
	}

	if genres == nil {
		var err error
		genres, err = s.repo.Genre.FindByTitleID(ctx, title.ID)
		if err != nil {
			return nil, apperror.Internal("find title genres", err)
		}
	}

	resp := response.TitleToResponse(title, category, genres)
	return &resp, nil
}

func genreIDs(genres []*entity.Genre) []uuid.UUID {
	if len(genres) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(genres))
	for i, genre := range genres {
		ids[i] = genre.ID
	}
	return ids
}
