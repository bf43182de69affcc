package usecase

import (
	"context"
	"errors"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/data/repository"
	"media-review/internal/dto/request"
	"media-review/internal/dto/response"
	"media-review/internal/permission"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, actor permission.Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor permission.Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor permission.Actor, titleID, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository
	msgs utils.Messages
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, msgs utils.Messages, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		msgs: msgs,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, title.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal("get reviews", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, title.ID)
	if err != nil {
		return nil, apperror.Internal("count reviews", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(reviewResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// CreateReview allows one review per (author, title).
func (s *reviewService) CreateReview(ctx context.Context, actor permission.Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := permission.Check(actor, permission.ResourceReview, permission.ActionCreate, uuid.Nil, s.msgs); err != nil {
		return nil, err
	}

	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if err := validationError(req, s.msgs); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.ID, title.ID)
	if err != nil {
		return nil, apperror.Internal("check existing review", err)
	}
	if existing != nil {
		return nil, apperror.Validation(s.msgs.DuplicateReview, nil)
	}

	review := &entity.Review{
		ID:             uuid.New(),
		TitleID:        title.ID,
		AuthorID:       actor.ID,
		Text:           req.Text,
		Score:          req.Score,
		PubDate:        time.Now(),
		AuthorUsername: actor.Username,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, apperror.Validation(s.msgs.DuplicateReview, nil)
		}
		return nil, apperror.Internal("create review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", title.ID.String()),
		zap.String("author_id", actor.ID.String()),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor permission.Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := permission.AuthorOrStaff(actor, permission.ResourceReview, permission.ActionUpdate, review.AuthorID).Err(s.msgs); err != nil {
		return nil, err
	}

	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, notFoundOr(err, s.msgs, "update review")
	}

	s.log.Info("Review updated",
		zap.String("review_id", review.ID.String()),
		zap.String("by", actor.ID.String()),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor permission.Actor, titleID, reviewID string) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := permission.AuthorOrStaff(actor, permission.ResourceReview, permission.ActionDelete, review.AuthorID).Err(s.msgs); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return notFoundOr(err, s.msgs, "delete review")
	}

	s.log.Info("Review deleted",
		zap.String("review_id", review.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	return nil
}

func (s *reviewService) findTitle(ctx context.Context, titleID string) (*entity.Title, error) {
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

// findReview loads a review through its title; a review under another title is not found.
func (s *reviewService) findReview(ctx context.Context, titleID, reviewID string) (*entity.Review, error) {
	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	id, err := parseID(reviewID, s.msgs)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("find review", err)
	}
	if review == nil || review.TitleID != title.ID {
		return nil, apperror.NotFound(s.msgs.NotFound)
	}
	return review, nil
}
