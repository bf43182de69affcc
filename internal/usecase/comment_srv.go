package usecase

import (
	"context"
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

type CommentService interface {
	GetComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, actor permission.Actor, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID string, req *request.CommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo    *repository.Repository
	reviews *reviewService
	msgs    utils.Messages
	log     *zap.Logger
}

func NewCommentService(repo *repository.Repository, msgs utils.Messages, log *zap.Logger) CommentService {
	return &commentService{
		repo:    repo,
		reviews: &reviewService{repo: repo, msgs: msgs, log: log},
		msgs:    msgs,
		log:     log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	review, err := s.reviews.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, review.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal("get comments", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, review.ID)
	if err != nil {
		return nil, apperror.Internal("count comments", err)
	}

	commentResponses := make([]response.CommentResponse, len(comments))
	for i, comment := range comments {
		commentResponses[i] = response.CommentToResponse(comment)
	}

	return response.NewPaginatedResponse(commentResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor permission.Actor, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := permission.Check(actor, permission.ResourceComment, permission.ActionCreate, uuid.Nil, s.msgs); err != nil {
		return nil, err
	}

	review, err := s.reviews.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:             uuid.New(),
		ReviewID:       review.ID,
		AuthorID:       actor.ID,
		Text:           req.Text,
		PubDate:        time.Now(),
		AuthorUsername: actor.Username,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, apperror.Internal("create comment", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", review.ID.String()),
		zap.String("author_id", actor.ID.String()),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := permission.AuthorOrStaff(actor, permission.ResourceComment, permission.ActionUpdate, comment.AuthorID).Err(s.msgs); err != nil {
		return nil, err
	}

	if err := validationError(req, s.msgs); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		return nil, notFoundOr(err, s.msgs, "update comment")
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID string) error {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := permission.AuthorOrStaff(actor, permission.ResourceComment, permission.ActionDelete, comment.AuthorID).Err(s.msgs); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return notFoundOr(err, s.msgs, "delete comment")
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", comment.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	review, err := s.reviews.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	id, err := parseID(commentID, s.msgs)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("find comment", err)
	}
	if comment == nil || comment.ReviewID != review.ID {
		return nil, apperror.NotFound(s.msgs.NotFound)
	}
	return comment, nil
}
