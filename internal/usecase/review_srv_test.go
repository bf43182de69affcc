package usecase

import (
	"context"
	"testing"

	"media-review/internal/data/entity"
	"media-review/internal/dto/request"
	"media-review/internal/permission"
	"media-review/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReviewService(t *testing.T) (ReviewService, *repoMocks) {
	repo, m := newRepoMocks(t)
	return NewReviewService(repo, testConfig().Messages, zap.NewNop()), m
}

func TestReviewService_CreateOnePerAuthor(t *testing.T) {
	svc, m := newReviewService(t)
	ctx := context.Background()

	author := actorFor(&entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Role: entity.RoleUser})
	title := &entity.Title{Base: entity.Base{ID: uuid.New()}}

	m.title.On("FindByID", ctx, title.ID).Return(title, nil)
	m.review.On("FindByAuthorAndTitle", ctx, author.ID, title.ID).Return(nil, nil).Once()
	m.review.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil).Once()

	resp, err := svc.CreateReview(ctx, author, title.ID.String(), &request.CreateReviewRequest{Text: "Great", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 9, resp.Score)

	m.review.On("FindByAuthorAndTitle", ctx, author.ID, title.ID).Return(&entity.Review{ID: uuid.New()}, nil).Once()

	_, err = svc.CreateReview(ctx, author, title.ID.String(), &request.CreateReviewRequest{Text: "Again", Score: 1})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestReviewService_CreateRejectsScoreOutOfRange(t *testing.T) {
	svc, m := newReviewService(t)
	ctx := context.Background()

	author := actorFor(&entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleUser})
	title := &entity.Title{Base: entity.Base{ID: uuid.New()}}
	m.title.On("FindByID", ctx, title.ID).Return(title, nil)

	_, err := svc.CreateReview(ctx, author, title.ID.String(), &request.CreateReviewRequest{Text: "Bad", Score: 11})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestReviewService_CreateRequiresAuthentication(t *testing.T) {
	svc, _ := newReviewService(t)

	_, err := svc.CreateReview(context.Background(), permission.Actor{}, uuid.NewString(), &request.CreateReviewRequest{Text: "x", Score: 5})
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}

func TestReviewService_UpdatePermissions(t *testing.T) {
	title := &entity.Title{Base: entity.Base{ID: uuid.New()}}
	authorID := uuid.New()
	newScore := 3

	cases := []struct {
		name  string
		actor permission.Actor
		kind  apperror.Kind
	}{
		{"author", actorFor(&entity.User{Base: entity.Base{ID: authorID}, Role: entity.RoleUser}), ""},
		{"moderator", actorFor(&entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleModerator}), ""},
		{"other user", actorFor(&entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleUser}), apperror.KindAuthorization},
		{"anonymous", permission.Actor{}, apperror.KindAuthentication},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newReviewService(t)
			review := &entity.Review{ID: uuid.New(), TitleID: title.ID, AuthorID: authorID, Text: "ok", Score: 7}

			m.title.On("FindByID", mock.Anything, title.ID).Return(title, nil)
			m.review.On("FindByID", mock.Anything, review.ID).Return(review, nil)
			if tc.kind == "" {
				m.review.On("Update", mock.Anything, review).Return(nil)
			}

			resp, err := svc.UpdateReview(context.Background(), tc.actor, title.ID.String(), review.ID.String(),
				&request.UpdateReviewRequest{Score: &newScore})

			if tc.kind == "" {
				require.NoError(t, err)
				assert.Equal(t, newScore, resp.Score)
				return
			}
			assert.Equal(t, tc.kind, apperror.KindOf(err))
		})
	}
}

func TestReviewService_ReviewUnderOtherTitleIsNotFound(t *testing.T) {
	svc, m := newReviewService(t)
	ctx := context.Background()

	title := &entity.Title{Base: entity.Base{ID: uuid.New()}}
	review := &entity.Review{ID: uuid.New(), TitleID: uuid.New()}

	m.title.On("FindByID", ctx, title.ID).Return(title, nil)
	m.review.On("FindByID", ctx, review.ID).Return(review, nil)

	_, err := svc.GetReview(ctx, title.ID.String(), review.ID.String())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCommentService_DeleteByModerator(t *testing.T) {
	repo, m := newRepoMocks(t)
	svc := NewCommentService(repo, testConfig().Messages, zap.NewNop())
	ctx := context.Background()

	title := &entity.Title{Base: entity.Base{ID: uuid.New()}}
	review := &entity.Review{ID: uuid.New(), TitleID: title.ID}
	comment := &entity.Comment{ID: uuid.New(), ReviewID: review.ID, AuthorID: uuid.New()}
	moderator := actorFor(&entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleModerator})

	m.title.On("FindByID", ctx, title.ID).Return(title, nil)
	m.review.On("FindByID", ctx, review.ID).Return(review, nil)
	m.comment.On("FindByID", ctx, comment.ID).Return(comment, nil)
	m.comment.On("Delete", ctx, comment.ID).Return(nil)

	err := svc.DeleteComment(ctx, moderator, title.ID.String(), review.ID.String(), comment.ID.String())
	assert.NoError(t, err)
}

func TestCommentService_CreateStampsAuthor(t *testing.T) {
	repo, m := newRepoMocks(t)
	svc := NewCommentService(repo, testConfig().Messages, zap.NewNop())
	ctx := context.Background()

	title := &entity.Title{Base: entity.Base{ID: uuid.New()}}
	review := &entity.Review{ID: uuid.New(), TitleID: title.ID}
	author := actorFor(&entity.User{Base: entity.Base{ID: uuid.New()}, Username: "bob", Role: entity.RoleUser})

	m.title.On("FindByID", ctx, title.ID).Return(title, nil)
	m.review.On("FindByID", ctx, review.ID).Return(review, nil)
	m.comment.On("Create", ctx, mock.MatchedBy(func(c *entity.Comment) bool {
		return c.AuthorID == author.ID && c.ReviewID == review.ID
	})).Return(nil)

	resp, err := svc.CreateComment(ctx, author, title.ID.String(), review.ID.String(), &request.CommentRequest{Text: "Agreed"})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Author)
}
