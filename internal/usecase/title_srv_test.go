package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"media-review/internal/data/entity"
	"media-review/internal/dto/request"
	"media-review/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTitleService(t *testing.T) (TitleService, *repoMocks) {
	repo, m := newRepoMocks(t)
	return NewTitleService(repo, testConfig().Messages, zap.NewNop()), m
}

func genreFixture(slug string) *entity.Genre {
	return &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: slug, Slug: slug}
}

func TestTitleService_CreateRejectsFutureYear(t *testing.T) {
	svc, _ := newTitleService(t)

	_, err := svc.CreateTitle(context.Background(), &request.TitleRequest{
		Name: "Upcoming",
		Year: time.Now().Year() + 1,
	})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, testConfig().Messages.FutureYear, appErr.Fields["year"])
}

func TestTitleService_CreateWithCategoryAndGenres(t *testing.T) {
	svc, m := newTitleService(t)
	ctx := context.Background()

	category := &entity.Category{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: "Movie", Slug: "movie"}
	drama, comedy := genreFixture("drama"), genreFixture("comedy")

	m.category.On("FindBySlug", ctx, "movie").Return(category, nil)
	m.genre.On("FindBySlugs", ctx, []string{"drama", "comedy"}).Return([]*entity.Genre{drama, comedy}, nil)
	m.title.On("Create", ctx, mock.AnythingOfType("*entity.Title"), []uuid.UUID{drama.ID, comedy.ID}).Return(nil)
	m.category.On("FindByID", ctx, category.ID).Return(category, nil)

	resp, err := svc.CreateTitle(ctx, &request.TitleRequest{
		Name:     "Now",
		Year:     time.Now().Year(),
		Category: strPtr("movie"),
		Genre:    []string{"drama", "drama", "comedy"},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Rating)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "movie", resp.Category.Slug)
	assert.Len(t, resp.Genre, 2)
}

func TestTitleService_CreateRejectsUnknownGenre(t *testing.T) {
	svc, m := newTitleService(t)
	ctx := context.Background()

	m.genre.On("FindBySlugs", ctx, []string{"drama", "missing"}).Return([]*entity.Genre{genreFixture("drama")}, nil)

	_, err := svc.CreateTitle(ctx, &request.TitleRequest{
		Name:  "Lost",
		Year:  1999,
		Genre: []string{"drama", "missing"},
	})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields["genre"], "missing")
	m.title.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleService_UpdateKeepsGenresWhenOmitted(t *testing.T) {
	svc, m := newTitleService(t)
	ctx := context.Background()

	title := &entity.Title{Base: entity.Base{ID: uuid.New()}, Name: "Old", Year: 2000}
	drama := genreFixture("drama")

	m.title.On("FindByID", ctx, title.ID).Return(title, nil)
	m.title.On("Update", ctx, title, []uuid.UUID(nil)).Return(nil)
	m.genre.On("FindByTitleID", ctx, title.ID).Return([]*entity.Genre{drama}, nil)

	resp, err := svc.UpdateTitle(ctx, title.ID.String(), &request.TitleUpdateRequest{Name: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", resp.Name)
	assert.Len(t, resp.Genre, 1)
}

func TestTitleService_UpdateClearsGenresWithEmptyList(t *testing.T) {
	svc, m := newTitleService(t)
	ctx := context.Background()

	title := &entity.Title{Base: entity.Base{ID: uuid.New()}, Name: "Old", Year: 2000}

	m.title.On("FindByID", ctx, title.ID).Return(title, nil)
	m.title.On("Update", ctx, title, []uuid.UUID{}).Return(nil)

	resp, err := svc.UpdateTitle(ctx, title.ID.String(), &request.TitleUpdateRequest{Genre: []string{}})
	require.NoError(t, err)
	assert.Empty(t, resp.Genre)
}

func TestTitleService_GetByMalformedID(t *testing.T) {
	svc, _ := newTitleService(t)

	_, err := svc.GetTitleByID(context.Background(), "42")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
