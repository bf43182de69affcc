package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"media-review/internal/data/entity"
	"media-review/internal/dto/request"
	"media-review/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryService_ListClampsPerPage(t *testing.T) {
	repo, m := newRepoMocks(t)
	svc := NewCategoryService(repo.Category, testConfig().Messages, zap.NewNop())
	ctx := context.Background()

	m.category.On("FindAll", ctx, "", request.MaxPerPage, request.MaxPerPage).Return([]*entity.Category{}, nil)
	m.category.On("CountAll", ctx, "").Return(int64(250), nil)

	resp, err := svc.List(ctx, "", &request.PaginatedRequest{Page: 2, PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, request.MaxPerPage, resp.Pagination.PerPage)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestCategoryService_CreateDuplicateSlug(t *testing.T) {
	repo, m := newRepoMocks(t)
	msgs := testConfig().Messages
	svc := NewCategoryService(repo.Category, msgs, zap.NewNop())
	ctx := context.Background()

	m.category.On("Create", ctx, mock.AnythingOfType("*entity.Category")).
		Return(fmt.Errorf("insert category: %w", apperror.ErrDuplicate))

	_, err := svc.Create(ctx, &request.CategoryRequest{Name: "Movie", Slug: "movie"})

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, msgs.SlugTaken, appErr.Fields["slug"])
}
