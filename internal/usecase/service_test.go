package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"media-review/internal/data/repository"
	"media-review/internal/data/repository/mocks"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type sentMail struct {
	to, subject, body string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
}

func (d *fakeDispatcher) Dispatch(to, subject, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMail{to: to, subject: subject, body: body})
}

func (d *fakeDispatcher) Sent() []sentMail {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]sentMail(nil), d.sent...)
}

type fakeIssuer struct {
	token string
}

func (f fakeIssuer) GenerateAccessToken(userID uuid.UUID, username string) (string, time.Time, error) {
	return f.token, time.Now().Add(time.Hour), nil
}

type repoMocks struct {
	user     *mocks.UserRepository
	category *mocks.CategoryRepository
	genre    *mocks.GenreRepository
	title    *mocks.TitleRepository
	review   *mocks.ReviewRepository
	comment  *mocks.CommentRepository
}

func newRepoMocks(t *testing.T) (*repository.Repository, *repoMocks) {
	m := &repoMocks{
		user:     &mocks.UserRepository{},
		category: &mocks.CategoryRepository{},
		genre:    &mocks.GenreRepository{},
		title:    &mocks.TitleRepository{},
		review:   &mocks.ReviewRepository{},
		comment:  &mocks.CommentRepository{},
	}
	t.Cleanup(func() {
		m.user.AssertExpectations(t)
		m.category.AssertExpectations(t)
		m.genre.AssertExpectations(t)
		m.title.AssertExpectations(t)
		m.review.AssertExpectations(t)
		m.comment.AssertExpectations(t)
	})

	return &repository.Repository{
		User:     m.user,
		Category: m.category,
		Genre:    m.genre,
		Title:    m.title,
		Review:   m.review,
		Comment:  m.comment,
	}, m
}

func testConfig() *utils.Config {
	return &utils.Config{
		Confirmation: utils.ConfirmationConfig{CodeLength: 32},
		Messages:     utils.DefaultMessages(),
	}
}

func TestParseID(t *testing.T) {
	msgs := utils.DefaultMessages()

	id := uuid.New()
	got, err := parseID(id.String(), msgs)
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("not-a-uuid", msgs)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestNotFoundOr(t *testing.T) {
	msgs := utils.DefaultMessages()

	err := notFoundOr(errors.Join(errors.New("delete"), pgx.ErrNoRows), msgs, "delete thing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = notFoundOr(errors.New("connection reset"), msgs, "delete thing")
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
