package repository

import (
	"context"
	"fmt"

	"media-review/internal/data/entity"
	"media-review/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TitleGenreRepository manages the title_genres bridge table. Every method
// takes an Executor so the links can be written inside the title transaction.
type TitleGenreRepository interface {
	CreateBatch(ctx context.Context, exec database.Executor, links []*entity.TitleGenre) error
	DeleteByTitleID(ctx context.Context, exec database.Executor, titleID uuid.UUID) error
}

type titleGenreRepository struct {
	log *zap.Logger
}

func NewTitleGenreRepository(log *zap.Logger) TitleGenreRepository {
	return &titleGenreRepository{
		log: log.With(zap.String("repository", "title_genre")),
	}
}

func (r *titleGenreRepository) CreateBatch(ctx context.Context, exec database.Executor, links []*entity.TitleGenre) error {
	if len(links) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO title_genres (title_id, genre_id) VALUES `
	args := make([]any, 0, len(links)*2)

	for i, link := range links {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)

		args = append(args, link.TitleID, link.GenreID)
	}
	query += " ON CONFLICT DO NOTHING"

	_, err := exec.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch title_genres",
			zap.Error(err),
			zap.Int("count", len(links)),
		)
		return fmt.Errorf("create batch title_genres: %w", err)
	}

	return nil
}

func (r *titleGenreRepository) DeleteByTitleID(ctx context.Context, exec database.Executor, titleID uuid.UUID) error {
	query := `DELETE FROM title_genres WHERE title_id = $1`

	_, err := exec.Exec(ctx, query, titleID)
	if err != nil {
		r.log.Error("Failed to delete title_genres by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return fmt.Errorf("delete title_genres for title %s: %w", titleID.String(), err)
	}

	return nil
}
