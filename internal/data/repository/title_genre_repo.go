package repository

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func newTitleGenres(titleID uuid.UUID, genreIDs []uuid.UUID, now time.Time) []*entity.TitleGenre {
	links := make([]*entity.TitleGenre, 0, len(genreIDs))
	seen := make(map[uuid.UUID]bool, len(genreIDs))
	for _, genreID := range genreIDs {
		if seen[genreID] {
			continue
		}
		seen[genreID] = true
		links = append(links, &entity.TitleGenre{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			TitleID:    titleID,
			GenreID:    genreID,
		})
	}
	return links
}

// insertTitleGenres writes all links in a single statement.
func insertTitleGenres(ctx context.Context, q execer, links []*entity.TitleGenre) error {
	if len(links) == 0 {
		return nil
	}

	query := `INSERT INTO title_genres (id, title_id, genre_id, created_at) VALUES `
	args := make([]any, 0, len(links)*4)

	for i, tg := range links {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, tg.ID, tg.TitleID, tg.GenreID, tg.CreatedAt)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %d title_genres: %w", len(links), err)
	}
	return nil
}

func deleteTitleGenres(ctx context.Context, q execer, titleID uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("delete title_genres of %s: %w", titleID, err)
	}
	return nil
}
