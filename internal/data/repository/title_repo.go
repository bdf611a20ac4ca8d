package repository

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"
	"yamdb/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter narrows title listings. Empty fields do not filter.
type TitleFilter struct {
	Category string // category slug
	Genre    string // genre slug
	Name     string // case-insensitive substring
	Year     *int
}

type TitleRepository interface {
	// Create inserts the title and its genre links in one transaction.
	Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	// Update saves the title. A nil genreIDs keeps the current genres.
	Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const titleFilterClause = `
		WHERE ($1 = '' OR c.slug = $1)
		  AND ($2 = '' OR EXISTS (
		        SELECT 1 FROM title_genres tg
		        INNER JOIN genres g ON g.id = tg.genre_id
		        WHERE tg.title_id = t.id AND g.slug = $2))
		  AND ($3 = '' OR t.name ILIKE '%' || $3 || '%')
		  AND ($4::int IS NULL OR t.year = $4)
`

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

func scanTitle(row pgx.Row) (*entity.Title, error) {
	var title entity.Title
	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.CreatedAt,
		&title.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create title: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	if err := insertTitleGenres(ctx, tx, newTitleGenres(title.ID, genreIDs, title.CreatedAt)); err != nil {
		r.log.Error("Failed to link title genres",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create title: %w", err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	query := `
		SELECT id, name, year, description, category_id, created_at, updated_at
		FROM titles
		WHERE id = $1
	`

	title, err := scanTitle(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title by ID %s: %w", id.String(), err)
	}

	return title, nil
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error) {
	query := `
		SELECT t.id, t.name, t.year, t.description, t.category_id, t.created_at, t.updated_at
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
	` + titleFilterClause + `
		ORDER BY t.name, t.id
		LIMIT $5 OFFSET $6
	`

	rows, err := r.db.Query(ctx, query, filter.Category, filter.Genre, filter.Name, filter.Year, limit, offset)
	if err != nil {
		r.log.Error("Failed to list titles",
			zap.Error(err),
			zap.Any("filter", filter),
		)
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate title rows: %w", err)
	}

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
	` + titleFilterClause

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.Category, filter.Genre, filter.Name, filter.Year).Scan(&count); err != nil {
		r.log.Error("Failed to count titles", zap.Error(err))
		return 0, fmt.Errorf("count titles: %w", err)
	}

	return count, nil
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update title: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return errs.ErrTitleNotFound
	}

	if genreIDs != nil {
		if err := deleteTitleGenres(ctx, tx, title.ID); err != nil {
			return err
		}
		if err := insertTitleGenres(ctx, tx, newTitleGenres(title.ID, genreIDs, title.UpdatedAt)); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update title: %w", err)
	}

	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return errs.ErrTitleNotFound
	}

	r.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}
