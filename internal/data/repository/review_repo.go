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

// reviewAuthorTitleKey is the constraint that allows one review per author
// and title.
const reviewAuthorTitleKey = "reviews_author_title_key"

type ReviewRepository interface {
	// Create returns errs.ErrDuplicateReview when the author already
	// reviewed the title, including when a concurrent insert won.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error)
	CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Scores returns every score of the title.
	Scores(ctx context.Context, titleID uuid.UUID) ([]int, error)
	// AverageScores returns AVG(score) per title. Titles without reviews
	// are absent from the map.
	AverageScores(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID]float64, error)
}

const reviewSelect = `
		SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.created_at
		FROM reviews r
		INNER JOIN users u ON u.id = r.author_id
`

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.CreatedAt,
	)

	if err != nil {
		if constraint, ok := uniqueViolationOn(err); ok && constraint == reviewAuthorTitleKey {
			r.log.Info("Duplicate review rejected by constraint",
				zap.String("author_id", review.AuthorID.String()),
				zap.String("title_id", review.TitleID.String()),
			)
			return errs.ErrDuplicateReview
		}
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", review.AuthorID.String()),
			zap.String("title_id", review.TitleID.String()),
		)
		return fmt.Errorf("create review for title %s by user %s: %w",
			review.TitleID.String(), review.AuthorID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by title ID %s: %w", titleID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	query := reviewSelect + ` WHERE r.author_id = $1 AND r.title_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, authorID, titleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by author and title",
			zap.Error(err),
			zap.String("author_id", authorID.String()),
			zap.String("title_id", titleID.String()),
		)
		return nil, fmt.Errorf("find review by author %s and title %s: %w",
			authorID.String(), titleID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews by title ID",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return 0, fmt.Errorf("count reviews by title ID %s: %w", titleID.String(), err)
	}

	return count, nil
}

// Update rewrites text and score. Author, title and publication date never
// change.
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result, err := r.db.Exec(ctx, `UPDATE reviews SET text = $2, score = $3 WHERE id = $1`,
		review.ID,
		review.Text,
		review.Score,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return errs.ErrReviewNotFound
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return errs.ErrReviewNotFound
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

func (r *reviewRepository) Scores(ctx context.Context, titleID uuid.UUID) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT score FROM reviews WHERE title_id = $1`, titleID)
	if err != nil {
		r.log.Error("Failed to get title scores",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return nil, fmt.Errorf("get scores for title %s: %w", titleID.String(), err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}

	return scores, nil
}

func (r *reviewRepository) AverageScores(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	averages := make(map[uuid.UUID]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return averages, nil
	}

	query := `
		SELECT title_id, AVG(score)::float8
		FROM reviews
		WHERE title_id = ANY($1)
		GROUP BY title_id
	`

	rows, err := r.db.Query(ctx, query, titleIDs)
	if err != nil {
		r.log.Error("Failed to get average scores",
			zap.Error(err),
			zap.Int("count", len(titleIDs)),
		)
		return nil, fmt.Errorf("get average scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID uuid.UUID
		var avg float64
		if err := rows.Scan(&titleID, &avg); err != nil {
			r.log.Error("Failed to scan average row", zap.Error(err))
			return nil, fmt.Errorf("scan average row: %w", err)
		}
		averages[titleID] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate average rows: %w", err)
	}

	return averages, nil
}
