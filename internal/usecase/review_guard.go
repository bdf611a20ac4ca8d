package usecase

import (
	"context"
	"fmt"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/metrics"
	"yamdb/pkg/errs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reviewGuard keeps one review per (author, title). CheckCreate only gives
// the common case a friendly error early; the unique constraint behind
// ReviewRepository.Create decides races.
type reviewGuard struct {
	reviews repository.ReviewRepository
	log     *zap.Logger
}

func (g reviewGuard) CheckCreate(ctx context.Context, authorID, titleID uuid.UUID) error {
	existing, err := g.reviews.FindByAuthorAndTitle(ctx, authorID, titleID)
	if err != nil {
		return fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		metrics.DuplicateReviewsTotal.WithLabelValues("precheck").Inc()
		g.log.Info("Duplicate review rejected",
			zap.String("author_id", authorID.String()),
			zap.String("title_id", titleID.String()),
			zap.String("existing_review_id", existing.ID.String()),
		)
		return errs.ErrDuplicateReview
	}
	return nil
}

func (g reviewGuard) CheckMutate(p access.Principal, op access.Operation, review *entity.Review) error {
	return requireInstance(p, op, access.Review(review))
}
