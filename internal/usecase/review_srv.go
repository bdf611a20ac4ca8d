package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/metrics"
	"yamdb/pkg/errs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, p access.Principal, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, p access.Principal, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, p access.Principal, titleID, reviewID string) error
}

type reviewService struct {
	repo  *repository.Repository
	guard reviewGuard
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	log = log.With(zap.String("service", "review"))
	return &reviewService{
		repo:  repo,
		guard: reviewGuard{reviews: repo.Review, log: log},
		log:   log,
	}
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	title, err := findTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}

	limit, offset := req.PageLimit(), req.PageOffset()

	reviews, err := s.repo.Review.FindByTitleID(ctx, title.ID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get title reviews", zap.Error(err), zap.String("title_id", titleID))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	total, err := s.repo.Review.CountByTitleID(ctx, title.ID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, r := range reviews {
		items[i] = response.ReviewToResponse(r)
	}
	return response.NewPaginatedResponse(items, limit, offset, total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := findReview(ctx, s.repo.Review, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, p access.Principal, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := requireAccess(p, access.OpCreate, access.ClassReview); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	title, err := findTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CheckCreate(ctx, p.UserID, title.ID); err != nil {
		return nil, err
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		TitleID:  title.ID,
		AuthorID: p.UserID,
		Author:   p.Username,
		Text:     req.Text,
		Score:    req.Score,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, errs.ErrDuplicateReview) {
			metrics.DuplicateReviewsTotal.WithLabelValues("constraint").Inc()
		}
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("author", p.Username),
		zap.String("title_id", title.ID.String()),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, p access.Principal, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := requireAccess(p, access.OpUpdate, access.ClassReview); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	review, err := findReview(ctx, s.repo.Review, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckMutate(p, access.OpUpdate, review); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Review updated",
		zap.String("review_id", review.ID.String()),
		zap.String("by", p.Username),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, p access.Principal, titleID, reviewID string) error {
	if err := requireAccess(p, access.OpDelete, access.ClassReview); err != nil {
		return err
	}

	review, err := findReview(ctx, s.repo.Review, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckMutate(p, access.OpDelete, review); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return err
	}

	s.log.Info("Review deleted",
		zap.String("review_id", review.ID.String()),
		zap.String("author", review.Author),
		zap.String("by", p.Username),
	)
	return nil
}

func findTitle(ctx context.Context, titles repository.TitleRepository, titleID string) (*entity.Title, error) {
	id, err := parseID(titleID, errs.ErrTitleNotFound)
	if err != nil {
		return nil, err
	}

	title, err := titles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title %s: %w", titleID, err)
	}
	if title == nil {
		return nil, errs.ErrTitleNotFound
	}
	return title, nil
}

// findReview loads a review and checks it belongs to the title in the path.
func findReview(ctx context.Context, reviews repository.ReviewRepository, titleID, reviewID string) (*entity.Review, error) {
	tid, err := parseID(titleID, errs.ErrTitleNotFound)
	if err != nil {
		return nil, err
	}
	rid, err := parseID(reviewID, errs.ErrReviewNotFound)
	if err != nil {
		return nil, err
	}

	review, err := reviews.FindByID(ctx, rid)
	if err != nil {
		return nil, fmt.Errorf("find review %s: %w", reviewID, err)
	}
	if review == nil || review.TitleID != tid {
		return nil, errs.ErrReviewNotFound
	}
	return review, nil
}
