package usecase

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/errs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, p access.Principal, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, p access.Principal, titleID, reviewID, commentID string, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, p access.Principal, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	review, err := findReview(ctx, s.repo.Review, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	limit, offset := req.PageLimit(), req.PageOffset()

	comments, err := s.repo.Comment.FindByReviewID(ctx, review.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	total, err := s.repo.Comment.CountByReviewID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	items := make([]response.CommentResponse, len(comments))
	for i, c := range comments {
		items[i] = response.CommentToResponse(c)
	}
	return response.NewPaginatedResponse(items, limit, offset, total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, p access.Principal, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := requireAccess(p, access.OpCreate, access.ClassComment); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	review, err := findReview(ctx, s.repo.Review, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ReviewID: review.ID,
		AuthorID: p.UserID,
		Author:   p.Username,
		Text:     req.Text,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", review.ID.String()),
		zap.String("author", p.Username),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, p access.Principal, titleID, reviewID, commentID string, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	if err := requireAccess(p, access.OpUpdate, access.ClassComment); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := requireInstance(p, access.OpUpdate, access.Comment(comment)); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}
	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, p access.Principal, titleID, reviewID, commentID string) error {
	if err := requireAccess(p, access.OpDelete, access.ClassComment); err != nil {
		return err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := requireInstance(p, access.OpDelete, access.Comment(comment)); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return err
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", comment.ID.String()),
		zap.String("by", p.Username),
	)
	return nil
}

// findComment walks title -> review -> comment so a comment is only found
// under its own review.
func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	review, err := findReview(ctx, s.repo.Review, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(commentID, errs.ErrCommentNotFound)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("find comment %s: %w", commentID, err)
	}
	if comment == nil || comment.ReviewID != review.ID {
		return nil, errs.ErrCommentNotFound
	}
	return comment, nil
}
