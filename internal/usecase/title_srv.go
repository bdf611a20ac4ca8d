package usecase

import (
	"context"
	"fmt"
	"strings"
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

type TitleService interface {
	GetTitles(ctx context.Context, filter *request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitle(ctx context.Context, titleID string) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, p access.Principal, req *request.TitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, p access.Principal, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, p access.Principal, titleID string) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetTitles(ctx context.Context, filter *request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	limit, offset := req.PageLimit(), req.PageOffset()
	f := repository.TitleFilter{
		Category: filter.Category,
		Genre:    filter.Genre,
		Name:     filter.Name,
		Year:     filter.Year,
	}

	titles, err := s.repo.Title.FindAll(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	total, err := s.repo.Title.CountAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	items, err := s.toResponses(ctx, titles)
	if err != nil {
		return nil, err
	}
	return response.NewPaginatedResponse(items, limit, offset, total), nil
}

// toResponses batches the rating, genre and category lookups for a page.
func (s *titleService) toResponses(ctx context.Context, titles []*entity.Title) ([]response.TitleResponse, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(titles))
	var categoryIDs []uuid.UUID
	for i, t := range titles {
		ids[i] = t.ID
		if t.CategoryID != nil {
			categoryIDs = append(categoryIDs, *t.CategoryID)
		}
	}

	averages, err := s.repo.Review.AverageScores(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("title ratings: %w", err)
	}
	genres, err := s.repo.Genre.FindByTitleIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("title genres: %w", err)
	}
	categories, err := s.repo.Category.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("title categories: %w", err)
	}

	items := make([]response.TitleResponse, len(titles))
	for i, t := range titles {
		var rating *float64
		if avg, ok := averages[t.ID]; ok {
			rating = roundRating(avg)
		}
		var category *entity.Category
		if t.CategoryID != nil {
			category = categories[*t.CategoryID]
		}
		items[i] = response.TitleToResponse(t, rating, genres[t.ID], category)
	}
	return items, nil
}

func (s *titleService) toResponse(ctx context.Context, title *entity.Title) (*response.TitleResponse, error) {
	scores, err := s.repo.Review.Scores(ctx, title.ID)
	if err != nil {
		return nil, fmt.Errorf("title scores: %w", err)
	}
	genres, err := s.repo.Genre.FindByTitleIDs(ctx, []uuid.UUID{title.ID})
	if err != nil {
		return nil, fmt.Errorf("title genres: %w", err)
	}

	var category *entity.Category
	if title.CategoryID != nil {
		categories, err := s.repo.Category.FindByIDs(ctx, []uuid.UUID{*title.CategoryID})
		if err != nil {
			return nil, fmt.Errorf("title category: %w", err)
		}
		category = categories[*title.CategoryID]
	}

	resp := response.TitleToResponse(title, Rating(scores), genres[title.ID], category)
	return &resp, nil
}

func (s *titleService) GetTitle(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	title, err := findTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, title)
}

func (s *titleService) CreateTitle(ctx context.Context, p access.Principal, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := requireAccess(p, access.OpCreate, access.ClassTitle); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("genres", len(genreIDs)),
	)

	return s.toResponse(ctx, title)
}

func (s *titleService) UpdateTitle(ctx context.Context, p access.Principal, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := requireAccess(p, access.OpUpdate, access.ClassTitle); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	title, err := findTitle(ctx, s.repo.Title, titleID)
	if err != nil {
		return nil, err
	}
	if err := requireInstance(p, access.OpUpdate, access.Catalog(access.ClassTitle)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	var genreIDs []uuid.UUID
	if req.Genre != nil {
		if genreIDs, err = s.resolveGenres(ctx, req.Genre); err != nil {
			return nil, err
		}
		if genreIDs == nil {
			genreIDs = []uuid.UUID{}
		}
	}
	title.UpdatedAt = time.Now()

	if err := s.repo.Title.Update(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	s.log.Info("Title updated", zap.String("title_id", title.ID.String()), zap.String("by", p.Username))

	return s.toResponse(ctx, title)
}

func (s *titleService) DeleteTitle(ctx context.Context, p access.Principal, titleID string) error {
	if err := requireAccess(p, access.OpDelete, access.ClassTitle); err != nil {
		return err
	}

	id, err := parseID(titleID, errs.ErrTitleNotFound)
	if err != nil {
		return err
	}
	if err := s.repo.Title.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Title deleted", zap.String("title_id", titleID), zap.String("by", p.Username))
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*uuid.UUID, error) {
	if slug == nil {
		return nil, nil
	}

	category, err := s.repo.Category.FindBySlug(ctx, *slug)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", *slug, err)
	}
	if category == nil {
		return nil, errs.Field("category", fmt.Sprintf("Unknown category %q", *slug))
	}
	return &category.ID, nil
}

// resolveGenres maps slugs to ids. Every slug must exist.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	found := make(map[string]uuid.UUID, len(genres))
	for _, g := range genres {
		found[g.Slug] = g.ID
	}

	var missing []string
	ids := make([]uuid.UUID, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := found[slug]
		if !ok {
			missing = append(missing, slug)
			continue
		}
		ids = append(ids, id)
	}
	if len(missing) > 0 {
		return nil, errs.Field("genre", "Unknown genre: "+strings.Join(missing, ", "))
	}
	return ids, nil
}
