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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages categories and genres.
type CatalogService interface {
	GetCategories(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	CreateCategory(ctx context.Context, p access.Principal, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, p access.Principal, slug string) error

	GetGenres(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	CreateGenre(ctx context.Context, p access.Principal, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, p access.Principal, slug string) error
}

type catalogService struct {
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	log        *zap.Logger
}

func NewCatalogService(categories repository.CategoryRepository, genres repository.GenreRepository, log *zap.Logger) CatalogService {
	return &catalogService{
		categories: categories,
		genres:     genres,
		log:        log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetCategories(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	limit, offset := req.PageLimit(), req.PageOffset()

	categories, err := s.categories.FindAll(ctx, req.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	total, err := s.categories.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	items := make([]response.CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = response.CategoryToResponse(c)
	}
	return response.NewPaginatedResponse(items, limit, offset, total), nil
}

func (s *catalogService) CreateCategory(ctx context.Context, p access.Principal, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := requireAccess(p, access.OpCreate, access.ClassCategory); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       req.Slug,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Info("Category created", zap.String("slug", category.Slug), zap.String("by", p.Username))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, p access.Principal, slug string) error {
	if err := requireAccess(p, access.OpDelete, access.ClassCategory); err != nil {
		return err
	}
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		return err
	}

	s.log.Info("Category deleted", zap.String("slug", slug), zap.String("by", p.Username))
	return nil
}

func (s *catalogService) GetGenres(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	limit, offset := req.PageLimit(), req.PageOffset()

	genres, err := s.genres.FindAll(ctx, req.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	total, err := s.genres.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	items := make([]response.GenreResponse, len(genres))
	for i, g := range genres {
		items[i] = response.GenreToResponse(g)
	}
	return response.NewPaginatedResponse(items, limit, offset, total), nil
}

func (s *catalogService) CreateGenre(ctx context.Context, p access.Principal, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := requireAccess(p, access.OpCreate, access.ClassGenre); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       req.Slug,
	}
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, err
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug), zap.String("by", p.Username))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, p access.Principal, slug string) error {
	if err := requireAccess(p, access.OpDelete, access.ClassGenre); err != nil {
		return err
	}
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		return err
	}

	s.log.Info("Genre deleted", zap.String("slug", slug), zap.String("by", p.Username))
	return nil
}
