package usecase

import (
	"context"
	"errors"
	"testing"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"
	"yamdb/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Categories(t *testing.T) {
	f := newFixture(t, allowAll{})
	ctx := context.Background()
	admin := f.addUser("root", entity.RoleAdmin)
	mod := f.addUser("bob", entity.RoleModerator)

	req := &request.CategoryRequest{Name: "Films", Slug: "films"}

	_, err := f.svc.Catalog.CreateCategory(ctx, mod, req)
	assert.True(t, errors.Is(err, errs.ErrPermissionDenied))

	created, err := f.svc.Catalog.CreateCategory(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, "films", created.Slug)

	_, err = f.svc.Catalog.CreateCategory(ctx, admin, req)
	assert.True(t, errors.Is(err, errs.ErrSlugTaken))

	_, err = f.svc.Catalog.CreateCategory(ctx, admin, &request.CategoryRequest{Name: "Bad", Slug: "no spaces"})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	page, err := f.svc.Catalog.GetCategories(ctx, &request.PaginatedRequest{Search: "fil"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	require.NoError(t, f.svc.Catalog.DeleteCategory(ctx, admin, "films"))
	assert.True(t, errors.Is(f.svc.Catalog.DeleteCategory(ctx, admin, "films"), errs.ErrCategoryNotFound))
}

func TestCatalog_Genres(t *testing.T) {
	f := newFixture(t, allowAll{})
	ctx := context.Background()
	admin := f.addUser("root", entity.RoleAdmin)

	_, err := f.svc.Catalog.CreateGenre(ctx, access.Anonymous(), &request.GenreRequest{Name: "Drama", Slug: "drama"})
	assert.True(t, errors.Is(err, errs.ErrAuthRequired))

	_, err = f.svc.Catalog.CreateGenre(ctx, admin, &request.GenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	page, err := f.svc.Catalog.GetGenres(ctx, &request.PaginatedRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Drama", page.Data[0].Name)

	require.NoError(t, f.svc.Catalog.DeleteGenre(ctx, admin, "drama"))
	assert.True(t, errors.Is(f.svc.Catalog.DeleteGenre(ctx, admin, "drama"), errs.ErrGenreNotFound))
}
