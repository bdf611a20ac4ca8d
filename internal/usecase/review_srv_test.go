package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"
	"yamdb/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews_ModerationScenario(t *testing.T) {
	f := newFixture(t, allowAll{})
	ctx := context.Background()
	alice := f.addUser("alice", entity.RoleUser)
	bob := f.addUser("bob", entity.RoleModerator)
	t42 := f.addTitle("Title 42")
	other := f.addTitle("Other title")

	aliceReview, err := f.svc.Review.CreateReview(ctx, alice, t42.ID.String(), &request.CreateReviewRequest{Text: "good", Score: 8})
	require.NoError(t, err)
	assert.Equal(t, "alice", aliceReview.Author)

	_, err = f.svc.Review.CreateReview(ctx, alice, t42.ID.String(), &request.CreateReviewRequest{Text: "again", Score: 9})
	assert.True(t, errors.Is(err, errs.ErrDuplicateReview))
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	require.NoError(t, f.svc.Review.DeleteReview(ctx, bob, t42.ID.String(), aliceReview.ID))

	bobReview, err := f.svc.Review.CreateReview(ctx, bob, other.ID.String(), &request.CreateReviewRequest{Text: "meh", Score: 5})
	require.NoError(t, err)

	err = f.svc.Review.DeleteReview(ctx, alice, other.ID.String(), bobReview.ID)
	assert.True(t, errors.Is(err, errs.ErrPermissionDenied))
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestCreateReview_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t, allowAll{})
	alice := f.addUser("alice", entity.RoleUser)
	title := f.addTitle("Contested")

	const attempts = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Review.CreateReview(context.Background(), alice, title.ID.String(),
				&request.CreateReviewRequest{Text: "mine", Score: 7})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, errs.ErrDuplicateReview):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, duplicates)

	n, _ := f.store.repository().Review.CountByTitleID(context.Background(), title.ID)
	assert.EqualValues(t, 1, n)
}

func TestCreateReview_Rejections(t *testing.T) {
	f := newFixture(t, allowAll{})
	ctx := context.Background()
	alice := f.addUser("alice", entity.RoleUser)
	title := f.addTitle("Title")

	_, err := f.svc.Review.CreateReview(ctx, access.Anonymous(), title.ID.String(), &request.CreateReviewRequest{Text: "x", Score: 5})
	assert.True(t, errors.Is(err, errs.ErrAuthRequired))

	for _, score := range []int{0, 11} {
		_, err = f.svc.Review.CreateReview(ctx, alice, title.ID.String(), &request.CreateReviewRequest{Text: "x", Score: score})
		assert.Equal(t, errs.KindValidation, errs.KindOf(err), "score %d", score)
	}

	_, err = f.svc.Review.CreateReview(ctx, alice, "not-a-uuid", &request.CreateReviewRequest{Text: "x", Score: 5})
	assert.True(t, errors.Is(err, errs.ErrTitleNotFound))
}

func TestUpdateReview_Permissions(t *testing.T) {
	f := newFixture(t, allowAll{})
	ctx := context.Background()
	alice := f.addUser("alice", entity.RoleUser)
	carol := f.addUser("carol", entity.RoleUser)
	bob := f.addUser("bob", entity.RoleModerator)
	title := f.addTitle("Title")
	titleID := title.ID.String()

	created, err := f.svc.Review.CreateReview(ctx, alice, titleID, &request.CreateReviewRequest{Text: "ok", Score: 6})
	require.NoError(t, err)

	_, err = f.svc.Review.UpdateReview(ctx, carol, titleID, created.ID, &request.UpdateReviewRequest{Score: ptr(1)})
	assert.True(t, errors.Is(err, errs.ErrPermissionDenied))

	_, err = f.svc.Review.UpdateReview(ctx, access.Anonymous(), titleID, created.ID, &request.UpdateReviewRequest{Score: ptr(1)})
	assert.True(t, errors.Is(err, errs.ErrAuthRequired))

	updated, err := f.svc.Review.UpdateReview(ctx, alice, titleID, created.ID, &request.UpdateReviewRequest{Score: ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Score)
	assert.Equal(t, "ok", updated.Text)
	assert.True(t, created.PubDate.Equal(updated.PubDate), "pub_date is immutable")

	updated, err = f.svc.Review.UpdateReview(ctx, bob, titleID, created.ID, &request.UpdateReviewRequest{Text: ptr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, "alice", updated.Author)
}

func TestGetReview_WrongTitle(t *testing.T) {
	f := newFixture(t, allowAll{})
	ctx := context.Background()
	alice := f.addUser("alice", entity.RoleUser)
	a := f.addTitle("A")
	b := f.addTitle("B")

	created, err := f.svc.Review.CreateReview(ctx, alice, a.ID.String(), &request.CreateReviewRequest{Text: "ok", Score: 6})
	require.NoError(t, err)

	_, err = f.svc.Review.GetReview(ctx, b.ID.String(), created.ID)
	assert.True(t, errors.Is(err, errs.ErrReviewNotFound))

	got, err := f.svc.Review.GetReview(ctx, a.ID.String(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	page, err := f.svc.Review.GetTitleReviews(ctx, a.ID.String(), &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.EqualValues(t, 1, page.Pagination.Total)
}
