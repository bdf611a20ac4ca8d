package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/pkg/errs"
	"yamdb/pkg/notify"

	"github.com/google/uuid"
)

// memStore backs every stub repository with one lock, the way a single
// database would.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	categories map[uuid.UUID]*entity.Category
	genres     map[uuid.UUID]*entity.Genre
	titles     map[uuid.UUID]*entity.Title
	links      map[uuid.UUID][]uuid.UUID // title -> genres
	reviews    map[uuid.UUID]*entity.Review
	comments   map[uuid.UUID]*entity.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]*entity.User{},
		categories: map[uuid.UUID]*entity.Category{},
		genres:     map[uuid.UUID]*entity.Genre{},
		titles:     map[uuid.UUID]*entity.Title{},
		links:      map[uuid.UUID][]uuid.UUID{},
		reviews:    map[uuid.UUID]*entity.Review{},
		comments:   map[uuid.UUID]*entity.Comment{},
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:     memUsers{m},
		Category: memCategories{m},
		Genre:    memGenres{m},
		Title:    memTitles{m},
		Review:   memReviews{m},
		Comment:  memComments{m},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func contains(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// users

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.users {
		if other.Email == u.Email {
			return errs.ErrEmailTaken
		}
		if other.Username == u.Username {
			return errs.ErrUsernameTaken
		}
	}
	c := *u
	r.m.users[u.ID] = &c
	return nil
}

func (r memUsers) find(match func(*entity.User) bool) *entity.User {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.DeletedAt == nil && match(u) {
			c := *u
			return &c
		}
	}
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r memUsers) all(search string) []*entity.User {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.User
	for _, u := range r.m.users {
		if u.DeletedAt == nil && contains(u.Username, search) {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r memUsers) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.User, error) {
	return page(r.all(search), limit, offset), nil
}

func (r memUsers) CountAll(_ context.Context, search string) (int64, error) {
	return int64(len(r.all(search))), nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.users[u.ID]
	if !ok || stored.DeletedAt != nil {
		return errs.ErrUserNotFound
	}
	for _, other := range r.m.users {
		if other.ID == u.ID {
			continue
		}
		if other.Email == u.Email {
			return errs.ErrEmailTaken
		}
		if other.Username == u.Username {
			return errs.ErrUsernameTaken
		}
	}
	c := *u
	r.m.users[u.ID] = &c
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok || u.DeletedAt != nil {
		return errs.ErrUserNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (r memUsers) MarkLoggedIn(_ context.Context, id uuid.UUID, prev *time.Time, at time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok || u.DeletedAt != nil {
		return false, nil
	}
	cur := u.LastLoginAt
	if (cur == nil) != (prev == nil) || (cur != nil && !cur.Equal(*prev)) {
		return false, nil
	}
	u.LastLoginAt = &at
	return true, nil
}

// categories

type memCategories struct{ m *memStore }

func (r memCategories) Create(_ context.Context, c *entity.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.categories {
		if other.Slug == c.Slug {
			return errs.ErrSlugTaken
		}
	}
	cp := *c
	r.m.categories[c.ID] = &cp
	return nil
}

func (r memCategories) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memCategories) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uuid.UUID]*entity.Category{}
	for _, id := range ids {
		if c, ok := r.m.categories[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}

func (r memCategories) all(search string) []*entity.Category {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.m.categories {
		if contains(c.Name, search) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memCategories) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	return page(r.all(search), limit, offset), nil
}

func (r memCategories) CountAll(_ context.Context, search string) (int64, error) {
	return int64(len(r.all(search))), nil
}

func (r memCategories) DeleteBySlug(_ context.Context, slug string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, c := range r.m.categories {
		if c.Slug == slug {
			delete(r.m.categories, id)
			for _, t := range r.m.titles {
				if t.CategoryID != nil && *t.CategoryID == id {
					t.CategoryID = nil
				}
			}
			return nil
		}
	}
	return errs.ErrCategoryNotFound
}

// genres

type memGenres struct{ m *memStore }

func (r memGenres) Create(_ context.Context, g *entity.Genre) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.genres {
		if other.Slug == g.Slug {
			return errs.ErrSlugTaken
		}
	}
	cp := *g
	r.m.genres[g.ID] = &cp
	return nil
}

func (r memGenres) FindBySlug(_ context.Context, slug string) (*entity.Genre, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, g := range r.m.genres {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memGenres) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Genre, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Genre
	for _, g := range r.m.genres {
		for _, s := range slugs {
			if g.Slug == s {
				cp := *g
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (r memGenres) FindByTitleIDs(_ context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := map[uuid.UUID][]*entity.Genre{}
	for _, tid := range titleIDs {
		for _, gid := range r.m.links[tid] {
			if g, ok := r.m.genres[gid]; ok {
				cp := *g
				out[tid] = append(out[tid], &cp)
			}
		}
	}
	return out, nil
}

func (r memGenres) all(search string) []*entity.Genre {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Genre
	for _, g := range r.m.genres {
		if contains(g.Name, search) {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memGenres) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	return page(r.all(search), limit, offset), nil
}

func (r memGenres) CountAll(_ context.Context, search string) (int64, error) {
	return int64(len(r.all(search))), nil
}

func (r memGenres) DeleteBySlug(_ context.Context, slug string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, g := range r.m.genres {
		if g.Slug == slug {
			delete(r.m.genres, id)
			return nil
		}
	}
	return errs.ErrGenreNotFound
}

// titles

type memTitles struct{ m *memStore }

func (r memTitles) Create(_ context.Context, t *entity.Title, genreIDs []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *t
	r.m.titles[t.ID] = &cp
	r.m.links[t.ID] = append([]uuid.UUID(nil), genreIDs...)
	return nil
}

func (r memTitles) FindByID(_ context.Context, id uuid.UUID) (*entity.Title, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.titles[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r memTitles) matching(f repository.TitleFilter) []*entity.Title {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Title
	for _, t := range r.m.titles {
		if !contains(t.Name, f.Name) || (f.Year != nil && t.Year != *f.Year) {
			continue
		}
		if f.Category != "" {
			c, ok := r.m.categories[derefID(t.CategoryID)]
			if !ok || c.Slug != f.Category {
				continue
			}
		}
		if f.Genre != "" && !r.hasGenre(t.ID, f.Genre) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memTitles) hasGenre(titleID uuid.UUID, slug string) bool {
	for _, gid := range r.m.links[titleID] {
		if g, ok := r.m.genres[gid]; ok && g.Slug == slug {
			return true
		}
	}
	return false
}

func derefID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func (r memTitles) FindAll(_ context.Context, f repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	return page(r.matching(f), limit, offset), nil
}

func (r memTitles) CountAll(_ context.Context, f repository.TitleFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

func (r memTitles) Update(_ context.Context, t *entity.Title, genreIDs []uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.titles[t.ID]; !ok {
		return errs.ErrTitleNotFound
	}
	cp := *t
	r.m.titles[t.ID] = &cp
	if genreIDs != nil {
		r.m.links[t.ID] = append([]uuid.UUID(nil), genreIDs...)
	}
	return nil
}

func (r memTitles) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.titles[id]; !ok {
		return errs.ErrTitleNotFound
	}
	delete(r.m.titles, id)
	delete(r.m.links, id)
	for rid, rv := range r.m.reviews {
		if rv.TitleID == id {
			delete(r.m.reviews, rid)
		}
	}
	return nil
}

// reviews

type memReviews struct{ m *memStore }

// Create enforces UNIQUE(author_id, title_id) under the store lock.
func (r memReviews) Create(_ context.Context, rv *entity.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.reviews {
		if other.AuthorID == rv.AuthorID && other.TitleID == rv.TitleID {
			return errs.ErrDuplicateReview
		}
	}
	cp := *rv
	r.m.reviews[rv.ID] = &cp
	return nil
}

func (r memReviews) withAuthor(rv *entity.Review) *entity.Review {
	cp := *rv
	if u, ok := r.m.users[rv.AuthorID]; ok {
		cp.Author = u.Username
	}
	return &cp
}

func (r memReviews) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rv, ok := r.m.reviews[id]
	if !ok {
		return nil, nil
	}
	return r.withAuthor(rv), nil
}

func (r memReviews) byTitle(titleID uuid.UUID) []*entity.Review {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.m.reviews {
		if rv.TitleID == titleID {
			out = append(out, r.withAuthor(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r memReviews) FindByTitleID(_ context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return page(r.byTitle(titleID), limit, offset), nil
}

func (r memReviews) FindByAuthorAndTitle(_ context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	for _, rv := range r.byTitle(titleID) {
		if rv.AuthorID == authorID {
			return rv, nil
		}
	}
	return nil, nil
}

func (r memReviews) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	return int64(len(r.byTitle(titleID))), nil
}

func (r memReviews) Update(_ context.Context, rv *entity.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.reviews[rv.ID]
	if !ok {
		return errs.ErrReviewNotFound
	}
	stored.Text = rv.Text
	stored.Score = rv.Score
	return nil
}

func (r memReviews) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviews[id]; !ok {
		return errs.ErrReviewNotFound
	}
	delete(r.m.reviews, id)
	return nil
}

func (r memReviews) Scores(_ context.Context, titleID uuid.UUID) ([]int, error) {
	var scores []int
	for _, rv := range r.byTitle(titleID) {
		scores = append(scores, rv.Score)
	}
	return scores, nil
}

func (r memReviews) AverageScores(_ context.Context, titleIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	out := map[uuid.UUID]float64{}
	for _, id := range titleIDs {
		reviews := r.byTitle(id)
		if len(reviews) == 0 {
			continue
		}
		sum := 0
		for _, rv := range reviews {
			sum += rv.Score
		}
		out[id] = float64(sum) / float64(len(reviews))
	}
	return out, nil
}

// comments

type memComments struct{ m *memStore }

func (r memComments) Create(_ context.Context, c *entity.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *c
	r.m.comments[c.ID] = &cp
	return nil
}

func (r memComments) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	if u, ok := r.m.users[c.AuthorID]; ok {
		cp.Author = u.Username
	}
	return &cp, nil
}

func (r memComments) byReview(reviewID uuid.UUID) []*entity.Comment {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Comment
	for _, c := range r.m.comments {
		if c.ReviewID == reviewID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r memComments) FindByReviewID(_ context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	return page(r.byReview(reviewID), limit, offset), nil
}

func (r memComments) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	return int64(len(r.byReview(reviewID))), nil
}

func (r memComments) Update(_ context.Context, c *entity.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.comments[c.ID]
	if !ok {
		return errs.ErrCommentNotFound
	}
	stored.Text = c.Text
	return nil
}

func (r memComments) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[id]; !ok {
		return errs.ErrCommentNotFound
	}
	delete(r.m.comments, id)
	return nil
}

// outbox records queued mail.
type outbox struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (o *outbox) Enqueue(msg notify.Message) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return true
}

func (o *outbox) messages() []notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Message(nil), o.sent...)
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string, string) (bool, error) { return false, nil }

type allowAll struct{}

func (allowAll) Allow(context.Context, string, string) (bool, error) { return true, nil }
