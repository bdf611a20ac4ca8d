package usecase

import (
	"strings"
	"testing"
	"time"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fixture struct {
	svc   *Service
	store *memStore
	box   *outbox
}

func newFixture(t *testing.T, throttle Throttle) *fixture {
	t.Helper()

	cfg := &utils.Config{
		JWT:  utils.JWTConfig{Secret: testSecret, ExpiryHours: 1},
		Code: utils.CodeConfig{ExpiryMinutes: 60},
	}
	store := newMemStore()
	box := &outbox{}

	svc, err := NewService(store.repository(), cfg, box, throttle, zap.NewNop())
	require.NoError(t, err)

	return &fixture{svc: svc, store: store, box: box}
}

func (f *fixture) addUser(username string, role entity.Role) access.Principal {
	now := time.Now()
	u := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	f.store.mu.Lock()
	f.store.users[u.ID] = u
	f.store.mu.Unlock()
	return access.FromUser(u)
}

func (f *fixture) addTitle(name string) *entity.Title {
	now := time.Now()
	t := &entity.Title{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		Year:         2000,
	}
	f.store.mu.Lock()
	f.store.titles[t.ID] = t
	f.store.mu.Unlock()
	return t
}

func (f *fixture) addGenre(slug string) *entity.Genre {
	g := &entity.Genre{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       strings.ToUpper(slug[:1]) + slug[1:],
		Slug:       slug,
	}
	f.store.mu.Lock()
	f.store.genres[g.ID] = g
	f.store.mu.Unlock()
	return g
}

// lastCode pulls the confirmation code out of the newest queued message.
func (f *fixture) lastCode(t *testing.T) string {
	t.Helper()
	msgs := f.box.messages()
	require.NotEmpty(t, msgs)
	fields := strings.Fields(msgs[len(msgs)-1].Body)
	return fields[len(fields)-1]
}
