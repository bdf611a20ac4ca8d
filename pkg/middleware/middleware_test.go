package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/access"
	"yamdb/internal/data/entity"
	"yamdb/pkg/errs"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubAuth struct {
	principal access.Principal
	err       error
	gotToken  string
}

func (s *stubAuth) Authenticate(_ context.Context, raw string) (access.Principal, error) {
	s.gotToken = raw
	return s.principal, s.err
}

// echoPrincipal writes the username of the principal in the context.
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(p.Username))
})

func TestAuthenticate(t *testing.T) {
	alice := access.Principal{UserID: uuid.New(), Username: "alice", Role: entity.RoleUser}

	tests := []struct {
		name       string
		header     string
		auth       *stubAuth
		wantStatus int
		wantBody   string
	}{
		{"no header is anonymous", "", &stubAuth{}, http.StatusOK, ""},
		{"valid token", "Bearer good", &stubAuth{principal: alice}, http.StatusOK, "alice"},
		{"lowercase scheme", "bearer good", &stubAuth{principal: alice}, http.StatusOK, "alice"},
		{"wrong scheme", "Token good", &stubAuth{principal: alice}, http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", &stubAuth{principal: alice}, http.StatusUnauthorized, ""},
		{"rejected token", "Bearer bad", &stubAuth{err: errs.ErrInvalidToken}, http.StatusUnauthorized, ""},
		{"store failure", "Bearer good", &stubAuth{err: errors.New("db down")}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticate(tt.auth, zap.NewNop())(echoPrincipal).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	user := access.Principal{UserID: uuid.New(), Username: "alice", Role: entity.RoleUser}
	admin := access.Principal{UserID: uuid.New(), Username: "root", Role: entity.RoleAdmin}

	tests := []struct {
		name       string
		p          access.Principal
		op         access.Operation
		class      access.ResourceClass
		wantStatus int
	}{
		{"anonymous read", access.Anonymous(), access.OpRead, access.ClassTitle, http.StatusOK},
		{"anonymous write", access.Anonymous(), access.OpCreate, access.ClassReview, http.StatusUnauthorized},
		{"user writes review", user, access.OpCreate, access.ClassReview, http.StatusOK},
		{"user writes catalog", user, access.OpCreate, access.ClassGenre, http.StatusForbidden},
		{"admin writes catalog", admin, access.OpDelete, access.ClassCategory, http.StatusOK},
		{"anonymous lists users", access.Anonymous(), access.OpRead, access.ClassIdentity, http.StatusUnauthorized},
		{"user creates user", user, access.OpCreate, access.ClassIdentity, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(utils.SetPrincipal(req.Context(), tt.p))
			rec := httptest.NewRecorder()

			Authorize(tt.op, tt.class, zap.NewNop())(echoPrincipal).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecover(t *testing.T) {
	panics := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()

	Recover(zap.NewNop())(panics).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":false`)
}

func TestRateLimiter(t *testing.T) {
	rl, err := NewRateLimiter(utils.RateLimitConfig{RPS: 0.001, Burst: 2, Clients: 10}, zap.NewNop())
	assert.NoError(t, err)
	h := rl.Handler(echoPrincipal)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"), "same host, new port")
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "other clients have their own bucket")
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	CORS()(echoPrincipal).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/titles", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/titles/{title_id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/titles/abc", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
