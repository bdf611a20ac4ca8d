package middleware

import (
	"context"
	"net/http"
	"strings"

	"yamdb/internal/access"
	"yamdb/pkg/errs"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a bearer token. usecase.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (access.Principal, error)
}

// Authenticate attaches the caller's principal to the request context.
// Requests without an Authorization header continue as anonymous; a header
// that is present but invalid is rejected.
func Authenticate(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(utils.SetPrincipal(r.Context(), access.Anonymous())))
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			p, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errs.KindOf(err) == errs.KindUnauthorized {
					logger.Warn("Rejected access token",
						zap.Error(err),
						zap.String("path", r.URL.Path),
					)
					utils.ResponseUnauthorized(w, errs.ErrInvalidToken.Message)
					return
				}
				logger.Error("Failed to authenticate request", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetPrincipal(r.Context(), p)))
		})
	}
}
