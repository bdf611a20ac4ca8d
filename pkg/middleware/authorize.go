package middleware

import (
	"net/http"

	"yamdb/internal/access"
	"yamdb/internal/metrics"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Authorize runs the collection-level check for op on class before the
// handler. Object-level checks happen in the services once the object is
// loaded.
func Authorize(op access.Operation, class access.ResourceClass, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := utils.GetPrincipalFromContext(r.Context())

			if access.CanAccess(p, op, class) {
				metrics.AuthzDecisionsTotal.WithLabelValues(string(class), string(op), "allow").Inc()
				next.ServeHTTP(w, r)
				return
			}

			if !p.IsAuthenticated() {
				metrics.AuthzDecisionsTotal.WithLabelValues(string(class), string(op), "unauthorized").Inc()
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			metrics.AuthzDecisionsTotal.WithLabelValues(string(class), string(op), "forbidden").Inc()
			logger.Warn("Permission denied",
				zap.String("user_id", p.UserID.String()),
				zap.String("role", string(p.Role)),
				zap.String("op", string(op)),
				zap.String("class", string(class)),
				zap.String("path", r.URL.Path),
			)
			utils.ResponseForbidden(w, "You do not have permission to perform this action")
		})
	}
}
