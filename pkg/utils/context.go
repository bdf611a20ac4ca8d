package utils

import (
	"context"

	"yamdb/internal/access"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// SetPrincipal stores the caller identity resolved by the auth middleware.
func SetPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipalFromContext returns the anonymous principal when none was set.
func GetPrincipalFromContext(ctx context.Context) access.Principal {
	p, ok := ctx.Value(PrincipalKey).(access.Principal)
	if !ok {
		return access.Anonymous()
	}
	return p
}
