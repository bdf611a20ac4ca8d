package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignupThrottle limits how often a confirmation code is mailed for the same
// (username, email) pair. A nil throttle allows everything.
//
// Key format: signup:<username>:<email>
type SignupThrottle struct {
	client setNXer
	window time.Duration
}

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

func NewSignupThrottle(client setNXer, window time.Duration) *SignupThrottle {
	if client == nil || window <= 0 {
		return nil
	}
	return &SignupThrottle{client: client, window: window}
}

// Allow reports whether a code may be sent now and, if so, starts a new
// window. Only the first caller inside a window gets true.
func (t *SignupThrottle) Allow(ctx context.Context, username, email string) (bool, error) {
	if t == nil {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, t.key(username, email), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("signup throttle: %w", err)
	}
	return ok, nil
}

func (t *SignupThrottle) key(username, email string) string {
	return fmt.Sprintf("signup:%s:%s", username, strings.ToLower(email))
}
