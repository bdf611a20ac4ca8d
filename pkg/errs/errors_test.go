package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create review: %w", ErrDuplicateReview)

	assert.True(t, errors.Is(wrapped, ErrDuplicateReview))
	assert.False(t, errors.Is(wrapped, ErrSlugTaken))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to load title", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFieldBuildsValidation(t *testing.T) {
	err := Field("score", "must be between 1 and 10")

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "must be between 1 and 10", err.Fields["score"])
}
