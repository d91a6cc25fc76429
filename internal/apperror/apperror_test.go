package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"sosmed/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedErrors(t *testing.T) {
	base := apperror.NotFound("post %s does not exist", "p-1")
	wrapped := fmt.Errorf("add comment: %w", base)

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(wrapped))
	assert.True(t, apperror.Is(wrapped, apperror.KindNotFound))
	assert.False(t, apperror.Is(wrapped, apperror.KindValidationFailed))
	assert.Equal(t, "post p-1 does not exist", apperror.Message(wrapped))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("connection reset by peer")

	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.False(t, apperror.Is(nil, apperror.KindInternal))
	assert.Equal(t, "Something went wrong!", apperror.Message(err))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperror.Wrap(apperror.KindDependencyUnavailable, cause, "could not upload media")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DEPENDENCY_UNAVAILABLE")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "could not upload media", apperror.Message(err))
}

func TestKindString(t *testing.T) {
	kinds := map[apperror.Kind]string{
		apperror.KindInternal:              "INTERNAL_ERROR",
		apperror.KindValidationFailed:      "VALIDATION_FAILED",
		apperror.KindDuplicateKey:          "DUPLICATE_KEY",
		apperror.KindNotFound:              "NOT_FOUND",
		apperror.KindAuthenticationFailed:  "AUTHENTICATION_FAILED",
		apperror.KindAuthorizationFailed:   "AUTHORIZATION_FAILED",
		apperror.KindWeakCredential:        "WEAK_CREDENTIAL",
		apperror.KindDependencyUnavailable: "DEPENDENCY_UNAVAILABLE",
		apperror.KindTransactionAborted:    "TRANSACTION_ABORTED",
	}
	for kind, want := range kinds {
		assert.Equal(t, want, kind.String())
	}
}
