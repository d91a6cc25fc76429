package services

import (
	"context"

	"sosmed/internal/models"
)

// MediaStore uploads and releases media objects. Failures surface as
// KindDependencyUnavailable so the requesting operation can be aborted.
type MediaStore interface {
	Upload(ctx context.Context, data []byte) (models.MediaRef, error)
	Delete(ctx context.Context, publicID string) error
}

// Notifier delivers out-of-band messages to users. Delivery is fire-and-forget:
// callers log failures and carry on.
type Notifier interface {
	// SendWelcome greets a new user. generatedPassword is empty unless the
	// password was generated on the user's behalf.
	SendWelcome(ctx context.Context, email, generatedPassword string) error
}
