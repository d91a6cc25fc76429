package repositories

import (
	"context"

	"sosmed/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	// GetByIdentifier resolves a login identity: username, email or national id.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// AddPostCount adjusts the length of the user's post list.
	AddPostCount(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}
