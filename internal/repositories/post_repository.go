package repositories

import (
	"context"

	"sosmed/internal/models"
)

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns the global feed, newest first, with shallow expansions.
	List(ctx context.Context, page Page) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, page Page) ([]models.Post, error)
	// ByAuthor returns the user's posts without expansions.
	ByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	// AddCommentCount adjusts the length of the post's comment list.
	AddCommentCount(ctx context.Context, id string, delta int) error
	// RecountComments recomputes the comment list length of the given posts.
	RecountComments(ctx context.Context, ids []string) error
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}
