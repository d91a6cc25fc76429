package repositories

import (
	"context"

	"sosmed/internal/models"
)

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string, page Page) ([]models.Comment, error)
	// PostIDsByAuthor returns the distinct posts the user has commented on.
	PostIDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	// DeleteByAuthorOrPosts removes the user's comments and every comment
	// hanging off the given posts.
	DeleteByAuthorOrPosts(ctx context.Context, authorID string, postIDs []string) (int64, error)
}
