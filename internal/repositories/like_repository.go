package repositories

import (
	"context"
)

// LikeRepository manages post liker sets.
type LikeRepository interface {
	// Toggle flips the user's membership in the post's liker set and reports
	// whether the user now likes the post.
	Toggle(ctx context.Context, postID, userID string) (bool, error)
	LikerIDs(ctx context.Context, postID string) ([]string, error)
	// DeleteByUserOrPosts strips the user from every liker set and clears the
	// liker sets of the given posts.
	DeleteByUserOrPosts(ctx context.Context, userID string, postIDs []string) (int64, error)
}
