package services

import (
	"context"
	"strings"

	"sosmed/internal/apperror"
	"sosmed/internal/logger"
	"sosmed/internal/models"
	"sosmed/internal/repositories"
)

// Coordinator runs the multi-entity writes of the content graph as atomic
// units against the store.
type Coordinator struct {
	store *repositories.Store
}

// NewCoordinator creates a Coordinator over store.
func NewCoordinator(store *repositories.Store) *Coordinator {
	return &Coordinator{store: store}
}

// UserDeletion describes what DeleteUser removed. The media references are
// returned so the caller can release them once the unit has committed.
type UserDeletion struct {
	User            models.User
	PostMedia       []models.MediaRef
	PostsDeleted    int64
	CommentsDeleted int64
	LikesDeleted    int64
}

// run executes fn in one transaction. Errors without a kind abort the unit
// as KindTransactionAborted.
func (c *Coordinator) run(ctx context.Context, op string, fn func(tx *repositories.Store) error) error {
	err := c.store.Transaction(ctx, fn)
	if err == nil {
		return nil
	}
	if apperror.KindOf(err) != apperror.KindInternal {
		return err
	}
	logger.Error.Printf("%s aborted: %v", op, err)
	return apperror.Wrap(apperror.KindTransactionAborted, err, "Something went wrong!")
}

// CreatePost inserts a post and appends it to its author's post list.
func (c *Coordinator) CreatePost(ctx context.Context, authorID, content string, media models.MediaRef) (*models.Post, error) {
	post := &models.Post{
		Content:  content,
		Media:    media,
		AuthorID: authorID,
	}
	if !post.HasBody() {
		return nil, apperror.Validation("A post must consist of either text or media or both!")
	}

	err := c.run(ctx, "create post", func(tx *repositories.Store) error {
		if _, err := tx.Users.GetByID(ctx, authorID); err != nil {
			return err
		}
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		return tx.Users.AddPostCount(ctx, authorID, 1)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment inserts a comment and appends it to the post's comment list.
func (c *Coordinator) AddComment(ctx context.Context, authorID, postID, text string) (*models.Comment, error) {
	if err := validatePostID(postID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Validation("Comment text is required!")
	}
	comment := &models.Comment{
		AuthorID: authorID,
		PostID:   postID,
		Text:     text,
	}

	err := c.run(ctx, "add comment", func(tx *repositories.Store) error {
		if _, err := tx.Posts.GetByID(ctx, postID); err != nil {
			return postLookupError(err)
		}
		if _, err := tx.Users.GetByID(ctx, authorID); err != nil {
			return err
		}
		if err := tx.Comments.Create(ctx, comment); err != nil {
			return err
		}
		return tx.Posts.AddCommentCount(ctx, postID, 1)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteUser removes a user together with everything that references them:
// their likes, their comments, their posts and whatever hangs off those posts.
func (c *Coordinator) DeleteUser(ctx context.Context, userID string) (*UserDeletion, error) {
	deletion := &UserDeletion{}

	err := c.run(ctx, "delete user", func(tx *repositories.Store) error {
		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		deletion.User = *user

		posts, err := tx.Posts.ByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		postIDs := make([]string, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
			if !p.Media.IsZero() {
				deletion.PostMedia = append(deletion.PostMedia, p.Media)
			}
		}

		commented, err := tx.Comments.PostIDsByAuthor(ctx, userID)
		if err != nil {
			return err
		}

		if deletion.LikesDeleted, err = tx.Likes.DeleteByUserOrPosts(ctx, userID, postIDs); err != nil {
			return err
		}
		if deletion.CommentsDeleted, err = tx.Comments.DeleteByAuthorOrPosts(ctx, userID, postIDs); err != nil {
			return err
		}
		if err := tx.Posts.RecountComments(ctx, survivors(commented, postIDs)); err != nil {
			return err
		}
		if deletion.PostsDeleted, err = tx.Posts.DeleteByAuthor(ctx, userID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return deletion, nil
}

func postLookupError(err error) error {
	if apperror.Is(err, apperror.KindNotFound) {
		return apperror.Wrap(apperror.KindNotFound, err, "Post does not exist!")
	}
	return err
}

// survivors returns the ids in ids that are not in removed.
func survivors(ids, removed []string) []string {
	gone := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := gone[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
