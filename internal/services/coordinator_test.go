package services_test

import (
	"context"
	"errors"
	"testing"

	"sosmed/internal/apperror"
	"sosmed/internal/models"
	"sosmed/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCoordinator_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("Text, media or both", func(t *testing.T) {
		h := newHarness(t)
		author := h.createUser(t, "alice")
		media := models.MediaRef{PublicID: "m-1", URL: "/media/m-1.png"}

		inputs := []struct {
			content string
			media   models.MediaRef
		}{
			{"hello", models.MediaRef{}},
			{"", media},
			{"with picture", media},
		}
		for _, in := range inputs {
			post, err := h.coordinator.CreatePost(ctx, author.ID, in.content, in.media)
			require.NoError(t, err)
			assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.Post{}, "id = ? AND author_id = ?", post.ID, author.ID))
		}

		stored, err := h.store.Users.GetByID(ctx, author.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.PostCount)
	})

	t.Run("Empty post is rejected", func(t *testing.T) {
		h := newHarness(t)
		author := h.createUser(t, "bob")

		_, err := h.coordinator.CreatePost(ctx, author.ID, "   ", models.MediaRef{})

		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
		assert.Zero(t, testutil.Count(t, h.db, &models.Post{}, ""))
	})

	t.Run("Unknown author", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.coordinator.CreatePost(ctx, uuid.NewString(), "orphan", models.MediaRef{})

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.Zero(t, testutil.Count(t, h.db, &models.Post{}, ""))
	})
}

func TestCoordinator_CreatePostRollsBackOnFailureAfterInsert(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	author := h.createUser(t, "carol")
	require.NoError(t, h.db.Callback().Update().Before("gorm:update").
		Register("test:fail_post_count", func(tx *gorm.DB) {
			if tx.Statement.Table == "users" {
				tx.AddError(errors.New("injected failure"))
			}
		}))

	_, err := h.coordinator.CreatePost(ctx, author.ID, "never visible", models.MediaRef{})

	assert.Equal(t, apperror.KindTransactionAborted, apperror.KindOf(err))
	assert.Zero(t, testutil.Count(t, h.db, &models.Post{}, ""))
	stored, err := h.store.Users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.PostCount)
}

func TestCoordinator_AddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends to the comment list", func(t *testing.T) {
		h := newHarness(t)
		author := h.createUser(t, "dave")
		post, err := h.coordinator.CreatePost(ctx, author.ID, "post", models.MediaRef{})
		require.NoError(t, err)

		comment, err := h.coordinator.AddComment(ctx, author.ID, post.ID, "first!")
		require.NoError(t, err)

		stored, err := h.store.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.CommentCount)
		assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.Comment{}, "id = ? AND post_id = ?", comment.ID, post.ID))
	})

	t.Run("Missing post", func(t *testing.T) {
		h := newHarness(t)
		author := h.createUser(t, "erin")
		post, err := h.coordinator.CreatePost(ctx, author.ID, "post", models.MediaRef{})
		require.NoError(t, err)

		_, err = h.coordinator.AddComment(ctx, author.ID, uuid.NewString(), "hello?")

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.Equal(t, "Post does not exist!", apperror.Message(err))
		assert.Zero(t, testutil.Count(t, h.db, &models.Comment{}, ""))
		stored, err := h.store.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.CommentCount)
	})

	t.Run("Invalid input", func(t *testing.T) {
		h := newHarness(t)
		author := h.createUser(t, "frank")

		_, err := h.coordinator.AddComment(ctx, author.ID, "not-a-uuid", "text")
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))

		_, err = h.coordinator.AddComment(ctx, author.ID, uuid.NewString(), "  ")
		assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})
}

func TestCoordinator_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Strips posts, comments and likes", func(t *testing.T) {
		h := newHarness(t)
		owner := h.createUser(t, "grace")
		doomed := h.createUser(t, "heidi")

		survivor, err := h.coordinator.CreatePost(ctx, owner.ID, "owner post", models.MediaRef{})
		require.NoError(t, err)
		_, err = h.coordinator.AddComment(ctx, doomed.ID, survivor.ID, "bye")
		require.NoError(t, err)
		_, err = h.store.Likes.Toggle(ctx, survivor.ID, doomed.ID)
		require.NoError(t, err)

		media := models.MediaRef{PublicID: "m-9", URL: "/media/m-9.png"}
		own, err := h.coordinator.CreatePost(ctx, doomed.ID, "", media)
		require.NoError(t, err)
		_, err = h.coordinator.AddComment(ctx, owner.ID, own.ID, "nice")
		require.NoError(t, err)
		_, err = h.store.Likes.Toggle(ctx, own.ID, owner.ID)
		require.NoError(t, err)

		deletion, err := h.coordinator.DeleteUser(ctx, doomed.ID)
		require.NoError(t, err)

		assert.Equal(t, doomed.ID, deletion.User.ID)
		assert.Equal(t, []models.MediaRef{media}, deletion.PostMedia)
		assert.EqualValues(t, 1, deletion.PostsDeleted)
		assert.EqualValues(t, 2, deletion.CommentsDeleted)
		assert.EqualValues(t, 2, deletion.LikesDeleted)

		stored, err := h.store.Posts.GetByID(ctx, survivor.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.CommentCount)
		assert.Empty(t, stored.Likes)
		assert.Zero(t, testutil.Count(t, h.db, &models.Comment{}, ""))
		assert.Zero(t, testutil.Count(t, h.db, &models.Like{}, ""))
		assert.Zero(t, testutil.Count(t, h.db, &models.Post{}, "author_id = ?", doomed.ID))
		assert.Zero(t, testutil.Count(t, h.db, &models.User{}, "id = ?", doomed.ID))
		assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.User{}, "id = ?", owner.ID))
	})

	t.Run("Unknown user has no effect", func(t *testing.T) {
		h := newHarness(t)
		h.createUser(t, "ivan")

		_, err := h.coordinator.DeleteUser(ctx, uuid.NewString())

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.User{}, ""))
	})
}

func TestCoordinator_AddCommentRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	author := h.createUser(t, "judy")
	post, err := h.coordinator.CreatePost(ctx, author.ID, "post", models.MediaRef{})
	require.NoError(t, err)
	require.NoError(t, h.db.Callback().Update().Before("gorm:update").
		Register("test:fail_comment_count", func(tx *gorm.DB) {
			if tx.Statement.Table == "posts" {
				tx.AddError(errors.New("injected failure"))
			}
		}))

	_, err = h.coordinator.AddComment(ctx, author.ID, post.ID, "never visible")

	assert.Equal(t, apperror.KindTransactionAborted, apperror.KindOf(err))
	assert.Zero(t, testutil.Count(t, h.db, &models.Comment{}, ""))
	stored, err := h.store.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.CommentCount)
}

func TestCoordinator_DeleteUserRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.createUser(t, "karl")
	doomed := h.createUser(t, "lena")

	survivor, err := h.coordinator.CreatePost(ctx, owner.ID, "owner post", models.MediaRef{})
	require.NoError(t, err)
	_, err = h.coordinator.AddComment(ctx, doomed.ID, survivor.ID, "still here")
	require.NoError(t, err)
	_, err = h.store.Likes.Toggle(ctx, survivor.ID, doomed.ID)
	require.NoError(t, err)
	_, err = h.coordinator.CreatePost(ctx, doomed.ID, "own post", models.MediaRef{})
	require.NoError(t, err)

	require.NoError(t, h.db.Callback().Delete().Before("gorm:delete").
		Register("test:fail_user_delete", func(tx *gorm.DB) {
			if tx.Statement.Table == "users" {
				tx.AddError(errors.New("injected failure"))
			}
		}))

	_, err = h.coordinator.DeleteUser(ctx, doomed.ID)

	assert.Equal(t, apperror.KindTransactionAborted, apperror.KindOf(err))
	assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.Comment{}, "author_id = ?", doomed.ID))
	assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.Like{}, "user_id = ?", doomed.ID))
	assert.EqualValues(t, 1, testutil.Count(t, h.db, &models.Post{}, "author_id = ?", doomed.ID))
	assert.EqualValues(t, 2, testutil.Count(t, h.db, &models.User{}, ""))
	stored, err := h.store.Posts.GetByID(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount)
}
