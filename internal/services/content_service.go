package services

import (
	"context"
	"fmt"
	"strings"

	"sosmed/internal/apperror"
	"sosmed/internal/logger"
	"sosmed/internal/models"
	"sosmed/internal/repositories"
)

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked bool
	Post  *models.Post
}

// ContentService handles business logic for posts, comments and likes.
type ContentService struct {
	store       *repositories.Store
	coordinator *Coordinator
	media       MediaStore
}

// NewContentService creates a new ContentService.
func NewContentService(store *repositories.Store, coordinator *Coordinator, media MediaStore) *ContentService {
	return &ContentService{
		store:       store,
		coordinator: coordinator,
		media:       media,
	}
}

// CreatePost uploads the optional media and then creates the post. The
// upload is released again when the post cannot be created.
func (s *ContentService) CreatePost(ctx context.Context, authorID, content string, file []byte) (*models.Post, error) {
	if strings.TrimSpace(content) == "" && len(file) == 0 {
		return nil, apperror.Validation("A post must consist of either text or media or both!")
	}

	var ref models.MediaRef
	if len(file) > 0 {
		var err error
		if ref, err = s.media.Upload(ctx, file); err != nil {
			return nil, asDependencyError(err, "Unable to upload post media")
		}
	}

	post, err := s.coordinator.CreatePost(ctx, authorID, content, ref)
	if err != nil {
		if ref.PublicID != "" {
			if delErr := s.media.Delete(ctx, ref.PublicID); delErr != nil {
				logger.Warn.Printf("failed to release media %s: %v", ref.PublicID, delErr)
			}
		}
		return nil, err
	}
	return post, nil
}

// AddComment attaches a comment to a post.
func (s *ContentService) AddComment(ctx context.Context, authorID, postID, text string) (*models.Comment, error) {
	return s.coordinator.AddComment(ctx, authorID, postID, text)
}

// ToggleLike flips the user's like on a post and returns the post with its
// current liker set.
func (s *ContentService) ToggleLike(ctx context.Context, userID, postID string) (*LikeResult, error) {
	if err := validatePostID(postID); err != nil {
		return nil, err
	}
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, postLookupError(err)
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	liked, err := s.store.Likes.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postLookupError(err)
	}
	return &LikeResult{Liked: liked, Post: post}, nil
}

// ListComments returns a post's comments, newest first.
func (s *ContentService) ListComments(ctx context.Context, postID string, page repositories.Page) ([]models.Comment, error) {
	if err := validatePostID(postID); err != nil {
		return nil, err
	}
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, postLookupError(err)
	}
	comments, err := s.store.Comments.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of post %s: %w", postID, err)
	}
	return comments, nil
}

// ListPosts returns the global feed.
func (s *ContentService) ListPosts(ctx context.Context, page repositories.Page) ([]models.Post, error) {
	posts, err := s.store.Posts.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListUserPosts returns the posts of the user with the given username.
func (s *ContentService) ListUserPosts(ctx context.Context, username string, page repositories.Page) ([]models.Post, error) {
	username = normalizeIdentity(username)
	if username == "" {
		return nil, apperror.Validation("Username is required!")
	}
	user, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, err, "User does not exist!")
		}
		return nil, err
	}
	posts, err := s.store.Posts.ListByAuthor(ctx, user.ID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of %s: %w", username, err)
	}
	return posts, nil
}
