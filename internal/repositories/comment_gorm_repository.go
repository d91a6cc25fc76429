package repositories

import (
	"context"

	"sosmed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return translate(err, "comment on post %s", comment.PostID)
	}
	return nil
}

func (r *GORMCommentRepository) ListByPost(ctx context.Context, postID string, page Page) ([]models.Comment, error) {
	var comments []models.Comment
	page = page.Normalize()
	err := r.db.WithContext(ctx).
		Preload("Author", selectHandle).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "list comments of post %s", postID)
	}
	return comments, nil
}

func (r *GORMCommentRepository) PostIDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("author_id = ?", authorID).Distinct().Pluck("post_id", &ids).Error
	if err != nil {
		return nil, translate(err, "commented posts of user %s", authorID)
	}
	return ids, nil
}

func (r *GORMCommentRepository) DeleteByAuthorOrPosts(ctx context.Context, authorID string, postIDs []string) (int64, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if len(postIDs) > 0 {
		q = q.Or("post_id IN ?", postIDs)
	}
	res := q.Delete(&models.Comment{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete comments of user %s", authorID)
	}
	return res.RowsAffected, nil
}

var _ CommentRepository = (*GORMCommentRepository)(nil)
