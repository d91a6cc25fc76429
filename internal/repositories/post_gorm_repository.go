package repositories

import (
	"context"

	"sosmed/internal/apperror"
	"sosmed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts a new post.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translate(err, "post by author %s", post.AuthorID)
	}
	return nil
}

// GetByID retrieves a single post with its liker set.
func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Likes", orderByCreated("ASC")).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "post with ID %s", id)
	}
	return &post, nil
}

func (r *GORMPostRepository) List(ctx context.Context, page Page) ([]models.Post, error) {
	var posts []models.Post
	page = page.Normalize()
	err := withExpansions(r.db.WithContext(ctx)).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "list posts")
	}
	return posts, nil
}

func (r *GORMPostRepository) ListByAuthor(ctx context.Context, authorID string, page Page) ([]models.Post, error) {
	var posts []models.Post
	page = page.Normalize()
	err := withExpansions(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "list posts of user %s", authorID)
	}
	return posts, nil
}

// ByAuthor returns every post of authorID and locks the rows until the
// surrounding transaction ends, so writers touching them wait for it.
// SQLite has no row locks and ignores the clause.
func (r *GORMPostRepository) ByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("author_id = ?", authorID).Order("created_at").Find(&posts).Error
	if err != nil {
		return nil, translate(err, "posts of user %s", authorID)
	}
	return posts, nil
}

func (r *GORMPostRepository) AddCommentCount(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta))
	if res.Error != nil {
		return translate(res.Error, "update comment list of post %s", id)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Post does not exist!")
	}
	return nil
}

func (r *GORMPostRepository) RecountComments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id IN ?", ids).
		UpdateColumn("comment_count",
			gorm.Expr("(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)")).Error
	if err != nil {
		return translate(err, "recount comments")
	}
	return nil
}

func (r *GORMPostRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Post{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete posts of user %s", authorID)
	}
	return res.RowsAffected, nil
}

// withExpansions preloads the author handle, the liker set and the comment
// list (with each commenter's handle). Authors are never expanded past id and
// username.
func withExpansions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author", selectHandle).
		Preload("Likes", orderByCreated("ASC")).
		Preload("Comments", orderByCreated("DESC")).
		Preload("Comments.Author", selectHandle)
}

func selectHandle(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

func orderByCreated(direction string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at " + direction)
	}
}
