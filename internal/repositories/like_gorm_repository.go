package repositories

import (
	"context"

	"sosmed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{
		db: db,
	}
}

// Toggle runs as two single-statement writes against the persisted set, never
// as a read-modify-write: a delete that removed the row means unlike,
// otherwise an insert that ignores a concurrent duplicate means like.
func (r *GORMLikeRepository) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, translate(res.Error, "unlike post %s", postID)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &models.Like{PostID: postID, UserID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return false, translate(err, "like on post %s", postID)
	}
	return true, nil
}

func (r *GORMLikeRepository) LikerIDs(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).Order("created_at").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, translate(err, "likers of post %s", postID)
	}
	return ids, nil
}

func (r *GORMLikeRepository) DeleteByUserOrPosts(ctx context.Context, userID string, postIDs []string) (int64, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(postIDs) > 0 {
		q = q.Or("post_id IN ?", postIDs)
	}
	res := q.Delete(&models.Like{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete likes of user %s", userID)
	}
	return res.RowsAffected, nil
}
