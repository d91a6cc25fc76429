package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the entity repositories over one connection or one
// transaction. It is the only path to the database.
type Store struct {
	db       *gorm.DB
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
	Likes    LikeRepository
}

// NewStore creates a Store whose repositories share db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewGORMUserRepository(db),
		Posts:    NewGORMPostRepository(db),
		Comments: NewGORMCommentRepository(db),
		Likes:    NewGORMLikeRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back on error or panic.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
