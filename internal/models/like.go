package models

import "time"

// Like is one membership of a user in a post's liker set. The composite key
// keeps a (post, user) pair to a single row.
type Like struct {
	PostID    string    `json:"post_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36);index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID" validate:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "post_likes"
}
