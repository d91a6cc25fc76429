package models

import (
	"strings"
	"time"

	"sosmed/internal/apperror"

	"gorm.io/gorm"
)

// Comment is a text reply attached to a post.
type Comment struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string      `json:"author_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	Author    *UserHandle `json:"author,omitempty" gorm:"foreignKey:AuthorID" validate:"-"`
	PostID    string      `json:"post_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	Text      string      `json:"text" gorm:"type:text;not null" validate:"required,max=2000"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(c.Text) == "" {
		return apperror.Validation("Comment text is required!")
	}
	return validateEntity("comment", c)
}
