package models

import (
	"strings"
	"time"

	"sosmed/internal/apperror"

	"gorm.io/gorm"
)

// Post is a piece of user content: text, media or both.
type Post struct {
	ID           string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Content      string      `json:"content" gorm:"type:text"`
	Media        MediaRef    `json:"media" gorm:"embedded;embeddedPrefix:media_"`
	AuthorID     string      `json:"author_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	Author       *UserHandle `json:"author,omitempty" gorm:"foreignKey:AuthorID" validate:"-"`
	CommentCount int         `json:"comment_count" gorm:"not null;default:0"`
	Likes        []Like      `json:"likes" gorm:"foreignKey:PostID" validate:"-"`
	Comments     []Comment   `json:"comments" gorm:"foreignKey:PostID" validate:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// HasBody reports whether the post carries text or media.
func (p *Post) HasBody() bool {
	return strings.TrimSpace(p.Content) != "" || !p.Media.IsZero()
}

// LikerIDs returns the liker set in like order.
func (p *Post) LikerIDs() []string {
	ids := make([]string, 0, len(p.Likes))
	for _, l := range p.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

// BeforeCreate rejects posts with neither content nor media.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if !p.HasBody() {
		return apperror.Validation("A post must consist of either text or media or both!")
	}
	return validateEntity("post", p)
}
