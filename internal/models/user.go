package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FullName       string    `json:"full_name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	NationalID     *string   `json:"national_id,omitempty" gorm:"uniqueIndex;type:varchar(32)" validate:"omitempty,min=1,max=32"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null" validate:"required"` // bcrypt hash, never plaintext
	ProfilePicture MediaRef  `json:"profile_picture" gorm:"embedded;embeddedPrefix:profile_picture_"`
	PostCount      int       `json:"post_count" gorm:"not null;default:0"`
	Posts          []Post    `json:"posts,omitempty" gorm:"foreignKey:AuthorID" validate:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserHandle is the public face of a user embedded in posts and comments.
type UserHandle struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username"`
}

func (UserHandle) TableName() string {
	return "users"
}

// BeforeCreate enforces required fields and formats at write time.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	return validateEntity("user", u)
}
