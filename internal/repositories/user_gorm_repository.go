package repositories

import (
	"context"

	"sosmed/internal/apperror"
	"sosmed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "user %s", user.Username)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "user with ID "+id, "id = ?", id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "user with username "+username, "username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "user with email "+email, "email = ?", email)
}

// GetByNationalID retrieves a user by their national id from the database.
func (r *GORMUserRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	return r.first(ctx, "user with national id "+nationalID, "national_id = ?", nationalID)
}

func (r *GORMUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.first(ctx, "user "+identifier,
		"username = ? OR email = ? OR national_id = ?", identifier, identifier, identifier)
}

func (r *GORMUserRepository) first(ctx context.Context, what string, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, translate(err, "%s", what)
	}
	return &user, nil
}

func (r *GORMUserRepository) AddPostCount(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("post_count", gorm.Expr("post_count + ?", delta))
	if res.Error != nil {
		return translate(res.Error, "update post list of user %s", id)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user with ID %s not found", id)
	}
	return nil
}

// Delete deletes a user by their ID from the database.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete user %s", id)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user with ID %s not found for deletion", id)
	}
	return nil
}
