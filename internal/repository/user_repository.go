package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"carfleet/internal/model"
)

// UserRepository defines persistence operations for staff accounts.
//
// Every lookup goes through the active-only scope: model.User carries a
// gorm.DeletedAt marker, so GORM appends `deleted_at IS NULL` to each query
// issued here. There is no method that can hand a soft-deleted user to the
// auth path.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindActiveByID(ctx context.Context, id uint) (*model.User, error)
	FindActiveByUsername(ctx context.Context, username string) (*model.User, error)
	// FindActiveByUsernameExcluding matches an active username belonging to a
	// different user, used for duplicate checks on rename.
	FindActiveByUsernameExcluding(ctx context.Context, username string, excludeID uint) (*model.User, error)
	ListActive(ctx context.Context) ([]model.User, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindActiveByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveByUsernameExcluding(ctx context.Context, username string, excludeID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND id <> ?", username, excludeID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("is_admin = ?", true).
		Count(&count).Error
	return count, err
}

// SoftDelete marks the user removed. GORM's Delete on a model with
// gorm.DeletedAt sets the timestamp instead of removing the row.
func (r *userRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err is the store's record-missing error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
