package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"consignparts/internal/model"
)

// ConsignerFilter narrows consigner listings. All supplied filters are
// combined with AND; zero values are ignored.
type ConsignerFilter struct {
	Name string // substring, case-insensitive
	Code string // substring, case-insensitive
	Date string // exact created date, YYYY-MM-DD
}

// UserRepository defines persistence operations for consigners and admins.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListConsigners(ctx context.Context, filter ConsignerFilter) ([]model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error)
	DeleteWithParts(ctx context.Context, id uint) error
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

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively, like the login form.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListConsigners(ctx context.Context, filter ConsignerFilter) ([]model.User, error) {
	q := r.db.WithContext(ctx).Where("is_admin = ?", false)

	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Code != "" {
		q = q.Where("LOWER(code) LIKE ?", "%"+strings.ToLower(filter.Code)+"%")
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	var users []model.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("code = ? AND id <> ?", code, excludeID).
		Count(&count).Error
	return count > 0, err
}

// DeleteWithParts removes a user and all owned parts atomically.
func (r *userRepository) DeleteWithParts(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Part{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
