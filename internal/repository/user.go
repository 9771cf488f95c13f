// Package repository provides the data access layer for user profiles.
package repository

import (
	"context"
	"fmt"

	"github.com/freshcart-app/account-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

// UserRepository defines the interface for profile data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts the profile row. When a row with the same primary
	// key or email already exists the insert is skipped and Create
	// reports inserted=false with a nil error; the profile-creation
	// trigger racing this insert is expected, not a failure.
	Create(ctx context.Context, user *models.User) (inserted bool, err error)
	Update(ctx context.Context, user *models.User) error
	ListRiders(ctx context.Context, status models.ApprovalStatus) ([]models.User, error)
	FindRiderByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create user %s: %w", user.ID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) ListRiders(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", models.RoleRider)
	if status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var riders []models.User
	if err := query.Order("created_at DESC").Find(&riders).Error; err != nil {
		return nil, fmt.Errorf("failed to list riders: %w", err)
	}
	return riders, nil
}

func (r *userRepository) FindRiderByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var rider models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleRider).
		First(&rider).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find rider by id %s: %w", id, err)
	}
	return &rider, nil
}
