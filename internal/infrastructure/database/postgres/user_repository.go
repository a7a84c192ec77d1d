package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domainUser "smart-farm-monitor/internal/domain/user"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// UserRepository implements domain user.Repository on GORM.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	dbModel := toUserModel(u)
	dbModel.CreatedAt = time.Now()
	if dbModel.Role == "" {
		dbModel.Role = "user"
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if isUniqueViolation(err) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.Role = dbModel.Role
	u.CreatedAt = dbModel.CreatedAt
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("user_id = ?", userID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) NicknameInUse(ctx context.Context, nickname string, excludeUserID uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("nickname = ? AND user_id != ?", nickname, excludeUserID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID uint, nickname, farmLocation, passwordHash *string) error {
	updates := map[string]interface{}{}
	if nickname != nil {
		updates["nickname"] = *nickname
	}
	if farmLocation != nil {
		updates["farm_location"] = *farmLocation
	}
	if passwordHash != nil {
		updates["password"] = *passwordHash
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainUser.ErrNicknameTaken
		}
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) MigrateLegacyPasswords(ctx context.Context, hash func(string) (string, error)) (int, error) {
	var rows []models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("password NOT LIKE '$2%'").
		Find(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list legacy password rows: %w", err)
	}

	migrated := 0
	for _, row := range rows {
		hashed, err := hash(row.Password)
		if err != nil {
			return migrated, fmt.Errorf("failed to hash legacy password for user %d: %w", row.ID, err)
		}
		err = r.db.DB.WithContext(ctx).
			Model(&models.UserModel{}).
			Where("user_id = ?", row.ID).
			Update("password", hashed).Error
		if err != nil {
			return migrated, fmt.Errorf("failed to migrate password for user %d: %w", row.ID, err)
		}
		migrated++
	}
	return migrated, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Password:     u.Password,
		UserName:     u.UserName,
		Nickname:     u.Nickname,
		FarmLocation: u.FarmLocation,
		Role:         u.Role,
		Provider:     u.Provider,
		CreatedAt:    u.CreatedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:           m.ID,
		Email:        m.Email,
		Password:     m.Password,
		UserName:     m.UserName,
		Nickname:     m.Nickname,
		FarmLocation: m.FarmLocation,
		Role:         m.Role,
		Provider:     m.Provider,
		CreatedAt:    m.CreatedAt,
	}
}
