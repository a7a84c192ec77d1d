package user

import "context"

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	NicknameInUse(ctx context.Context, nickname string, excludeUserID uint) (bool, error)
	UpdateProfile(ctx context.Context, userID uint, nickname, farmLocation, passwordHash *string) error

	// MigrateLegacyPasswords rewrites every plaintext password row with
	// hash(plaintext). Runs once at startup; hashed rows are left untouched.
	MigrateLegacyPasswords(ctx context.Context, hash func(string) (string, error)) (int, error)
}
