package user

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"smart-farm-monitor/internal/config"
	"smart-farm-monitor/internal/infrastructure/database/postgres"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
	"smart-farm-monitor/internal/logger"
	"smart-farm-monitor/pkg/utils"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newTestService(t *testing.T) (*Service, *postgres.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	db := &postgres.DB{DB: gormDB}
	require.NoError(t, db.AutoMigrate())

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "service-test-secret", ExpiryHours: 24}}
	svc := NewService(
		postgres.NewUserRepository(db),
		postgres.NewFarmRepository(db),
		postgres.NewTelemetryRepository(db),
		cfg,
	)
	return svc, db
}

func seedUser(t *testing.T, db *postgres.DB, email, nickname, password string) uint {
	t.Helper()

	u := models.UserModel{
		Email:     email,
		Password:  password,
		UserName:  "Seed User",
		Nickname:  nickname,
		Role:      "user",
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestMigrateLegacyPasswords(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	hashed, err := utils.HashPassword("already-hashed")
	require.NoError(t, err)
	seedUser(t, db, "hashed@farm.io", "hashed", hashed)
	legacyID := seedUser(t, db, "legacy@farm.io", "legacy", "plaintext-pw")

	require.NoError(t, svc.MigrateLegacyPasswords(ctx))

	var legacy models.UserModel
	require.NoError(t, db.First(&legacy, legacyID).Error)
	assert.True(t, utils.IsBcryptHash(legacy.Password))
	assert.True(t, utils.CheckPassword(legacy.Password, "plaintext-pw"))

	// The already-hashed row is untouched.
	var untouched models.UserModel
	require.NoError(t, db.Where("email = ?", "hashed@farm.io").First(&untouched).Error)
	assert.Equal(t, hashed, untouched.Password)

	// Migrated users can log in with their old password.
	result, err := svc.Login(ctx, &LoginRequest{Email: "legacy@farm.io", Password: "plaintext-pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestMigrateLegacyPasswordsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	legacyID := seedUser(t, db, "legacy@farm.io", "legacy", "plaintext-pw")

	require.NoError(t, svc.MigrateLegacyPasswords(ctx))

	var first models.UserModel
	require.NoError(t, db.First(&first, legacyID).Error)

	// A second run must not rehash already-migrated rows.
	require.NoError(t, svc.MigrateLegacyPasswords(ctx))

	var second models.UserModel
	require.NoError(t, db.First(&second, legacyID).Error)
	assert.Equal(t, first.Password, second.Password)
}

func TestSignupHashesPassword(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	err := svc.Signup(ctx, &SignupRequest{
		Email:    "new@farm.io",
		Password: "password123",
		UserName: "New Grower",
		Nickname: "newbie",
	})
	require.NoError(t, err)

	var u models.UserModel
	require.NoError(t, db.Where("email = ?", "new@farm.io").First(&u).Error)
	assert.True(t, utils.IsBcryptHash(u.Password))
	assert.True(t, utils.CheckPassword(u.Password, "password123"))
	assert.Equal(t, "user", u.Role)
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "new@farm.io",
		Password: "short",
		UserName: "New Grower",
		Nickname: "newbie",
	})
	assert.Error(t, err)
}
