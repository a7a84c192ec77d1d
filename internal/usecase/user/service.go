package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smart-farm-monitor/internal/config"
	domainFarm "smart-farm-monitor/internal/domain/farm"
	domainTelemetry "smart-farm-monitor/internal/domain/telemetry"
	domainUser "smart-farm-monitor/internal/domain/user"
	"smart-farm-monitor/internal/logger"
	appErrors "smart-farm-monitor/pkg/errors"
	"smart-farm-monitor/pkg/utils"
)

// Password change failure modes surfaced by UpdateProfile.
var (
	ErrCurrentPasswordRequired = errors.New("current password is required to change password")
	ErrCurrentPasswordWrong    = errors.New("current password is incorrect")
	ErrSamePassword            = errors.New("new password must differ from the current one")
	ErrNothingToUpdate         = errors.New("no profile fields to update")
)

// Service implements account use cases.
type Service struct {
	userRepo      domainUser.Repository
	farmRepo      domainFarm.Repository
	telemetryRepo domainTelemetry.Repository
	config        *config.Config
}

func NewService(
	userRepo domainUser.Repository,
	farmRepo domainFarm.Repository,
	telemetryRepo domainTelemetry.Repository,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo:      userRepo,
		farmRepo:      farmRepo,
		telemetryRepo: telemetryRepo,
		config:        cfg,
	}
}

func (s *Service) Signup(ctx context.Context, req *SignupRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	email, err := utils.ValidateAndSanitizeEmail(req.Email)
	if err != nil {
		return appErrors.ErrInvalidEmail
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Email:        email,
		Password:     hashedPassword,
		UserName:     utils.SanitizeString(req.UserName),
		Nickname:     utils.SanitizeString(req.Nickname),
		FarmLocation: req.FarmLocation,
		Role:         "user",
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) || errors.Is(err, domainUser.ErrNicknameTaken) {
			logger.Warn("signup rejected on uniqueness conflict",
				zap.String("email", email),
				zap.String("event", "signup_conflict"))
		}
		return err
	}

	logger.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("event", "user_registered"))

	return nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("login attempt with unknown email",
				zap.String("email", req.Email),
				zap.String("event", "login_failed"))
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		logger.Warn("login attempt with wrong password",
			zap.Uint("user_id", user.ID),
			zap.String("event", "login_failed"))
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.config.JWT.Secret, s.config.JWT.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("user logged in",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.String("event", "user_logged_in"))

	return &LoginResult{Token: token, Role: user.Role}, nil
}

// Me confirms the token's subject still exists and returns the fields
// the session endpoint exposes.
func (s *Service) Me(ctx context.Context, userID uint) (*MeResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{UserID: user.ID, Role: user.Role}, nil
}

// GetProfile assembles the account dashboard: user row, the first farm's
// crop, and the latest status per purchased device.
func (s *Service) GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toProfileResponse(user)

	farms, err := s.farmRepo.ListFarms(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(farms) > 0 {
		resp.Plant = &ProfilePlant{
			PlantName: farms[0].PlantName,
			PlantedAt: farms[0].CreatedAt,
		}
	}

	statuses, err := s.telemetryRepo.DeviceStatuses(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp.Devices = make([]*ProfileDevice, 0, len(statuses))
	for _, st := range statuses {
		resp.Devices = append(resp.Devices, &ProfileDevice{
			DeviceID:  st.DeviceID,
			Status:    st.Status,
			UpdatedAt: st.UpdatedAt,
		})
	}

	return resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	var nickname *string
	if req.Nickname != nil && *req.Nickname != "" {
		clean := utils.SanitizeString(*req.Nickname)
		taken, err := s.userRepo.NicknameInUse(ctx, clean, userID)
		if err != nil {
			return err
		}
		if taken {
			return domainUser.ErrNicknameTaken
		}
		nickname = &clean
	}

	var passwordHash *string
	if req.NewPassword != nil && *req.NewPassword != "" {
		if req.CurrentPassword == nil || *req.CurrentPassword == "" {
			return ErrCurrentPasswordRequired
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !utils.CheckPassword(user.Password, *req.CurrentPassword) {
			return ErrCurrentPasswordWrong
		}
		if utils.CheckPassword(user.Password, *req.NewPassword) {
			return ErrSamePassword
		}
		if err := utils.ValidatePassword(*req.NewPassword); err != nil {
			return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
		}

		hashed, err := utils.HashPassword(*req.NewPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &hashed
	}

	if nickname == nil && req.FarmLocation == nil && passwordHash == nil {
		return ErrNothingToUpdate
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, nickname, req.FarmLocation, passwordHash); err != nil {
		return err
	}

	logger.Info("profile updated",
		zap.Uint("user_id", userID),
		zap.Bool("password_changed", passwordHash != nil),
		zap.String("event", "profile_updated"))

	return nil
}

// MigrateLegacyPasswords hashes any plaintext password rows left over
// from the pre-bcrypt era. Runs once at startup.
func (s *Service) MigrateLegacyPasswords(ctx context.Context) error {
	migrated, err := s.userRepo.MigrateLegacyPasswords(ctx, utils.HashPassword)
	if err != nil {
		return fmt.Errorf("legacy password migration failed: %w", err)
	}
	if migrated > 0 {
		logger.Info("migrated legacy plaintext passwords", zap.Int("count", migrated))
	}
	return nil
}
