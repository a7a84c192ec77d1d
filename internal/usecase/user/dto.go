package user

import (
	"time"

	domainUser "smart-farm-monitor/internal/domain/user"
)

type SignupRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	UserName     string  `json:"user_name" validate:"required,min=2,max=100"`
	Nickname     string  `json:"nickname" validate:"required,min=2,max=100"`
	FarmLocation *string `json:"farm_location" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed token alongside the fields the login
// response exposes.
type LoginResult struct {
	Token string
	Role  string
}

type UpdateProfileRequest struct {
	Nickname        *string `json:"nickname" validate:"omitempty,min=2,max=100"`
	FarmLocation    *string `json:"farm_location" validate:"omitempty,max=255"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=8"`
}

type ProfileDevice struct {
	DeviceID  uint      `json:"device_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfilePlant struct {
	PlantName string    `json:"plant_name"`
	PlantedAt time.Time `json:"planted_at"`
}

// ProfileResponse is the user dashboard: account info, the first farm's
// crop and the latest device statuses.
type ProfileResponse struct {
	UserID       uint             `json:"user_id"`
	Email        string           `json:"email"`
	UserName     string           `json:"user_name"`
	Nickname     string           `json:"nickname"`
	FarmLocation *string          `json:"farm_location"`
	Role         string           `json:"role"`
	Provider     *string          `json:"provider"`
	CreatedAt    time.Time        `json:"created_at"`
	Plant        *ProfilePlant    `json:"plant"`
	Devices      []*ProfileDevice `json:"devices"`
}

type MeResponse struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

func toProfileResponse(u *domainUser.User) *ProfileResponse {
	return &ProfileResponse{
		UserID:       u.ID,
		Email:        u.Email,
		UserName:     u.UserName,
		Nickname:     u.Nickname,
		FarmLocation: u.FarmLocation,
		Role:         u.Role,
		Provider:     u.Provider,
		CreatedAt:    u.CreatedAt,
	}
}
