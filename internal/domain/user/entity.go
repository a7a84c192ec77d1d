package user

import "time"

// User is an account in the smart-farm system. Password holds a bcrypt
// digest; rows predating hashing are migrated at startup.
type User struct {
	ID           uint
	Email        string
	Password     string
	UserName     string
	Nickname     string
	FarmLocation *string
	Role         string
	Provider     *string
	CreatedAt    time.Time
}
