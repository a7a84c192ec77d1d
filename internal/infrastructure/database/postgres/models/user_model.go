package models

import "time"

// UserModel represents the database model for User.
type UserModel struct {
	ID           uint      `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Password     string    `gorm:"type:varchar(255);not null"`
	UserName     string    `gorm:"type:varchar(100);not null"`
	Nickname     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	FarmLocation *string   `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(50);not null;default:'user'"`
	Provider     *string   `gorm:"type:varchar(50)"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
