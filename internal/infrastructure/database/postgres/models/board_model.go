package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringArray stores a list of strings as a JSON text column so the same
// model works against postgres and the sqlite test driver.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
}

// BoardPostModel represents a community board post. Images holds the
// /uploads/... URLs returned by the upload endpoint.
type BoardPostModel struct {
	ID        uint        `gorm:"column:post_id;primaryKey;autoIncrement"`
	UserID    uint        `gorm:"not null;index"`
	Title     string      `gorm:"type:varchar(255);not null"`
	Content   string      `gorm:"type:text;not null"`
	PlantType string      `gorm:"type:varchar(100)"`
	Images    StringArray `gorm:"type:text"`
	CreatedAt time.Time   `gorm:"not null"`
}

func (BoardPostModel) TableName() string {
	return "board_posts"
}

// BoardCommentModel belongs to one post and one user.
type BoardCommentModel struct {
	ID          uint      `gorm:"column:comment_id;primaryKey;autoIncrement"`
	PostID      uint      `gorm:"not null;index"`
	UserID      uint      `gorm:"not null;index"`
	Comment     string    `gorm:"type:text;not null"`
	CommentedAt time.Time `gorm:"not null"`
}

func (BoardCommentModel) TableName() string {
	return "board_comments"
}
