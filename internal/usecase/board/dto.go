package board

import (
	"time"

	domainBoard "smart-farm-monitor/internal/domain/board"
)

type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=255"`
	Content   string   `json:"content" validate:"required,min=1"`
	PlantType string   `json:"plant_type" validate:"omitempty,max=100"`
	Images    []string `json:"images" validate:"omitempty,max=5,dive,max=512"`
}

type UpdatePostRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=255"`
	Content   string `json:"content" validate:"required,min=1"`
	PlantType string `json:"plant_type" validate:"omitempty,max=100"`
}

type CreateCommentRequest struct {
	Comment string `json:"comment" validate:"required,min=1"`
}

// PostPreview is the board list entry: no content, just the headline.
type PostPreview struct {
	PostID    uint      `json:"post_id"`
	Title     string    `json:"title"`
	PlantType string    `json:"plant_type"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentResponse struct {
	CommentID   uint      `json:"comment_id"`
	PostID      uint      `json:"post_id"`
	UserID      uint      `json:"user_id"`
	Comment     string    `json:"comment"`
	Author      string    `json:"author"`
	CommentedAt time.Time `json:"commented_at"`
}

type PostResponse struct {
	PostID    uint               `json:"post_id"`
	UserID    uint               `json:"user_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	PlantType string             `json:"plant_type"`
	Images    []string           `json:"images"`
	Author    string             `json:"author"`
	CreatedAt time.Time          `json:"created_at"`
	Comments  []*CommentResponse `json:"comments,omitempty"`
}

type BoardUser struct {
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nickname"`
}

func toPostResponse(p *domainBoard.Post) *PostResponse {
	return &PostResponse{
		PostID:    p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		PlantType: p.PlantType,
		Images:    p.Images,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	}
}

func toCommentResponse(c *domainBoard.Comment) *CommentResponse {
	return &CommentResponse{
		CommentID:   c.ID,
		PostID:      c.PostID,
		UserID:      c.UserID,
		Comment:     c.Comment,
		Author:      c.Author,
		CommentedAt: c.CommentedAt,
	}
}
