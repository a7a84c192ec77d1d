package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domainBoard "smart-farm-monitor/internal/domain/board"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// BoardRepository implements domain board.Repository on GORM. Author names
// are resolved by joining users at read time rather than denormalizing
// the nickname onto posts.
type BoardRepository struct {
	db *DB
}

func NewBoardRepository(db *DB) domainBoard.Repository {
	return &BoardRepository{db: db}
}

type postRow struct {
	ID        uint
	UserID    uint
	Title     string
	Content   string
	PlantType string
	Images    models.StringArray
	Nickname  string
	CreatedAt time.Time
}

func (r *BoardRepository) postQuery(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Model(&models.BoardPostModel{}).
		Select("board_posts.post_id AS id, board_posts.user_id, board_posts.title, board_posts.content, board_posts.plant_type, board_posts.images, users.nickname, board_posts.created_at").
		Joins("JOIN users ON board_posts.user_id = users.user_id")
}

func (r *BoardRepository) ListPosts(ctx context.Context) ([]*domainBoard.Post, error) {
	var rows []postRow
	if err := r.postQuery(ctx).Order("board_posts.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*domainBoard.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, toPostEntity(&rows[i]))
	}
	return posts, nil
}

func (r *BoardRepository) GetPost(ctx context.Context, postID uint) (*domainBoard.Post, error) {
	var rows []postRow
	if err := r.postQuery(ctx).Where("board_posts.post_id = ?", postID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if len(rows) == 0 {
		return nil, domainBoard.ErrPostNotFound
	}
	return toPostEntity(&rows[0]), nil
}

func (r *BoardRepository) CreatePost(ctx context.Context, p *domainBoard.Post) error {
	model := models.BoardPostModel{
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		PlantType: p.PlantType,
		Images:    models.StringArray(p.Images),
		CreatedAt: time.Now(),
	}
	if err := r.db.DB.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	return nil
}

func (r *BoardRepository) UpdatePost(ctx context.Context, postID uint, title, content, plantType string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.BoardPostModel{}).
		Where("post_id = ?", postID).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"plant_type": plantType,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainBoard.ErrPostNotFound
	}
	return nil
}

func (r *BoardRepository) DeletePost(ctx context.Context, postID uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.BoardCommentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete post comments: %w", err)
		}
		result := tx.Where("post_id = ?", postID).Delete(&models.BoardPostModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainBoard.ErrPostNotFound
		}
		return nil
	})
}

func (r *BoardRepository) ListComments(ctx context.Context, postID uint) ([]*domainBoard.Comment, error) {
	type commentRow struct {
		ID          uint
		PostID      uint
		UserID      uint
		Comment     string
		Nickname    string
		CommentedAt time.Time
	}
	var rows []commentRow
	err := r.db.DB.WithContext(ctx).
		Model(&models.BoardCommentModel{}).
		Select("board_comments.comment_id AS id, board_comments.post_id, board_comments.user_id, board_comments.comment, users.nickname, board_comments.commented_at").
		Joins("JOIN users ON board_comments.user_id = users.user_id").
		Where("board_comments.post_id = ?", postID).
		Order("board_comments.commented_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]*domainBoard.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, &domainBoard.Comment{
			ID:          row.ID,
			PostID:      row.PostID,
			UserID:      row.UserID,
			Comment:     row.Comment,
			Author:      row.Nickname,
			CommentedAt: row.CommentedAt,
		})
	}
	return comments, nil
}

func (r *BoardRepository) CreateComment(ctx context.Context, c *domainBoard.Comment) error {
	var post models.BoardPostModel
	if err := r.db.DB.WithContext(ctx).First(&post, "post_id = ?", c.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainBoard.ErrPostNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}

	model := models.BoardCommentModel{
		PostID:      c.PostID,
		UserID:      c.UserID,
		Comment:     c.Comment,
		CommentedAt: time.Now(),
	}
	if err := r.db.DB.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	c.ID = model.ID
	c.CommentedAt = model.CommentedAt
	return nil
}

func toPostEntity(row *postRow) *domainBoard.Post {
	return &domainBoard.Post{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Content:   row.Content,
		PlantType: row.PlantType,
		Images:    []string(row.Images),
		Author:    row.Nickname,
		CreatedAt: row.CreatedAt,
	}
}
