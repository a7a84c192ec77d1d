package board

import "context"

// Repository defines board post and comment persistence.
type Repository interface {
	ListPosts(ctx context.Context) ([]*Post, error)
	GetPost(ctx context.Context, postID uint) (*Post, error)
	CreatePost(ctx context.Context, p *Post) error
	UpdatePost(ctx context.Context, postID uint, title, content, plantType string) error
	// DeletePost removes the post's comments first, then the post, in one
	// transaction. Uploaded image files are not cleaned up.
	DeletePost(ctx context.Context, postID uint) error

	ListComments(ctx context.Context, postID uint) ([]*Comment, error)
	CreateComment(ctx context.Context, c *Comment) error
}
