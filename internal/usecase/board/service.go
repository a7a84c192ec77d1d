package board

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domainBoard "smart-farm-monitor/internal/domain/board"
	domainUser "smart-farm-monitor/internal/domain/user"
	"smart-farm-monitor/internal/logger"
	appErrors "smart-farm-monitor/pkg/errors"
	"smart-farm-monitor/pkg/utils"
)

// Service implements community board use cases. Only the author may
// modify or delete a post.
type Service struct {
	repo     domainBoard.Repository
	userRepo domainUser.Repository
}

func NewService(repo domainBoard.Repository, userRepo domainUser.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) ListPosts(ctx context.Context) ([]*PostPreview, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	previews := make([]*PostPreview, 0, len(posts))
	for _, p := range posts {
		previews = append(previews, &PostPreview{
			PostID:    p.ID,
			Title:     p.Title,
			PlantType: p.PlantType,
			Author:    p.Author,
			CreatedAt: p.CreatedAt,
		})
	}
	return previews, nil
}

func (s *Service) GetPost(ctx context.Context, postID uint) (*PostResponse, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	resp := toPostResponse(post)
	resp.Comments = make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}
	return resp, nil
}

func (s *Service) CreatePost(ctx context.Context, userID uint, req *CreatePostRequest) (*PostResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	post := &domainBoard.Post{
		UserID:    userID,
		Title:     utils.SanitizeText(req.Title),
		Content:   utils.SanitizeText(req.Content),
		PlantType: utils.SanitizeString(req.PlantType),
		Images:    req.Images,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	logger.Info("board post created",
		zap.Uint("post_id", post.ID),
		zap.Uint("user_id", userID))

	return toPostResponse(post), nil
}

// authorizePost rejects callers who did not write the post.
func (s *Service) authorizePost(ctx context.Context, userID, postID uint) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return domainBoard.ErrNotAuthor
	}
	return nil
}

func (s *Service) UpdatePost(ctx context.Context, userID, postID uint, req *UpdatePostRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := s.authorizePost(ctx, userID, postID); err != nil {
		return err
	}

	return s.repo.UpdatePost(ctx, postID,
		utils.SanitizeText(req.Title),
		utils.SanitizeText(req.Content),
		utils.SanitizeString(req.PlantType))
}

func (s *Service) DeletePost(ctx context.Context, userID, postID uint) error {
	if err := s.authorizePost(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, postID)
}

func (s *Service) AddComment(ctx context.Context, userID, postID uint, req *CreateCommentRequest) (*CommentResponse, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "comment must not be empty", nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &domainBoard.Comment{
		PostID:  postID,
		UserID:  userID,
		Comment: utils.SanitizeText(req.Comment),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = user.Nickname

	return toCommentResponse(comment), nil
}

// Identity returns the caller's board identity for author checks on the
// client side.
func (s *Service) Identity(ctx context.Context, userID uint) (*BoardUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BoardUser{UserID: user.ID, Nickname: user.Nickname}, nil
}
