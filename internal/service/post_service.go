// Package service implements the application's business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"moralverse/internal/cache"
	"moralverse/internal/models"
	"moralverse/internal/repository"

	"gorm.io/gorm"
)

// ModerationGate classifies content before it may be published.
type ModerationGate interface {
	Review(ctx context.Context, text string) (models.Verdict, error)
}

// PostService implements the post lifecycle.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	gate        ModerationGate
}

type CreatePostInput struct {
	Identity   models.Identity
	Content    string
	Style      models.TextStyle
	Background models.Background
	ImageURL   string
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	PostID uint   `json:"post_id"`
	Liked  bool   `json:"liked"`
	Likes  []uint `json:"likes"`
}

// CommentResult carries a newly added comment plus the post's full thread.
type CommentResult struct {
	PostID   uint             `json:"post_id"`
	Comment  models.Comment   `json:"comment"`
	Comments []models.Comment `json:"comments"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	gate ModerationGate,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		gate:        gate,
	}
}

const (
	maxContentLen = 5000
	maxCommentLen = 2000
)

// CreatePost validates and classifies the content, then persists the post
// with the verdict stamped on it. Nothing is stored on a negative verdict.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Identity.System {
		return nil, models.NewForbiddenError("The built-in administrator cannot publish posts")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	if err := validateBackground(in.Background); err != nil {
		return nil, err
	}

	verdict, err := s.gate.Review(ctx, content)
	if err != nil {
		return nil, err
	}
	if !verdict.Accepted {
		return nil, models.NewModerationRejectedError(verdict.Reason)
	}

	post := &models.Post{
		UserID:     in.Identity.UserID,
		Username:   in.Identity.Username,
		Content:    content,
		Style:      in.Style,
		Background: in.Background,
		ImageURL:   in.ImageURL,
		Moderation: verdict,
		Likes:      []uint{},
		Comments:   []models.Comment{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return post, nil
}

func validateBackground(bg models.Background) error {
	switch bg.Kind {
	case "", models.BackgroundColor, models.BackgroundGradient, models.BackgroundImage:
		return nil
	default:
		return models.NewValidationError("Invalid background kind")
	}
}

// ListPosts returns posts newest first. The default unbounded listing is
// served through the feed cache.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.Limit <= 0 && in.Offset == 0 {
		posts := []*models.Post{}
		err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
			loaded, loadErr := s.postRepo.List(ctx, 0, 0)
			if loadErr != nil {
				return loadErr
			}
			posts = loaded
			return nil
		})
		if err != nil {
			return nil, models.NewStorageUnavailableError(err)
		}
		return posts, nil
	}

	posts, err := s.postRepo.List(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewStorageUnavailableError(err)
	}
	return post, nil
}

// ToggleLike adds the caller's like when absent and removes it when present,
// and returns the resulting like set. The store-level primitives are atomic,
// so concurrent toggles cannot duplicate an entry.
func (s *PostService) ToggleLike(ctx context.Context, identity models.Identity, postID uint) (*LikeResult, error) {
	if identity.System {
		return nil, models.NewForbiddenError("The built-in administrator cannot like posts")
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, identity.UserID, postID)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	if liked {
		err = s.postRepo.Unlike(ctx, identity.UserID, postID)
	} else {
		err = s.postRepo.Like(ctx, identity.UserID, postID)
	}
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	likes, err := s.postRepo.LikerIDs(ctx, postID)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return &LikeResult{PostID: postID, Liked: !liked, Likes: likes}, nil
}

// AddComment appends a comment to the post's thread and returns it together
// with the full ordered thread.
func (s *PostService) AddComment(ctx context.Context, identity models.Identity, postID uint, text string) (*CommentResult, error) {
	if identity.System {
		return nil, models.NewForbiddenError("The built-in administrator cannot comment")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   identity.UserID,
		Username: identity.Username,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return &CommentResult{PostID: postID, Comment: *comment, Comments: comments}, nil
}

// DeletePost removes a post for its owner or an administrator. Deletion is
// irrecoverable and takes the post's likes and comments with it.
func (s *PostService) DeletePost(ctx context.Context, identity models.Identity, postID uint) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != identity.UserID && !identity.IsAdmin() {
		return models.NewForbiddenError("Only the owner or an administrator can delete this post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewStorageUnavailableError(err)
	}
	return nil
}
