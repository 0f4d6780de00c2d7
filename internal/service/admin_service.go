package service

import (
	"context"
	"errors"

	"moralverse/internal/models"
	"moralverse/internal/repository"

	"gorm.io/gorm"
)

// AdminStats summarizes the platform for the admin dashboard.
type AdminStats struct {
	TotalPosts    int64 `json:"total_posts"`
	TotalUsers    int64 `json:"total_users"`
	VerifiedUsers int64 `json:"verified_users"`
}

// AdminService provides administrative operations over the whole platform.
// Aggregations go straight to the database; destructive operations go through
// the repositories so cache invalidation stays in one place.
type AdminService struct {
	db          *gorm.DB
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewAdminService returns a new AdminService.
func NewAdminService(db *gorm.DB, postRepo repository.PostRepository, commentRepo repository.CommentRepository) *AdminService {
	return &AdminService{db: db, postRepo: postRepo, commentRepo: commentRepo}
}

// ListPosts returns every post with its owner's profile, newest first.
func (s *AdminService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.ListWithOwners(ctx)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return posts, nil
}

// DeletePost removes any post regardless of ownership.
func (s *AdminService) DeletePost(ctx context.Context, postID uint) error {
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewStorageUnavailableError(err)
	}
	return nil
}

// DeleteComment removes one comment from a post and returns the remaining
// thread in its original order.
func (s *AdminService) DeleteComment(ctx context.Context, postID, commentID uint) ([]models.Comment, error) {
	if err := s.commentRepo.DeleteFromPost(ctx, postID, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, models.NewStorageUnavailableError(err)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return comments, nil
}

// Stats returns platform totals.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats

	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("verified = ?", true).
		Count(&stats.VerifiedUsers).Error; err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return &stats, nil
}
