package models

import "time"

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; the like set of a
// post is the projection of its like rows ordered by creation time.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
