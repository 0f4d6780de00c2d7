// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment represents a comment on a post. The author's username is
// denormalized at posting time so a comment stays renderable without a join.
// Comments are append-only; only administrators remove them.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Username  string    `gorm:"not null" json:"username"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
