// Package models contains data structures for the application's domain models.
package models

import "time"

// Background kinds accepted for a post canvas.
const (
	BackgroundColor    = "color"
	BackgroundGradient = "gradient"
	BackgroundImage    = "image"
)

// TextStyle describes how a post's text is rendered on its canvas.
type TextStyle struct {
	FontSize   int    `gorm:"default:16" json:"font_size"`
	FontFamily string `gorm:"default:sans-serif" json:"font_family"`
	Color      string `gorm:"default:#ffffff" json:"color"`
	Bold       bool   `json:"bold"`
	Italic     bool   `json:"italic"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
}

// Background describes the canvas behind a post's text.
type Background struct {
	Kind  string `gorm:"default:color" json:"kind"`
	Value string `json:"value"`
}

// Verdict is the moderation classifier's judgement of a piece of content.
// Accepted=false means the content was judged harmful or negative; Reason
// carries the classifier's short explanation.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

// Post represents a published post in the MoralVerse application.
// A post only ever exists with a positive moderation verdict; the verdict is
// stamped at creation time. Posts are hard-deleted together with their likes
// and comments.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Username string `gorm:"not null" json:"username"`
	Content  string `gorm:"type:text;not null" json:"content"`

	Style      TextStyle  `gorm:"embedded;embeddedPrefix:style_" json:"style"`
	Background Background `gorm:"embedded;embeddedPrefix:background_" json:"background"`
	ImageURL   string     `json:"image_url"`
	Moderation Verdict    `gorm:"embedded;embeddedPrefix:moderation_" json:"moderation"`

	// Likes is not persisted on the post row; it is the ordered set of user
	// IDs projected from the like rows at query time.
	Likes    []uint    `gorm:"-" json:"likes"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`

	CreatedAt time.Time `json:"created_at"`
}
