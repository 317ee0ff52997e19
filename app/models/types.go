package models

import "time"

// Post represents a blog post owned by whoever knows its password.
type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment represents a comment on a post. A comment with a ParentID is a
// reply to another comment on the same post.
type Comment struct {
	ID         int       `json:"id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	Password   *string   `json:"password"`
	PostID     int       `json:"postId"`
	ParentID   *int      `json:"parentId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CommentThread is a comment together with its nested replies.
type CommentThread struct {
	Comment
	Replies []*CommentThread `json:"replies"`
}

// KeywordAlert is a registered watcher notified when new content contains Keyword.
type KeywordAlert struct {
	ID         int       `json:"id"`
	Keyword    string    `json:"keyword" validate:"required"`
	AuthorName string    `json:"authorName" validate:"required"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Now returns the current time in UTC, the zone every stored timestamp uses.
func Now() time.Time {
	return time.Now().UTC()
}
