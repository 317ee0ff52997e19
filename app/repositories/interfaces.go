package repositories

import (
	"context"
	"errors"
	"strings"

	"postboard/app/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrPasswordMismatch is returned by conditional writes when the stored
	// password differs from the supplied one.
	ErrPasswordMismatch = errors.New("password does not match")
)

// PostFilter selects posts. Nil fields do not constrain the result.
type PostFilter struct {
	// Search matches posts whose title contains it (case sensitive).
	Search *string
	// Author matches posts whose author name equals it.
	Author *string
}

// Match reports whether post satisfies the filter
func (f PostFilter) Match(post *models.Post) bool {
	if f.Search != nil && !strings.Contains(post.Title, *f.Search) {
		return false
	}
	if f.Author != nil && post.AuthorName != *f.Author {
		return false
	}
	return true
}

// CommentFilter selects the comments of one post.
type CommentFilter struct {
	PostID int
	// TopLevelOnly excludes replies.
	TopLevelOnly bool
}

// Match reports whether comment satisfies the filter
func (f CommentFilter) Match(comment *models.Comment) bool {
	if comment.PostID != f.PostID {
		return false
	}
	return !f.TopLevelOnly || !comment.IsReply()
}

// PostPatch holds the post fields an update may change.
type PostPatch struct {
	Title   string
	Content string
}

// PostRepository defines the data access contract for posts.
//
// List returns posts newest first. Update and Delete only apply when the
// stored password equals password; they return ErrNotFound or
// ErrPasswordMismatch otherwise.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context, filter PostFilter, page Page) ([]*models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Update(ctx context.Context, id int, patch PostPatch, password string) (*models.Post, error)
	Delete(ctx context.Context, id int, password string) (*models.Post, error)
}

// CommentRepository defines the data access contract for comments.
//
// List returns comments newest first. ListReplies returns the direct
// replies of the given comments, oldest first. Deleting a comment deletes
// its replies.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	List(ctx context.Context, filter CommentFilter, page Page) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentIDs []int) ([]*models.Comment, error)
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	Update(ctx context.Context, id int, content string, password *string) (*models.Comment, error)
	Delete(ctx context.Context, id int, password *string) (*models.Comment, error)
}

// AlertRepository stores keyword watchers.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.KeywordAlert) error
	List(ctx context.Context) ([]*models.KeywordAlert, error)
}

// Store bundles the repositories of one backing database.
type Store interface {
	Posts() PostRepository
	Comments() CommentRepository
	Alerts() AlertRepository
	Close() error
}
