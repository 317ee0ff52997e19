package services

import (
	"context"
	"errors"

	"postboard/app/models"
	"postboard/app/notify"
	"postboard/app/repositories"
	"postboard/app/sanitizer"
)

// PostQuery selects a page of posts. Empty Search and Author do not filter.
type PostQuery struct {
	Page   int
	Size   int
	Search string
	Author string
}

func (q PostQuery) filter() repositories.PostFilter {
	var f repositories.PostFilter
	if q.Search != "" {
		search := q.Search
		f.Search = &search
	}
	if q.Author != "" {
		author := q.Author
		f.Author = &author
	}
	return f
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	notifier notify.Notifier
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, notifier notify.Notifier) *PostService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &PostService{
		postRepo: postRepo,
		notifier: notifier,
	}
}

// List returns one page of posts, newest first
func (s *PostService) List(ctx context.Context, q PostQuery) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, q.filter(), repositories.NewPage(q.Page, q.Size))
	if err != nil {
		return nil, internalError(MsgPostList, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

// Create stores a new post with sanitized content and starts a keyword scan
func (s *PostService) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(MsgPostPasswordEmpty, err)
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    sanitizer.Sanitize(in.Content),
		AuthorName: in.AuthorName,
		Password:   in.Password,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, internalError(MsgPostCreate, err)
	}

	s.notifier.Notify(ctx, post)
	return post, nil
}

// Update replaces the title and content of a post whose password matches
func (s *PostService) Update(ctx context.Context, id int, in models.PostUpdateInput) (*models.Post, error) {
	if err := s.checkOwner(ctx, id, in.Password, MsgPostUpdate); err != nil {
		return nil, err
	}

	patch := repositories.PostPatch{
		Title:   in.Title,
		Content: sanitizer.Sanitize(in.Content),
	}
	post, err := s.postRepo.Update(ctx, id, patch, in.Password)
	if err != nil {
		return nil, postWriteError(err, MsgPostUpdate)
	}
	return post, nil
}

// Delete removes a post whose password matches, along with its comments
func (s *PostService) Delete(ctx context.Context, id int, password string) error {
	if err := s.checkOwner(ctx, id, password, MsgPostDelete); err != nil {
		return err
	}
	if _, err := s.postRepo.Delete(ctx, id, password); err != nil {
		return postWriteError(err, MsgPostDelete)
	}
	return nil
}

// checkOwner rejects a missing post or a wrong password before any write.
// The write itself stays conditional, covering concurrent changes.
func (s *PostService) checkOwner(ctx context.Context, id int, password, fallback string) *Error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return postWriteError(err, fallback)
	}
	if !post.PasswordMatches(password) {
		return forbiddenError(MsgPasswordMismatch)
	}
	return nil
}

func postWriteError(err error, fallback string) *Error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFoundError(MsgPostNotFound, err)
	case errors.Is(err, repositories.ErrPasswordMismatch):
		return forbiddenError(MsgPasswordMismatch)
	default:
		return internalError(fallback, err)
	}
}
