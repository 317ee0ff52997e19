package services

import (
	"context"
	"errors"

	"postboard/app/models"
	"postboard/app/notify"
	"postboard/app/repositories"
	"postboard/app/sanitizer"
)

// CommentQuery selects a page of top-level comments.
type CommentQuery struct {
	Page int
	Size int
}

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	notifier    notify.Notifier
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, notifier notify.Notifier) *CommentService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifier:    notifier,
	}
}

// List returns one page of a post's top-level comments, newest first, each
// carrying its full reply tree. Replies are not paged.
func (s *CommentService) List(ctx context.Context, postID int, q CommentQuery) ([]*models.CommentThread, error) {
	filter := repositories.CommentFilter{PostID: postID, TopLevelOnly: true}
	top, err := s.commentRepo.List(ctx, filter, repositories.NewPage(q.Page, q.Size))
	if err != nil {
		return nil, internalError(MsgCommentList, err)
	}

	threads := make([]*models.CommentThread, 0, len(top))
	byID := make(map[int]*models.CommentThread, len(top))
	level := make([]int, 0, len(top))
	for _, c := range top {
		thread := models.NewCommentThread(c)
		threads = append(threads, thread)
		byID[c.ID] = thread
		level = append(level, c.ID)
	}

	for len(level) > 0 {
		replies, err := s.commentRepo.ListReplies(ctx, level)
		if err != nil {
			return nil, internalError(MsgCommentList, err)
		}

		next := make([]int, 0, len(replies))
		for _, reply := range replies {
			if reply.ParentID == nil {
				continue
			}
			parent, ok := byID[*reply.ParentID]
			if !ok {
				continue
			}
			if _, seen := byID[reply.ID]; seen {
				continue
			}
			thread := models.NewCommentThread(reply)
			parent.AddReply(thread)
			byID[reply.ID] = thread
			next = append(next, reply.ID)
		}
		level = next
	}

	return threads, nil
}

// Create stores a comment on postID. A reply's parent must belong to the
// same post.
func (s *CommentService) Create(ctx context.Context, postID int, in models.CommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(MsgCommentRequired, err)
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError(MsgPostNotFound, err)
		}
		return nil, internalError(MsgCommentCreate, err)
	}

	parentID := in.ParentID
	if parentID != nil && *parentID == 0 {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, internalError(MsgCommentCreate, err)
		}
		if err != nil || parent.PostID != postID {
			return nil, validationError(MsgCommentParentMissing, err)
		}
	}

	comment := &models.Comment{
		Content:    sanitizer.Sanitize(in.Content),
		AuthorName: in.AuthorName,
		Password:   models.OptionalPassword(in.Password),
		PostID:     postID,
		ParentID:   parentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, internalError(MsgCommentCreate, err)
	}

	s.notifier.Notify(ctx, comment)
	return comment, nil
}

// Update replaces the content of a comment whose password matches
func (s *CommentService) Update(ctx context.Context, id int, in models.CommentUpdateInput) (*models.Comment, error) {
	password := models.OptionalPassword(in.Password)
	if err := s.checkOwner(ctx, id, password, MsgCommentUpdate); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Update(ctx, id, sanitizer.Sanitize(in.Content), password)
	if err != nil {
		return nil, commentWriteError(err, MsgCommentUpdate)
	}
	return comment, nil
}

// Delete removes a comment whose password matches, along with its replies
func (s *CommentService) Delete(ctx context.Context, id int, password *string) error {
	password = models.OptionalPassword(password)
	if err := s.checkOwner(ctx, id, password, MsgCommentDelete); err != nil {
		return err
	}
	if _, err := s.commentRepo.Delete(ctx, id, password); err != nil {
		return commentWriteError(err, MsgCommentDelete)
	}
	return nil
}

// checkOwner rejects a missing comment or a wrong password before any write.
func (s *CommentService) checkOwner(ctx context.Context, id int, password *string, fallback string) *Error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return commentWriteError(err, fallback)
	}
	if !comment.PasswordMatches(password) {
		return forbiddenError(MsgPasswordMismatch)
	}
	return nil
}

func commentWriteError(err error, fallback string) *Error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFoundError(MsgCommentNotFound, err)
	case errors.Is(err, repositories.ErrPasswordMismatch):
		return forbiddenError(MsgPasswordMismatch)
	default:
		return internalError(fallback, err)
	}
}
