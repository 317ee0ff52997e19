// Package mock provides an in-memory persistence gateway for tests.
package mock

import (
	"context"
	"sort"
	"sync"

	"postboard/app/models"
	"postboard/app/repositories"
)

var _ repositories.Store = (*Store)(nil)

// PostListCall records the arguments of one PostRepository.List call.
type PostListCall struct {
	Filter repositories.PostFilter
	Page   repositories.Page
}

// CommentListCall records the arguments of one CommentRepository.List call.
type CommentListCall struct {
	Filter repositories.CommentFilter
	Page   repositories.Page
}

// Calls counts the gateway operations a Store received.
type Calls struct {
	PostCreates    int
	PostLists      []PostListCall
	PostUpdates    int
	PostDeletes    int
	CommentCreates int
	CommentLists   []CommentListCall
	CommentUpdates int
	CommentDeletes int
	AlertLists     int
}

// Store keeps posts, comments and alerts in maps. Every Store is
// independent, so tests using separate stores may run in parallel.
type Store struct {
	mutex         sync.RWMutex
	posts         map[int]*models.Post
	comments      map[int]*models.Comment
	alerts        []*models.KeywordAlert
	nextPostID    int
	nextCommentID int
	nextAlertID   int
	calls         Calls
	err           error
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		posts:         make(map[int]*models.Post),
		comments:      make(map[int]*models.Comment),
		nextPostID:    1,
		nextCommentID: 1,
		nextAlertID:   1,
	}
}

func (s *Store) Posts() repositories.PostRepository       { return &PostRepository{store: s} }
func (s *Store) Comments() repositories.CommentRepository { return &CommentRepository{store: s} }
func (s *Store) Alerts() repositories.AlertRepository     { return &AlertRepository{store: s} }
func (s *Store) Close() error                             { return nil }

// FailWith makes every following call return err. A nil err restores
// normal behaviour.
func (s *Store) FailWith(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.err = err
}

// Calls returns a snapshot of the recorded calls
func (s *Store) Calls() Calls {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	calls := s.calls
	calls.PostLists = append([]PostListCall(nil), s.calls.PostLists...)
	calls.CommentLists = append([]CommentListCall(nil), s.calls.CommentLists...)
	return calls
}

// Clear removes all data and recorded calls
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.alerts = nil
	s.nextPostID = 1
	s.nextCommentID = 1
	s.nextAlertID = 1
	s.calls = Calls{}
	s.err = nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	return &c
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	if c.Password != nil {
		pw := *c.Password
		out.Password = &pw
	}
	if c.ParentID != nil {
		id := *c.ParentID
		out.ParentID = &id
	}
	return &out
}

// newestFirst orders by creation time descending, then ID descending.
func newestFirst(aTime, bTime int64, aID, bID int) bool {
	if aTime != bTime {
		return aTime > bTime
	}
	return aID > bID
}

// PostRepository is the post view of a Store
type PostRepository struct {
	store *Store
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.PostCreates++
	if s.err != nil {
		return s.err
	}

	post.BeforeCreate()
	post.ID = s.nextPostID
	s.nextPostID++
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	post, exists := s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (r *PostRepository) List(ctx context.Context, filter repositories.PostFilter, page repositories.Page) ([]*models.Post, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.PostLists = append(s.calls.PostLists, PostListCall{Filter: filter, Page: page})
	if s.err != nil {
		return nil, s.err
	}

	var posts []*models.Post
	for _, post := range s.posts {
		if filter.Match(post) {
			posts = append(posts, clonePost(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return newestFirst(posts[i].CreatedAt.UnixNano(), posts[j].CreatedAt.UnixNano(), posts[i].ID, posts[j].ID)
	})
	return repositories.Paginate(posts, page), nil
}

func (r *PostRepository) Update(ctx context.Context, id int, patch repositories.PostPatch, password string) (*models.Post, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.PostUpdates++
	if s.err != nil {
		return nil, s.err
	}
	post, exists := s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if !post.PasswordMatches(password) {
		return nil, repositories.ErrPasswordMismatch
	}

	post.Title = patch.Title
	post.Content = patch.Content
	post.Touch()
	return clonePost(post), nil
}

func (r *PostRepository) Delete(ctx context.Context, id int, password string) (*models.Post, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.PostDeletes++
	if s.err != nil {
		return nil, s.err
	}
	post, exists := s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if !post.PasswordMatches(password) {
		return nil, repositories.ErrPasswordMismatch
	}

	for commentID, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, commentID)
		}
	}
	delete(s.posts, id)
	return post, nil
}

// CommentRepository is the comment view of a Store
type CommentRepository struct {
	store *Store
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.CommentCreates++
	if s.err != nil {
		return s.err
	}

	comment.BeforeCreate()
	comment.ID = s.nextCommentID
	s.nextCommentID++
	s.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	comment, exists := s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return cloneComment(comment), nil
}

func (r *CommentRepository) List(ctx context.Context, filter repositories.CommentFilter, page repositories.Page) ([]*models.Comment, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.CommentLists = append(s.calls.CommentLists, CommentListCall{Filter: filter, Page: page})
	if s.err != nil {
		return nil, s.err
	}

	var comments []*models.Comment
	for _, comment := range s.comments {
		if filter.Match(comment) {
			comments = append(comments, cloneComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return newestFirst(comments[i].CreatedAt.UnixNano(), comments[j].CreatedAt.UnixNano(), comments[i].ID, comments[j].ID)
	})
	return repositories.Paginate(comments, page), nil
}

func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []int) ([]*models.Comment, error) {
	s := r.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	parents := make(map[int]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	replies := []*models.Comment{}
	for _, comment := range s.comments {
		if comment.ParentID != nil && parents[*comment.ParentID] {
			replies = append(replies, cloneComment(comment))
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].ID < replies[j].ID
	})
	return replies, nil
}

func (r *CommentRepository) Update(ctx context.Context, id int, content string, password *string) (*models.Comment, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.CommentUpdates++
	if s.err != nil {
		return nil, s.err
	}
	comment, exists := s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if !comment.PasswordMatches(password) {
		return nil, repositories.ErrPasswordMismatch
	}

	comment.Content = content
	comment.Touch()
	return cloneComment(comment), nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int, password *string) (*models.Comment, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.CommentDeletes++
	if s.err != nil {
		return nil, s.err
	}
	comment, exists := s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if !comment.PasswordMatches(password) {
		return nil, repositories.ErrPasswordMismatch
	}

	s.deleteThread(id)
	return comment, nil
}

// deleteThread removes a comment and every reply below it. Caller holds the lock.
func (s *Store) deleteThread(id int) {
	delete(s.comments, id)
	for childID, comment := range s.comments {
		if comment.ParentID != nil && *comment.ParentID == id {
			s.deleteThread(childID)
		}
	}
}

// AlertRepository is the keyword alert view of a Store
type AlertRepository struct {
	store *Store
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.KeywordAlert) error {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.err != nil {
		return s.err
	}
	alert.BeforeCreate()
	alert.ID = s.nextAlertID
	s.nextAlertID++
	stored := *alert
	s.alerts = append(s.alerts, &stored)
	return nil
}

func (r *AlertRepository) List(ctx context.Context) ([]*models.KeywordAlert, error) {
	s := r.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.calls.AlertLists++
	if s.err != nil {
		return nil, s.err
	}
	alerts := make([]*models.KeywordAlert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		a := *alert
		alerts = append(alerts, &a)
	}
	return alerts, nil
}
