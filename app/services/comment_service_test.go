package services

import (
	"context"
	"errors"
	"testing"

	"postboard/app/models"
	"postboard/app/repositories"
	"postboard/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	svc      *CommentService
	store    *mock.Store
	notifier *recordingNotifier
	post     *models.Post
}

func setupCommentService(t *testing.T) *commentFixture {
	store := mock.NewStore()
	post := &models.Post{Title: "post", Password: "p"}
	require.NoError(t, store.Posts().Create(context.Background(), post))

	notifier := &recordingNotifier{}
	return &commentFixture{
		svc:      NewCommentService(store.Comments(), store.Posts(), notifier),
		store:    store,
		notifier: notifier,
		post:     post,
	}
}

func (f *commentFixture) create(t *testing.T, content string, parentID *int) *models.Comment {
	t.Helper()
	c, err := f.svc.Create(context.Background(), f.post.ID, models.CommentInput{
		Content:    content,
		AuthorName: "작성자",
		ParentID:   parentID,
	})
	require.NoError(t, err)
	return c
}

func TestCommentServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("top level", func(t *testing.T) {
		f := setupCommentService(t)

		c, err := f.svc.Create(ctx, f.post.ID, models.CommentInput{
			Content:    `<p onclick="x()">hi</p>`,
			AuthorName: "a",
			Password:   ptr("pw"),
		})
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", c.Content)
		assert.Equal(t, f.post.ID, c.PostID)
		assert.Nil(t, c.ParentID)
		assert.Equal(t, "pw", *c.Password)
		assert.Equal(t, []string{"<p>hi</p>"}, f.notifier.texts)
	})

	t.Run("empty password is no password", func(t *testing.T) {
		f := setupCommentService(t)

		c, err := f.svc.Create(ctx, f.post.ID, models.CommentInput{Content: "c", AuthorName: "a", Password: ptr("")})
		require.NoError(t, err)
		assert.Nil(t, c.Password)

		stored, err := f.store.Comments().GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Password)

		updated, err := f.svc.Update(ctx, c.ID, models.CommentUpdateInput{Content: "edited", Password: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)

		require.NoError(t, f.svc.Delete(ctx, c.ID, nil))
		_, err = f.store.Comments().GetByID(ctx, c.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("zero parent is top level", func(t *testing.T) {
		f := setupCommentService(t)
		c := f.create(t, "x", ptr(0))
		assert.Nil(t, c.ParentID)
	})

	t.Run("reply", func(t *testing.T) {
		f := setupCommentService(t)
		parent := f.create(t, "parent", nil)
		reply := f.create(t, "reply", &parent.ID)
		assert.Equal(t, parent.ID, *reply.ParentID)
	})

	tests := []struct {
		name    string
		postID  func(f *commentFixture) int
		input   func(f *commentFixture) models.CommentInput
		kind    Kind
		message string
	}{
		{
			name:    "missing content",
			postID:  func(f *commentFixture) int { return f.post.ID },
			input:   func(*commentFixture) models.CommentInput { return models.CommentInput{AuthorName: "a"} },
			kind:    KindValidation,
			message: MsgCommentRequired,
		},
		{
			name:    "missing author",
			postID:  func(f *commentFixture) int { return f.post.ID },
			input:   func(*commentFixture) models.CommentInput { return models.CommentInput{Content: "c"} },
			kind:    KindValidation,
			message: MsgCommentRequired,
		},
		{
			name:    "unknown post",
			postID:  func(*commentFixture) int { return 999 },
			input:   func(*commentFixture) models.CommentInput { return models.CommentInput{Content: "c", AuthorName: "a"} },
			kind:    KindNotFound,
			message: MsgPostNotFound,
		},
		{
			name:   "unknown parent",
			postID: func(f *commentFixture) int { return f.post.ID },
			input: func(*commentFixture) models.CommentInput {
				return models.CommentInput{Content: "c", AuthorName: "a", ParentID: ptr(999)}
			},
			kind:    KindValidation,
			message: MsgCommentParentMissing,
		},
		{
			name:   "parent on another post",
			postID: func(f *commentFixture) int { return f.post.ID },
			input: func(f *commentFixture) models.CommentInput {
				other := &models.Post{Title: "other", Password: "p"}
				require.NoError(t, f.store.Posts().Create(ctx, other))
				foreign := &models.Comment{Content: "x", AuthorName: "a", PostID: other.ID}
				require.NoError(t, f.store.Comments().Create(ctx, foreign))
				return models.CommentInput{Content: "c", AuthorName: "a", ParentID: &foreign.ID}
			},
			kind:    KindValidation,
			message: MsgCommentParentMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupCommentService(t)
			input := tt.input(f)
			before := f.store.Calls().CommentCreates

			_, err := f.svc.Create(ctx, tt.postID(f), input)
			requireKind(t, err, tt.kind, tt.message)
			assert.Equal(t, before, f.store.Calls().CommentCreates)
			assert.Empty(t, f.notifier.texts)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		f := setupCommentService(t)
		f.store.FailWith(errors.New("db down"))

		_, err := f.svc.Create(ctx, f.post.ID, models.CommentInput{Content: "c", AuthorName: "a"})
		requireKind(t, err, KindInternal, MsgCommentCreate)
	})
}

func TestCommentServiceList(t *testing.T) {
	ctx := context.Background()
	f := setupCommentService(t)

	first := f.create(t, "first", nil)
	second := f.create(t, "second", nil)
	r1 := f.create(t, "r1", &first.ID)
	r2 := f.create(t, "r2", &first.ID)
	r1a := f.create(t, "r1a", &r1.ID)
	r1a1 := f.create(t, "r1a1", &r1a.ID)

	threads, err := f.svc.List(ctx, f.post.ID, CommentQuery{})
	require.NoError(t, err)
	require.Len(t, threads, 2)

	assert.Equal(t, second.ID, threads[0].ID)
	assert.Empty(t, threads[0].Replies)
	assert.NotNil(t, threads[0].Replies)

	top := threads[1]
	assert.Equal(t, first.ID, top.ID)
	require.Len(t, top.Replies, 2)
	assert.Equal(t, r1.ID, top.Replies[0].ID)
	assert.Equal(t, r2.ID, top.Replies[1].ID)
	require.Len(t, top.Replies[0].Replies, 1)
	assert.Equal(t, r1a.ID, top.Replies[0].Replies[0].ID)
	require.Len(t, top.Replies[0].Replies[0].Replies, 1)
	assert.Equal(t, r1a1.ID, top.Replies[0].Replies[0].Replies[0].ID)

	t.Run("paging applies to top level only", func(t *testing.T) {
		threads, err := f.svc.List(ctx, f.post.ID, CommentQuery{Page: 2, Size: 1})
		require.NoError(t, err)
		require.Len(t, threads, 1)
		assert.Equal(t, first.ID, threads[0].ID)
		assert.Len(t, threads[0].Replies, 2)

		calls := f.store.Calls().CommentLists
		last := calls[len(calls)-1]
		assert.True(t, last.Filter.TopLevelOnly)
		assert.Equal(t, repositories.Page{Skip: 1, Take: 1}, last.Page)
	})

	t.Run("unknown post is empty", func(t *testing.T) {
		threads, err := f.svc.List(ctx, 999, CommentQuery{})
		require.NoError(t, err)
		assert.Empty(t, threads)
		assert.NotNil(t, threads)
	})

	t.Run("storage failure", func(t *testing.T) {
		f.store.FailWith(errors.New("db down"))
		defer f.store.FailWith(nil)

		_, err := f.svc.List(ctx, f.post.ID, CommentQuery{})
		requireKind(t, err, KindInternal, MsgCommentList)
	})
}

func TestCommentServiceUpdate(t *testing.T) {
	ctx := context.Background()
	f := setupCommentService(t)

	locked, err := f.svc.Create(ctx, f.post.ID, models.CommentInput{Content: "c", AuthorName: "a", Password: ptr("pw")})
	require.NoError(t, err)
	open := f.create(t, "open", nil)

	_, err = f.svc.Update(ctx, locked.ID, models.CommentUpdateInput{Content: "x", Password: ptr("bad")})
	requireKind(t, err, KindForbidden, MsgPasswordMismatch)

	_, err = f.svc.Update(ctx, locked.ID, models.CommentUpdateInput{Content: "x"})
	requireKind(t, err, KindForbidden, MsgPasswordMismatch)

	_, err = f.svc.Update(ctx, 999, models.CommentUpdateInput{Content: "x"})
	requireKind(t, err, KindNotFound, MsgCommentNotFound)
	assert.Equal(t, 0, f.store.Calls().CommentUpdates)

	updated, err := f.svc.Update(ctx, locked.ID, models.CommentUpdateInput{Content: "<em>new</em><script></script>", Password: ptr("pw")})
	require.NoError(t, err)
	assert.Equal(t, "<em>new</em>", updated.Content)
	assert.Equal(t, "a", updated.AuthorName)

	updated, err = f.svc.Update(ctx, open.ID, models.CommentUpdateInput{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	f.store.FailWith(errors.New("db down"))
	_, err = f.svc.Update(ctx, open.ID, models.CommentUpdateInput{Content: "x"})
	requireKind(t, err, KindInternal, MsgCommentUpdate)
}

func TestCommentServiceDelete(t *testing.T) {
	ctx := context.Background()
	f := setupCommentService(t)

	parent, err := f.svc.Create(ctx, f.post.ID, models.CommentInput{Content: "c", AuthorName: "a", Password: ptr("pw")})
	require.NoError(t, err)
	reply := f.create(t, "reply", &parent.ID)

	requireKind(t, f.svc.Delete(ctx, parent.ID, ptr("bad")), KindForbidden, MsgPasswordMismatch)
	requireKind(t, f.svc.Delete(ctx, 999, nil), KindNotFound, MsgCommentNotFound)
	assert.Equal(t, 0, f.store.Calls().CommentDeletes)

	require.NoError(t, f.svc.Delete(ctx, parent.ID, ptr("pw")))
	_, err = f.store.Comments().GetByID(ctx, reply.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	f.store.FailWith(errors.New("db down"))
	requireKind(t, f.svc.Delete(ctx, parent.ID, nil), KindInternal, MsgCommentDelete)
}
