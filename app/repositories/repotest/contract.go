// Package repotest holds the behaviour every repositories.Store must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// OpenFunc returns an empty store for one test.
type OpenFunc func(t *testing.T) repositories.Store

// RunStoreTests runs the gateway contract against stores produced by open.
func RunStoreTests(t *testing.T, open OpenFunc) {
	t.Run("posts", func(t *testing.T) { testPosts(t, open) })
	t.Run("post filters", func(t *testing.T) { testPostFilters(t, open) })
	t.Run("post conditional writes", func(t *testing.T) { testPostConditionalWrites(t, open) })
	t.Run("comments", func(t *testing.T) { testComments(t, open) })
	t.Run("comment conditional writes", func(t *testing.T) { testCommentConditionalWrites(t, open) })
	t.Run("cascades", func(t *testing.T) { testCascades(t, open) })
	t.Run("alerts", func(t *testing.T) { testAlerts(t, open) })
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

// CreatePost stores a post with the given title, author and password.
func CreatePost(t *testing.T, repo repositories.PostRepository, title, author, password string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      title,
		Content:    "<p>" + title + "</p>",
		AuthorName: author,
		Password:   password,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

// CreateComment stores a comment on postID, replying to parentID when non-nil.
func CreateComment(t *testing.T, repo repositories.CommentRepository, postID int, parentID *int, content string, password *string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content:    content,
		AuthorName: "commenter",
		Password:   password,
		PostID:     postID,
		ParentID:   parentID,
	}
	require.NoError(t, repo.Create(context.Background(), comment))
	return comment
}

func postIDs(posts []*models.Post) []int {
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func commentIDs(comments []*models.Comment) []int {
	ids := make([]int, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	return ids
}

func testPosts(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	posts := open(t).Posts()

	first := CreatePost(t, posts, "first", "alice", "pw")
	assert.Greater(t, first.ID, 0)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, first.UpdatedAt.IsZero())

	second := CreatePost(t, posts, "second", "bob", "pw")
	third := CreatePost(t, posts, "third", "alice", "pw")
	assert.NotEqual(t, first.ID, second.ID)

	got, err := posts.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, "<p>first</p>", got.Content)
	assert.Equal(t, "alice", got.AuthorName)
	assert.Equal(t, "pw", got.Password)
	assert.WithinDuration(t, first.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = posts.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	list, err := posts.List(ctx, repositories.PostFilter{}, repositories.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int{third.ID, second.ID, first.ID}, postIDs(list))

	list, err = posts.List(ctx, repositories.PostFilter{}, repositories.NewPage(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []int{third.ID, second.ID}, postIDs(list))

	list, err = posts.List(ctx, repositories.PostFilter{}, repositories.NewPage(2, 2))
	require.NoError(t, err)
	assert.Equal(t, []int{first.ID}, postIDs(list))

	list, err = posts.List(ctx, repositories.PostFilter{}, repositories.NewPage(5, 2))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func testPostFilters(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	posts := open(t).Posts()

	goTips := CreatePost(t, posts, "Go tips", "alice", "pw")
	rustTips := CreatePost(t, posts, "Rust tips", "bob", "pw")
	lower := CreatePost(t, posts, "about go", "alice", "pw")

	tests := []struct {
		name   string
		filter repositories.PostFilter
		want   []int
	}{
		{"empty", repositories.PostFilter{}, []int{lower.ID, rustTips.ID, goTips.ID}},
		{"search is case sensitive", repositories.PostFilter{Search: str("Go")}, []int{goTips.ID}},
		{"search substring", repositories.PostFilter{Search: str("tips")}, []int{rustTips.ID, goTips.ID}},
		{"author exact", repositories.PostFilter{Author: str("alice")}, []int{lower.ID, goTips.ID}},
		{"author is not substring", repositories.PostFilter{Author: str("ali")}, []int{}},
		{"both", repositories.PostFilter{Search: str("tips"), Author: str("bob")}, []int{rustTips.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := posts.List(ctx, tt.filter, repositories.NewPage(1, 10))
			require.NoError(t, err)
			assert.Equal(t, tt.want, postIDs(list))
		})
	}

	t.Run("paging applies after filtering", func(t *testing.T) {
		list, err := posts.List(ctx, repositories.PostFilter{Author: str("alice")}, repositories.NewPage(2, 1))
		require.NoError(t, err)
		assert.Equal(t, []int{goTips.ID}, postIDs(list))
	})
}

func testPostConditionalWrites(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	posts := open(t).Posts()
	post := CreatePost(t, posts, "original", "alice", "p")

	_, err := posts.Update(ctx, post.ID, repositories.PostPatch{Title: "x", Content: "y"}, "wrong")
	assert.ErrorIs(t, err, repositories.ErrPasswordMismatch)

	unchanged, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Title)

	updated, err := posts.Update(ctx, post.ID, repositories.PostPatch{Title: "new title", Content: "<b>new</b>"}, "p")
	require.NoError(t, err)
	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "<b>new</b>", updated.Content)
	assert.Equal(t, "alice", updated.AuthorName)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	_, err = posts.Update(ctx, 9999, repositories.PostPatch{}, "p")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = posts.Delete(ctx, post.ID, "wrong")
	assert.ErrorIs(t, err, repositories.ErrPasswordMismatch)

	deleted, err := posts.Delete(ctx, post.ID, "p")
	require.NoError(t, err)
	assert.Equal(t, "new title", deleted.Title)

	_, err = posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = posts.Delete(ctx, post.ID, "p")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testComments(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	store := open(t)
	post := CreatePost(t, store.Posts(), "post", "alice", "pw")
	other := CreatePost(t, store.Posts(), "other", "bob", "pw")
	comments := store.Comments()

	root1 := CreateComment(t, comments, post.ID, nil, "root one", nil)
	root2 := CreateComment(t, comments, post.ID, nil, "root two", str("secret"))
	reply1 := CreateComment(t, comments, post.ID, num(root1.ID), "reply one", nil)
	reply2 := CreateComment(t, comments, post.ID, num(root1.ID), "reply two", nil)
	nested := CreateComment(t, comments, post.ID, num(reply1.ID), "nested", nil)
	elsewhere := CreateComment(t, comments, other.ID, nil, "elsewhere", nil)

	got, err := comments.GetByID(ctx, root2.ID)
	require.NoError(t, err)
	assert.Equal(t, "root two", got.Content)
	assert.Equal(t, post.ID, got.PostID)
	assert.Nil(t, got.ParentID)
	require.NotNil(t, got.Password)
	assert.Equal(t, "secret", *got.Password)

	got, err = comments.GetByID(ctx, nested.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, reply1.ID, *got.ParentID)
	assert.Nil(t, got.Password)

	_, err = comments.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	top, err := comments.List(ctx, repositories.CommentFilter{PostID: post.ID, TopLevelOnly: true}, repositories.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int{root2.ID, root1.ID}, commentIDs(top))

	all, err := comments.List(ctx, repositories.CommentFilter{PostID: post.ID}, repositories.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int{nested.ID, reply2.ID, reply1.ID, root2.ID, root1.ID}, commentIDs(all))

	top, err = comments.List(ctx, repositories.CommentFilter{PostID: post.ID, TopLevelOnly: true}, repositories.NewPage(2, 1))
	require.NoError(t, err)
	assert.Equal(t, []int{root1.ID}, commentIDs(top))

	top, err = comments.List(ctx, repositories.CommentFilter{PostID: other.ID, TopLevelOnly: true}, repositories.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int{elsewhere.ID}, commentIDs(top))

	replies, err := comments.ListReplies(ctx, []int{root1.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{reply1.ID, reply2.ID}, commentIDs(replies))

	replies, err = comments.ListReplies(ctx, []int{reply1.ID, reply2.ID, root2.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{nested.ID}, commentIDs(replies))

	replies, err = comments.ListReplies(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func testCommentConditionalWrites(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	store := open(t)
	post := CreatePost(t, store.Posts(), "post", "alice", "pw")
	comments := store.Comments()

	open1 := CreateComment(t, comments, post.ID, nil, "no password", nil)
	locked := CreateComment(t, comments, post.ID, nil, "locked", str("s"))

	updated, err := comments.Update(ctx, open1.ID, "edited", nil)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, post.ID, updated.PostID)

	_, err = comments.Update(ctx, open1.ID, "edited", str("anything"))
	assert.ErrorIs(t, err, repositories.ErrPasswordMismatch)

	_, err = comments.Update(ctx, locked.ID, "edited", nil)
	assert.ErrorIs(t, err, repositories.ErrPasswordMismatch)

	_, err = comments.Update(ctx, locked.ID, "edited", str("wrong"))
	assert.ErrorIs(t, err, repositories.ErrPasswordMismatch)

	updated, err = comments.Update(ctx, locked.ID, "edited", str("s"))
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = comments.Update(ctx, 9999, "x", nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = comments.Delete(ctx, locked.ID, str("wrong"))
	assert.ErrorIs(t, err, repositories.ErrPasswordMismatch)

	deleted, err := comments.Delete(ctx, locked.ID, str("s"))
	require.NoError(t, err)
	assert.Equal(t, locked.ID, deleted.ID)

	_, err = comments.GetByID(ctx, locked.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = comments.Delete(ctx, locked.ID, str("s"))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testCascades(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	store := open(t)
	post := CreatePost(t, store.Posts(), "post", "alice", "pw")
	keep := CreatePost(t, store.Posts(), "keep", "alice", "pw")
	comments := store.Comments()

	root := CreateComment(t, comments, post.ID, nil, "root", nil)
	reply := CreateComment(t, comments, post.ID, num(root.ID), "reply", nil)
	nested := CreateComment(t, comments, post.ID, num(reply.ID), "nested", nil)
	sibling := CreateComment(t, comments, post.ID, nil, "sibling", nil)
	kept := CreateComment(t, comments, keep.ID, nil, "kept", nil)

	_, err := comments.Delete(ctx, root.ID, nil)
	require.NoError(t, err)
	for _, id := range []int{root.ID, reply.ID, nested.ID} {
		_, err := comments.GetByID(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound, "comment %d", id)
	}

	all, err := comments.List(ctx, repositories.CommentFilter{PostID: post.ID}, repositories.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int{sibling.ID}, commentIDs(all))

	CreateComment(t, comments, post.ID, num(sibling.ID), "reply to sibling", nil)
	_, err = store.Posts().Delete(ctx, post.ID, "pw")
	require.NoError(t, err)

	all, err = comments.List(ctx, repositories.CommentFilter{PostID: post.ID}, repositories.NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = comments.GetByID(ctx, sibling.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got, err := comments.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Content)
}

func testAlerts(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	alerts := open(t).Alerts()

	list, err := alerts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	first := &models.KeywordAlert{Keyword: "go", AuthorName: "gopher"}
	second := &models.KeywordAlert{Keyword: "rust", AuthorName: "crab"}
	require.NoError(t, alerts.Create(ctx, first))
	require.NoError(t, alerts.Create(ctx, second))
	assert.Greater(t, first.ID, 0)
	assert.False(t, first.CreatedAt.IsZero())

	list, err = alerts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "go", list[0].Keyword)
	assert.Equal(t, "gopher", list[0].AuthorName)
	assert.Equal(t, "rust", list[1].Keyword)
}
