package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postboard/app/repositories/mock"
	"postboard/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	posts := NewPostController(services.NewPostService(store.Posts(), nil))
	comments := NewCommentController(services.NewCommentService(store.Comments(), store.Posts(), nil))

	router := mux.NewRouter()
	router.HandleFunc("/posts", posts.Index).Methods("GET")
	router.HandleFunc("/posts", posts.Create).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}", posts.Update).Methods("PUT")
	router.HandleFunc("/posts/{id:[0-9]+}", posts.Delete).Methods("DELETE")
	router.HandleFunc("/comments/{postId:[0-9]+}", comments.Index).Methods("GET")
	router.HandleFunc("/comments/{postId:[0-9]+}", comments.Create).Methods("POST")
	router.HandleFunc("/comments/{commentId:[0-9]+}", comments.Update).Methods("PUT")
	router.HandleFunc("/comments/{id:[0-9]+}", comments.Delete).Methods("DELETE")
	return router, store
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestPostController(t *testing.T) {
	router, store := setupRouter(t)

	t.Run("create post", func(t *testing.T) {
		w := do(router, http.MethodPost, "/posts", `{"title":"첫 글","content":"<p>hi</p><script>x</script>","authorName":"철수","password":"1234"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var post map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, float64(1), post["id"])
		assert.Equal(t, "<p>hi</p>", post["content"])
		assert.Equal(t, "철수", post["authorName"])
		assert.Contains(t, post, "createdAt")
		assert.Contains(t, post, "updatedAt")
	})

	t.Run("create without password", func(t *testing.T) {
		w := do(router, http.MethodPost, "/posts", `{"title":"t"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, services.MsgPostPasswordEmpty, decodeMessage(t, w))
	})

	t.Run("malformed json", func(t *testing.T) {
		w := do(router, http.MethodPost, "/posts", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgBadRequest, decodeMessage(t, w))

		w = do(router, http.MethodPut, "/posts/1", `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list posts", func(t *testing.T) {
		do(router, http.MethodPost, "/posts", `{"title":"둘째 글","authorName":"영희","password":"p"}`)

		w := do(router, http.MethodGet, "/posts?page=1&size=1&author=%EC%98%81%ED%9D%AC", "")
		require.Equal(t, http.StatusOK, w.Code)

		var posts []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, "둘째 글", posts[0]["title"])

		calls := store.Calls().PostLists
		last := calls[len(calls)-1]
		assert.Nil(t, last.Filter.Search)
		assert.Equal(t, "영희", *last.Filter.Author)
	})

	t.Run("invalid paging falls back to defaults", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts?page=abc&size=-3", "")
		require.Equal(t, http.StatusOK, w.Code)

		calls := store.Calls().PostLists
		last := calls[len(calls)-1]
		assert.Equal(t, 0, last.Page.Skip)
		assert.Equal(t, 10, last.Page.Take)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts?search=nothing-matches", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("update wrong password", func(t *testing.T) {
		w := do(router, http.MethodPut, "/posts/1", `{"title":"x","content":"x","password":"nope"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, services.MsgPasswordMismatch, decodeMessage(t, w))
	})

	t.Run("update missing post", func(t *testing.T) {
		w := do(router, http.MethodPut, "/posts/999", `{"password":"1234"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, services.MsgPostNotFound, decodeMessage(t, w))
	})

	t.Run("update post", func(t *testing.T) {
		w := do(router, http.MethodPut, "/posts/1", `{"title":"수정","content":"<b>b</b>","password":"1234"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var post map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, "수정", post["title"])
		assert.Equal(t, "<b>b</b>", post["content"])
	})

	t.Run("delete post", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/posts/1", `{"password":"wrong"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = do(router, http.MethodDelete, "/posts/1", `{"password":"1234"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"삭제되었습니다."}`, w.Body.String())

		w = do(router, http.MethodDelete, "/posts/1", `{"password":"1234"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		store.FailWith(errors.New("db down"))
		defer store.FailWith(nil)

		w := do(router, http.MethodGet, "/posts", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, services.MsgPostList, decodeMessage(t, w))
	})
}

func TestCommentController(t *testing.T) {
	router, _ := setupRouter(t)
	w := do(router, http.MethodPost, "/posts", `{"title":"t","password":"p"}`)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("create on missing post", func(t *testing.T) {
		w := do(router, http.MethodPost, "/comments/999", `{"content":"c","authorName":"a"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, services.MsgPostNotFound, decodeMessage(t, w))
	})

	t.Run("create without content", func(t *testing.T) {
		w := do(router, http.MethodPost, "/comments/1", `{"authorName":"a"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, services.MsgCommentRequired, decodeMessage(t, w))
	})

	t.Run("create with unknown parent", func(t *testing.T) {
		w := do(router, http.MethodPost, "/comments/1", `{"content":"c","authorName":"a","parentId":42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, services.MsgCommentParentMissing, decodeMessage(t, w))
	})

	t.Run("thread", func(t *testing.T) {
		w := do(router, http.MethodPost, "/comments/1", `{"content":"부모","authorName":"a","password":"pw"}`)
		require.Equal(t, http.StatusOK, w.Code)
		w = do(router, http.MethodPost, "/comments/1", `{"content":"자식","authorName":"b","parentId":1}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(router, http.MethodGet, "/comments/1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var threads []struct {
			ID      int    `json:"id"`
			Content string `json:"content"`
			Replies []struct {
				ID       int   `json:"id"`
				ParentID *int  `json:"parentId"`
				Replies  []any `json:"replies"`
			} `json:"replies"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &threads))
		require.Len(t, threads, 1)
		assert.Equal(t, "부모", threads[0].Content)
		require.Len(t, threads[0].Replies, 1)
		assert.Equal(t, 1, *threads[0].Replies[0].ParentID)
		assert.NotNil(t, threads[0].Replies[0].Replies)
	})

	t.Run("update comment", func(t *testing.T) {
		w := do(router, http.MethodPut, "/comments/1", `{"content":"x"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = do(router, http.MethodPut, "/comments/77", `{"content":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, services.MsgCommentNotFound, decodeMessage(t, w))

		w = do(router, http.MethodPut, "/comments/2", `{"content":"수정"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "수정")
	})

	t.Run("delete without body", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/comments/1", "")
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = do(router, http.MethodDelete, "/comments/2", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"삭제되었습니다."}`, w.Body.String())
	})

	t.Run("delete cascades replies", func(t *testing.T) {
		do(router, http.MethodPost, "/comments/1", `{"content":"r","authorName":"b","parentId":1}`)

		w := do(router, http.MethodDelete, "/comments/1", `{"password":"pw"}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(router, http.MethodGet, "/comments/1", "")
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestRespondErrorHidesUnknownErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)

	respondError(w, r, errors.New("secret internals"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Equal(t, msgServer, decodeMessage(t, w))
}
