package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(orig) })
	return &buf
}

func TestLogger(t *testing.T) {
	buf := captureLog(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest("GET", "/posts?page=2", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	out := buf.String()
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "/posts?page=2")
	assert.Contains(t, out, "418")
	assert.Contains(t, out, "5B")
	assert.Contains(t, out, "took")
}

func TestLoggerImplicitStatus(t *testing.T) {
	buf := captureLog(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("DELETE", "/x", nil))

	assert.Contains(t, buf.String(), "DELETE /x 200")
}

func TestRecoverer(t *testing.T) {
	captureLog(t)

	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rw := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(rw, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.JSONEq(t, `{"message":"서버 오류가 발생했습니다."}`, rw.Body.String())
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name:    "default",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want:    "application/json; charset=utf-8",
		},
		{
			name: "handler override",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
			},
			want: "text/plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw := httptest.NewRecorder()
			ContentTypeJSON(tt.handler).ServeHTTP(rw, httptest.NewRequest("GET", "/posts", nil))
			assert.Equal(t, tt.want, rw.Header().Get("Content-Type"))
		})
	}
}
