package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"postboard/app/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *recordingNotifier) Notify(_ context.Context, subject notify.Notifiable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, subject.NotificationText())
}

func ptr[T any](v T) *T { return &v }

// requireKind asserts err is a *Error of the given kind and message.
func requireKind(t *testing.T, err error, kind Kind, message string) {
	t.Helper()
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %T: %v", err, err)
	assert.Equal(t, kind, svcErr.Kind)
	assert.Equal(t, message, svcErr.Message)
}

func TestErrorStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &Error{Kind: tt.kind, Message: "m"}
			assert.Equal(t, tt.want, err.StatusCode())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := internalError(MsgPostCreate, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), MsgPostCreate)
}
