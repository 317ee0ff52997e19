package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   *PostInput
		wantErr bool
	}{
		{
			name: "valid input",
			input: &PostInput{
				Title:      "Valid Title",
				Content:    "<p>content</p>",
				AuthorName: "author",
				Password:   "secret",
			},
			wantErr: false,
		},
		{
			name: "missing password",
			input: &PostInput{
				Title:      "Valid Title",
				Content:    "content",
				AuthorName: "author",
			},
			wantErr: true,
		},
		{
			name: "only password",
			input: &PostInput{
				Password: "secret",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{
		Title:   "Test Post",
		Content: "Test Content",
	}

	assert.True(t, post.CreatedAt.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)

	created := post.CreatedAt
	post.BeforeCreate()
	assert.Equal(t, created, post.CreatedAt)
}

func TestPostPasswordMatches(t *testing.T) {
	post := &Post{Password: "p"}

	assert.True(t, post.PasswordMatches("p"))
	assert.False(t, post.PasswordMatches("P"))
	assert.False(t, post.PasswordMatches(""))
}

func TestPostNotificationText(t *testing.T) {
	assert.Equal(t, "body", (&Post{Title: "title", Content: "body"}).NotificationText())
	assert.Equal(t, "title", (&Post{Title: "title"}).NotificationText())
}
