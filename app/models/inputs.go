package models

// PostInput is the body of a post creation request.
type PostInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	Password   string `json:"password" validate:"required"`
}

// Validate checks the input's required fields
func (in *PostInput) Validate() error {
	return validate.Struct(in)
}

// PostUpdateInput is the body of a post update request.
type PostUpdateInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Password string `json:"password"`
}

// CommentInput is the body of a comment creation request.
type CommentInput struct {
	Content    string  `json:"content" validate:"required"`
	AuthorName string  `json:"authorName" validate:"required"`
	Password   *string `json:"password"`
	ParentID   *int    `json:"parentId"`
}

// Validate checks the input's required fields
func (in *CommentInput) Validate() error {
	return validate.Struct(in)
}

// CommentUpdateInput is the body of a comment update request.
type CommentUpdateInput struct {
	Content  string  `json:"content"`
	Password *string `json:"password"`
}

// DeleteInput is the body of a delete request.
type DeleteInput struct {
	Password *string `json:"password"`
}

// PasswordValue returns the supplied password, or "" when none was sent.
func (in DeleteInput) PasswordValue() string {
	if in.Password == nil {
		return ""
	}
	return *in.Password
}
