package models

// BeforeCreate stamps creation and update times when unset
func (c *Comment) BeforeCreate() {
	now := Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
}

// Touch records a modification
func (c *Comment) Touch() {
	c.UpdatedAt = Now()
}

// IsReply reports whether the comment answers another comment
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// PasswordMatches compares optional passwords. A comment stored without a
// password only matches a request that supplies none.
func (c *Comment) PasswordMatches(password *string) bool {
	return SamePassword(c.Password, password)
}

// NotificationText is the text scanned for keywords.
func (c *Comment) NotificationText() string {
	return c.Content
}

// OptionalPassword treats an empty password as no password.
func OptionalPassword(password *string) *string {
	if password == nil || *password == "" {
		return nil
	}
	return password
}

// SamePassword compares two optional passwords.
func SamePassword(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NewCommentThread wraps c with an empty reply list.
func NewCommentThread(c *Comment) *CommentThread {
	return &CommentThread{
		Comment: *c,
		Replies: []*CommentThread{},
	}
}

// AddReply appends a reply to the thread.
func (t *CommentThread) AddReply(reply *CommentThread) {
	t.Replies = append(t.Replies, reply)
}
