package models

// BeforeCreate stamps creation and update times when unset
func (p *Post) BeforeCreate() {
	now := Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}

// Touch records a modification
func (p *Post) Touch() {
	p.UpdatedAt = Now()
}

// PasswordMatches reports whether password equals the stored one.
func (p *Post) PasswordMatches(password string) bool {
	return p.Password == password
}

// NotificationText is the text scanned for keywords: the content, or the
// title when the content is empty.
func (p *Post) NotificationText() string {
	if p.Content != "" {
		return p.Content
	}
	return p.Title
}
