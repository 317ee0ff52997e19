package models

import "strings"

// Validate checks the alert's required fields
func (a *KeywordAlert) Validate() error {
	return validate.Struct(a)
}

// BeforeCreate sets the creation time when unset
func (a *KeywordAlert) BeforeCreate() {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = Now()
	}
}

// Matches reports whether text contains the alert keyword.
func (a *KeywordAlert) Matches(text string) bool {
	return a.Keyword != "" && strings.Contains(text, a.Keyword)
}
