package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordAlertValidation(t *testing.T) {
	assert.NoError(t, (&KeywordAlert{Keyword: "go", AuthorName: "gopher"}).Validate())
	assert.Error(t, (&KeywordAlert{AuthorName: "gopher"}).Validate())
	assert.Error(t, (&KeywordAlert{Keyword: "go"}).Validate())
}

func TestKeywordAlertMatches(t *testing.T) {
	alert := &KeywordAlert{Keyword: "Go"}

	assert.True(t, alert.Matches("Learning Go today"))
	assert.False(t, alert.Matches("learning go today"))
	assert.False(t, (&KeywordAlert{}).Matches("anything"))
}
