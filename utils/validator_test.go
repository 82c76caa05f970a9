package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("student@university.edu"))
	assert.True(t, ValidateEmail("first.last+tag@sub.domain.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("secret1234")
	assert.True(t, ok)

	ok, msg := ValidatePassword("short1")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	// long enough but missing a digit / a letter
	ok, _ = ValidatePassword("lettersonly")
	assert.False(t, ok)
	ok, _ = ValidatePassword("1234567890")
	assert.False(t, ok)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}
