package controllers

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hello...", truncate("hello world", 5))

	// multibyte previews must stay valid UTF-8
	got := truncate("สวัสดีครับทุกคน", 6)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "สวัสดี...", got)

	got = truncate("héllo wörld", 7)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "héllo w...", got)
}
