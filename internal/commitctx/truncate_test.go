package commitctx

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate_NoCaps(t *testing.T) {
	text := "a\nb\nc"
	got, truncated := Truncate(text, 0, 0)
	assert.Equal(t, text, got)
	assert.False(t, truncated)
}

func TestTruncate_LineClamp(t *testing.T) {
	got, truncated := Truncate("a\nb\nc\nd", 2, 0)
	assert.Equal(t, "a\nb", got)
	assert.True(t, truncated)
}

func TestTruncate_TrailingNewlineNotCounted(t *testing.T) {
	got, truncated := Truncate("a\nb\n", 2, 0)
	assert.Equal(t, "a\nb", got)
	assert.False(t, truncated)
}

func TestTruncate_ByteClamp(t *testing.T) {
	got, truncated := Truncate("abcdef", 0, 4)
	assert.Equal(t, "abcd", got)
	assert.True(t, truncated)
}

func TestTruncate_NeverSplitsRune(t *testing.T) {
	// In "héllo", é is two bytes; cutting at 2 lands mid-rune.
	text := "héllo"
	for limit := 1; limit < len(text); limit++ {
		got, _ := Truncate(text, 0, limit)
		assert.True(t, utf8.ValidString(got), "limit %d produced invalid UTF-8: %q", limit, got)
		assert.LessOrEqual(t, len(got), limit)
	}
}

func TestTruncate_FourByteRune(t *testing.T) {
	text := strings.Repeat("\U0001F600", 3) // 12 bytes
	got, truncated := Truncate(text, 0, 10)
	require.True(t, truncated)
	assert.Equal(t, strings.Repeat("\U0001F600", 2), got)
}

func TestTruncate_LinesThenBytes(t *testing.T) {
	got, truncated := Truncate("aaaa\nbbbb\ncccc", 2, 6)
	assert.True(t, truncated)
	assert.Equal(t, "aaaa\nb", got)
}

func TestTruncate_WithinCaps(t *testing.T) {
	got, truncated := Truncate("ab\ncd", 10, 100)
	assert.Equal(t, "ab\ncd", got)
	assert.False(t, truncated)
}
