package term

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessageShortTextPassesThrough(t *testing.T) {
	parts := SplitMessage("hello", 100)
	assert.Equal(t, []string{"hello"}, parts)
}

func TestSplitMessageSplitsLongText(t *testing.T) {
	text := strings.Repeat("a", 250)
	parts := SplitMessage(text, 100)

	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 100)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessagePrefersNewlineBreak(t *testing.T) {
	text := strings.Repeat("a", 80) + "\n" + strings.Repeat("b", 80)
	parts := SplitMessage(text, 100)

	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 80)+"\n", parts[0])
	assert.Equal(t, strings.Repeat("b", 80), parts[1])
}

func TestSplitMessageHandlesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("é", 150)
	parts := SplitMessage(text, 100)

	require.Len(t, parts, 2)
	assert.Equal(t, text, strings.Join(parts, ""))
}
