package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_Empty(t *testing.T) {
	assert.Empty(t, Chunk("", 10))
	assert.Empty(t, Chunk("", 1))
}

func TestChunk_FitsInOne(t *testing.T) {
	assert.Equal(t, []string{"hello"}, Chunk("hello", 5))
	assert.Equal(t, []string{"hello"}, Chunk("hello", 2000))
}

func TestChunk_SplitsAtFixedOffsets(t *testing.T) {
	got := Chunk("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, got)
}

func TestChunk_ExactMultipleHasNoTrailingEmpty(t *testing.T) {
	got := Chunk("abcdef", 3)
	assert.Equal(t, []string{"abc", "def"}, got)
}

func TestChunk_SplitsMidWord(t *testing.T) {
	got := Chunk("hello world", 7)
	assert.Equal(t, []string{"hello w", "orld"}, got)
}

func TestChunk_CountsRunesNotBytes(t *testing.T) {
	text := "ñandú café"
	got := Chunk(text, 4)
	require.Equal(t, []string{"ñand", "ú ca", "fé"}, got)
	for _, c := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 4)
	}
}

func TestChunk_KeepsInvalidBytes(t *testing.T) {
	text := "ab\xffcd\xfe"
	got := Chunk(text, 2)
	assert.Equal(t, text, strings.Join(got, ""))
	assert.Equal(t, []string{"ab", "\xffc", "d\xfe"}, got)
}

func TestChunk_NonPositiveMax(t *testing.T) {
	assert.Equal(t, []string{"abc"}, Chunk("abc", 0))
	assert.Equal(t, []string{"abc"}, Chunk("abc", -3))
}

func TestChunk_JoinAndBoundProperties(t *testing.T) {
	texts := []string{
		"a",
		strings.Repeat("x", 2000),
		strings.Repeat("x", 2001),
		strings.Repeat("日本語テキスト", 500),
		strings.Repeat("lorem ipsum dolor sit amet ", 300),
	}
	sizes := []int{1, 2, 3, 7, 100, 2000, 5000}

	for _, text := range texts {
		for _, n := range sizes {
			chunks := Chunk(text, n)
			assert.Equal(t, text, strings.Join(chunks, ""), "join n=%d", n)
			for i, c := range chunks {
				assert.NotEmpty(t, c)
				assert.LessOrEqual(t, utf8.RuneCountInString(c), n, "chunk %d n=%d", i, n)
				if i < len(chunks)-1 {
					assert.Equal(t, n, utf8.RuneCountInString(c), "only the last chunk may be short")
				}
			}
		}
	}
}
