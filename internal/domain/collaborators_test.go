package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMediaCategory(t *testing.T) {
	cases := map[string]struct {
		want MediaCategory
		ok   bool
	}{
		"anime":       {MediaAnime, true},
		"  Manga ":    {MediaManga, true},
		"CHARACTER":   {MediaCharacter, true},
		"":            {"", false},
		"anime manga": {"", false},
		"characters":  {"", false},
	}
	for in, tc := range cases {
		got, ok := ParseMediaCategory(in)
		assert.Equal(t, tc.ok, ok, in)
		assert.Equal(t, tc.want, got, in)
	}
}
