// Package chunker parte textos largos en trozos que caben en un mensaje.
package chunker

import "unicode/utf8"

// Chunk splits text into contiguous pieces of at most maxLen runes each.
// Joining the result yields text unchanged; an empty text yields no chunks.
// Bytes that are not valid UTF-8 count as one rune and are kept as-is.
func Chunk(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if maxLen <= 0 {
		return []string{text}
	}

	out := make([]string, 0, utf8.RuneCountInString(text)/maxLen+1)
	start, count := 0, 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		if count == maxLen {
			out = append(out, text[start:i])
			start, count = i, 0
		}
		i += size
		count++
	}
	return append(out, text[start:])
}
