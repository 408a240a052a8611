package wordcloud

import (
	"strings"
	"unicode"
)

// minTokenLen is the shortest token (in bytes) that survives filtering.
const minTokenLen = 3

// Tokenize turns raw text into the significant words of a cloud, in the order
// they appear. Everything outside [a-z0-9'-] acts as a separator; stop-words,
// tokens shorter than three characters and all-digit tokens are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		w := cur.String()
		cur.Reset()
		if keepToken(w) {
			out = append(out, w)
		}
	}

	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'' || r == '-'
}

func keepToken(w string) bool {
	if len(w) < minTokenLen {
		return false
	}
	if IsStopword(w) {
		return false
	}
	return !allDigits(w)
}

func allDigits(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Segmenter splits corpus text into cloud words. Implementations must be safe
// for concurrent use.
type Segmenter interface {
	Segment(text string) []string
}

// EnglishSegmenter is the default Segmenter backed by Tokenize.
type EnglishSegmenter struct{}

// Segment implements Segmenter.
func (EnglishSegmenter) Segment(text string) []string { return Tokenize(text) }
