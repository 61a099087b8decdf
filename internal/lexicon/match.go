// Package lexicon compares keyword guesses by their English word stems.
package lexicon

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// WordCount counts space-delimited words
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Stems lower-cases each word, drops non-letters and reduces it to its Snowball stem
func Stems(s string) []string {
	words := strings.Fields(s)
	stems := make([]string, 0, len(words))
	for _, w := range words {
		stems = append(stems, english.Stem(lettersOnly(strings.ToLower(w)), true))
	}
	return stems
}

// Match reports whether guess and keyword have the same stems in the same order
func Match(guess, keyword string) bool {
	g, k := Stems(guess), Stems(keyword)
	if len(g) != len(k) {
		return false
	}
	for i := range g {
		if g[i] != k[i] {
			return false
		}
	}
	return true
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}
