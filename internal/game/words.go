package game

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

//go:embed words.txt
var defaultWords string

// WordList holds the candidate keywords
type WordList struct {
	words []string
}

// LoadWordList reads one keyword per line from path, or the built-in list when path is empty
func LoadWordList(path string) (*WordList, error) {
	if path == "" {
		return ParseWordList(strings.NewReader(defaultWords))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()
	return ParseWordList(f)
}

// ParseWordList reads one keyword per line, skipping blank lines
func ParseWordList(r io.Reader) (*WordList, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return &WordList{words: words}, nil
}

func (w *WordList) Len() int { return len(w.words) }

// Random picks a keyword
func (w *WordList) Random(rng *rand.Rand) string {
	return w.words[rng.Intn(len(w.words))]
}
