package oracle

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"regexp"
	"slices"
	"strings"
)

//go:embed instructions.txt
var DefaultInstructions string

//go:embed related.txt
var relatedInstructions string

const (
	answerMaxTokens  = 120
	relatedMaxTokens = 25
	padWord          = "-"
)

var footnotePattern = regexp.MustCompile(`\[\d+\]`)

// LoadInstructions reads the oracle system instructions, or returns the built-in ones when path is empty
func LoadInstructions(path string) (string, error) {
	if path == "" {
		return DefaultInstructions, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading instructions: %w", err)
	}
	return string(b), nil
}

// Exchange is one answered question
type Exchange struct {
	Question string
	Response string
}

// Witness answers questions about a secret keyword without using banned words
type Witness struct {
	completer    Completer
	instructions string
	keyword      string
	words        int
	banned       []string
	history      []Exchange
}

// NewWitness creates the oracle for one session. words is the length every answer is padded or cut to.
func NewWitness(c Completer, instructions, keyword string, words int) *Witness {
	return &Witness{
		completer:    c,
		instructions: instructions,
		keyword:      keyword,
		words:        words,
	}
}

// BannedWords returns the words added to the keyword's own words in every prompt
func (w *Witness) BannedWords() []string { return slices.Clone(w.banned) }

// SeedBannedWords asks for up to n words closely related to the keyword and bans them.
// A failed completion leaves only the keyword itself banned.
func (w *Witness) SeedBannedWords(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	answer, err := w.completer.Complete(ctx, Request{
		System:    relatedInstructions,
		Prompt:    fmt.Sprintf("Keyword: %q. Word count: %d.", w.keyword, n),
		MaxTokens: relatedMaxTokens,
	})
	if err != nil {
		log.Printf("WARN: seeding banned words for keyword failed: %v", err)
		return
	}

	var related []string
	for _, word := range strings.Fields(strings.ToLower(answer)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if word == "" || w.isKeywordWord(word) || slices.Contains(related, word) {
			continue
		}
		related = append(related, word)
		if len(related) == n {
			break
		}
	}
	w.Ban(related...)
}

// Ban adds words to the banned list, skipping duplicates
func (w *Witness) Ban(words ...string) {
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || slices.Contains(w.banned, word) {
			continue
		}
		w.banned = append(w.banned, word)
	}
}

func (w *Witness) isKeywordWord(word string) bool {
	return slices.Contains(strings.Fields(strings.ToLower(w.keyword)), word)
}

// Prompt builds the user message for a question
func (w *Witness) Prompt(question string) string {
	quoted := make([]string, 0, len(w.banned)+2)
	for _, word := range w.banned {
		quoted = append(quoted, fmt.Sprintf("%q", word))
	}
	for _, word := range strings.Fields(w.keyword) {
		quoted = append(quoted, fmt.Sprintf("%q", word))
	}

	var b strings.Builder
	b.WriteString("Prompt: ")
	fmt.Fprintf(&b, "Length: %d words. ", w.words)
	fmt.Fprintf(&b, "Keyword: %q. ", w.keyword)
	fmt.Fprintf(&b, "Banned words: %s. ", strings.Join(quoted, ", "))
	fmt.Fprintf(&b, "Question: %q", question)
	return b.String()
}

// Ask queries the oracle and returns exactly WordCount words. The exchange is
// recorded only when the completion succeeds.
func (w *Witness) Ask(ctx context.Context, question string) ([]string, error) {
	answer, err := w.completer.Complete(ctx, Request{
		System:    w.instructions,
		Prompt:    w.Prompt(question),
		MaxTokens: answerMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("asking witness: %w", err)
	}
	w.history = append(w.history, Exchange{Question: question, Response: answer})
	return Clean(answer, w.words), nil
}

// Clean strips footnote markers and pads with "-" or truncates to n words
func Clean(answer string, n int) []string {
	words := strings.Fields(footnotePattern.ReplaceAllString(answer, ""))
	for len(words) < n {
		words = append(words, padWord)
	}
	return words[:n]
}

// LastQuestion returns the most recently answered question
func (w *Witness) LastQuestion() (string, bool) {
	if len(w.history) == 0 {
		return "", false
	}
	return w.history[len(w.history)-1].Question, true
}

// LastResponse returns the most recent raw answer
func (w *Witness) LastResponse() (string, bool) {
	if len(w.history) == 0 {
		return "", false
	}
	return w.history[len(w.history)-1].Response, true
}

// Asked reports whether any question has been answered yet
func (w *Witness) Asked() bool { return len(w.history) > 0 }

func (w *Witness) Transcript() []Exchange { return slices.Clone(w.history) }
