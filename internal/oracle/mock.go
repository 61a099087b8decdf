package oracle

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var (
	lengthPattern = regexp.MustCompile(`Length: (\d+) words`)
	countPattern  = regexp.MustCompile(`Word count: (\d+)`)
)

var mockVocabulary = strings.Fields("it is often found near people and can be used every day by almost anyone who wants")

// MockCompleter answers without a network call. Oracle prompts get filler text of
// the requested length, related-word prompts get placeholder words.
type MockCompleter struct{}

var _ Completer = (*MockCompleter)(nil)

func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

func (m *MockCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if match := countPattern.FindStringSubmatch(req.Prompt); match != nil {
		n, _ := strconv.Atoi(match[1])
		words := make([]string, n)
		for i := range words {
			words[i] = "clue" + strconv.Itoa(i+1)
		}
		return strings.Join(words, " "), nil
	}

	n := len(mockVocabulary)
	if match := lengthPattern.FindStringSubmatch(req.Prompt); match != nil {
		n, _ = strconv.Atoi(match[1])
	}
	words := make([]string, n)
	for i := range words {
		words[i] = mockVocabulary[i%len(mockVocabulary)]
	}
	return strings.Join(words, " "), nil
}
