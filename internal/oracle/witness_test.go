package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	answers  []string
	err      error
	requests []Request
}

func (s *stubCompleter) Complete(ctx context.Context, req Request) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func TestClean(t *testing.T) {
	assert.Equal(t, []string{"it", "barks", "-", "-"}, Clean("it[1] barks [2]", 4))
	assert.Equal(t, []string{"one", "two"}, Clean("one two three", 2))
	assert.Equal(t, []string{"-"}, Clean("", 1))
}

func TestWitnessPrompt(t *testing.T) {
	w := NewWitness(&stubCompleter{}, "sys", "hot dog", 6)
	w.Ban("Mustard", "bun", "mustard")

	assert.Equal(t, []string{"mustard", "bun"}, w.BannedWords())
	assert.Equal(t,
		`Prompt: Length: 6 words. Keyword: "hot dog". Banned words: "mustard", "bun", "hot", "dog". Question: "what is it?"`,
		w.Prompt("what is it?"))
}

func TestWitnessAsk(t *testing.T) {
	stub := &stubCompleter{answers: []string{"a tall striped tower by the sea"}}
	w := NewWitness(stub, "sys", "lighthouse", 4)

	_, ok := w.LastQuestion()
	assert.False(t, ok)

	words, err := w.Ask(context.Background(), "where is it?")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "tall", "striped", "tower"}, words)

	require.Len(t, stub.requests, 1)
	assert.Equal(t, "sys", stub.requests[0].System)
	assert.Equal(t, answerMaxTokens, stub.requests[0].MaxTokens)

	q, ok := w.LastQuestion()
	require.True(t, ok)
	assert.Equal(t, "where is it?", q)
	r, _ := w.LastResponse()
	assert.Equal(t, "a tall striped tower by the sea", r)
	assert.True(t, w.Asked())
	assert.Len(t, w.Transcript(), 1)
}

func TestWitnessAskFailureKeepsHistory(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	w := NewWitness(stub, "sys", "lighthouse", 4)

	_, err := w.Ask(context.Background(), "where is it?")
	require.Error(t, err)
	assert.False(t, w.Asked())
	assert.Empty(t, w.Transcript())
}

func TestSeedBannedWords(t *testing.T) {
	stub := &stubCompleter{answers: []string{"Light, ocean lighthouse beam ship ocean"}}
	w := NewWitness(stub, "sys", "lighthouse", 4)

	w.SeedBannedWords(context.Background(), 3)
	assert.Equal(t, []string{"light", "ocean", "beam"}, w.BannedWords())
	assert.Equal(t, relatedMaxTokens, stub.requests[0].MaxTokens)
	assert.Contains(t, stub.requests[0].Prompt, `Keyword: "lighthouse". Word count: 3.`)
}

func TestSeedBannedWordsFailure(t *testing.T) {
	w := NewWitness(&stubCompleter{err: errors.New("offline")}, "sys", "lighthouse", 4)
	w.SeedBannedWords(context.Background(), 3)
	assert.Empty(t, w.BannedWords())
	assert.Contains(t, w.Prompt("q"), `Banned words: "lighthouse".`)
}

func TestMockCompleter(t *testing.T) {
	m := NewMockCompleter()
	w := NewWitness(m, DefaultInstructions, "pizza", 5)

	w.SeedBannedWords(context.Background(), 2)
	assert.Equal(t, []string{"clue1", "clue2"}, w.BannedWords())

	words, err := w.Ask(context.Background(), "what is it?")
	require.NoError(t, err)
	assert.Len(t, words, 5)
	assert.NotContains(t, words, padWord)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Ask(ctx, "again?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadInstructions(t *testing.T) {
	s, err := LoadInstructions("")
	require.NoError(t, err)
	assert.Equal(t, DefaultInstructions, s)

	_, err = LoadInstructions("/nonexistent/instructions.txt")
	assert.Error(t, err)
}

func TestNewCompleterMode(t *testing.T) {
	assert.IsType(t, &MockCompleter{}, NewCompleter(ModeMock, "", "", "", 0))
	assert.IsType(t, &OpenAICompleter{}, NewCompleter("", "http://localhost:1", "key", "gpt-4o-mini", 0))
}
