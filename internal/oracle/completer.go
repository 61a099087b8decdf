package oracle

import (
	"context"
	"log"
	"time"
)

// ModeMock selects the offline completer
const ModeMock = "MOCK"

// Request is a single system+user chat completion
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completer produces a chat completion
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewCompleter returns the mock completer when mode is MOCK and an OpenAI-backed one otherwise
func NewCompleter(mode, baseURL, apiKey, model string, timeout time.Duration) Completer {
	if mode == ModeMock {
		log.Println("WITNESS_MODE=MOCK detected, using mock oracle")
		return NewMockCompleter()
	}
	return NewOpenAICompleter(baseURL, apiKey, model, timeout)
}
