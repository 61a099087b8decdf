package sse

// SSE event type constants
const (
	EventMessage      = "message"
	EventErrorMessage = "error-message"
)
