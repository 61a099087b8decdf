package models

// ChatMessage is one line delivered to a participant's private channel
type ChatMessage struct {
	Event string // Event type (e.g., "message", "error-message")
	Data  string // message text
}
