package game

const (
	// MinPlayers is the minimum number of players required to start a game
	MinPlayers = 2

	// MaxPlayers caps the roster; later reactions to the registration message are ignored
	MaxPlayers = 12

	// SSEBufferSize is the buffer size for per-participant message channels
	SSEBufferSize = 32

	// BacklogSize is how many recent messages are replayed to a reconnecting participant
	BacklogSize = 50

	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6

	// RoomCodeChars are the characters used for generating room codes (excluding ambiguous chars)
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)
