package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// CodeChecker reports whether a lobby code is already taken
type CodeChecker interface {
	Exists(code string) bool
}

// GenerateRoomCode creates a random room code
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range RoomCodeLength {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = RoomCodeChars[rand.Intn(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

// GetUniqueRoomCode generates a room code not yet known to the checker
func GetUniqueRoomCode(codes CodeChecker) string {
	for {
		code := GenerateRoomCode()
		if !codes.Exists(code) {
			return code
		}
	}
}
