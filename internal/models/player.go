package models

// PlayerScore tracks persistent score across games
type PlayerScore struct {
	GamesWon  int
	GamesLost int
}

// User is a platform identity. ID doubles as the recipient of private messages.
type User struct {
	ID   string
	Name string
}
