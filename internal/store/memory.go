package store

import (
	"sync"

	"github.com/aaronzipp/witness/internal/session"
)

// LobbyStore manages lobby storage
type LobbyStore struct {
	lobbies map[string]*session.Lobby
	mu      sync.RWMutex
}

// NewLobbyStore creates a new lobby store
func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[string]*session.Lobby),
	}
}

// Get retrieves a lobby by code
func (s *LobbyStore) Get(code string) (*session.Lobby, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, exists := s.lobbies[code]
	return lobby, exists
}

// Set stores a lobby
func (s *LobbyStore) Set(code string, lobby *session.Lobby) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[code] = lobby
}

// Delete removes a lobby and stops its timers
func (s *LobbyStore) Delete(code string) {
	s.mu.Lock()
	lobby, exists := s.lobbies[code]
	delete(s.lobbies, code)
	s.mu.Unlock()
	if exists {
		lobby.Close()
	}
}

// Exists checks if a lobby code exists
func (s *LobbyStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.lobbies[code]
	return exists
}

// Codes lists the open lobby codes
func (s *LobbyStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.lobbies))
	for code := range s.lobbies {
		codes = append(codes, code)
	}
	return codes
}

// Len returns the number of open lobbies
func (s *LobbyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lobbies)
}
