package session

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/policy"
	"github.com/aaronzipp/witness/internal/render"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

var (
	ErrUnknownMessage = errors.New("not the registration message")
	ErrGameStarted    = errors.New("game already started")
	ErrAlreadyJoined  = errors.New("already joined")
	ErrNameTaken      = errors.New("name already taken")
	ErrLobbyFull      = errors.New("lobby is full")
	ErrLobbyClosed    = errors.New("lobby is closed")
)

// Messenger delivers text to one participant's private channel
type Messenger interface {
	Send(ctx context.Context, recipientID, text string) error
}

// Authorizer decides whether a participant may issue a command
type Authorizer interface {
	Allow(ctx context.Context, req policy.Request) (bool, error)
}

// Archive stores concluded games
type Archive interface {
	RecordGame(ctx context.Context, record models.GameRecord) error
}

// Deps are the collaborators shared by every lobby
type Deps struct {
	Messenger    Messenger
	Completer    oracle.Completer
	Instructions string
	Words        *game.WordList
	Policy       Authorizer
	Archive      Archive // optional
	Clock        Clock
	NewRand      func() *rand.Rand
}

func (d *Deps) defaults() {
	if d.Clock == nil {
		d.Clock = RealClock()
	}
	if d.NewRand == nil {
		d.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if d.Instructions == "" {
		d.Instructions = oracle.DefaultInstructions
	}
}

// Lobby is a persistent channel set hosting consecutive sessions.
// All event handling of a lobby is serialized by its mutex.
type Lobby struct {
	Code           string
	RegistrationID string // participants join by reacting to this message

	mu      sync.Mutex
	deps    Deps
	rng     *rand.Rand
	session *Session
	tokens  uint64
	closed  bool
	scores  map[string]*models.PlayerScore // playerID -> PlayerScore (persistent)
}

// NewLobby opens a lobby with host as its first participant
func NewLobby(ctx context.Context, code string, host models.User, deps Deps) *Lobby {
	deps.defaults()
	l := &Lobby{
		Code:           code,
		RegistrationID: uuid.NewString(),
		deps:           deps,
		rng:            deps.NewRand(),
		scores:         make(map[string]*models.PlayerScore),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.session = newSession(l, []models.User{host}, game.DefaultSettings())
	l.send(ctx, host.ID, render.Welcome())
	l.session.transition(ctx, models.PhaseCreation)
	log.Printf("Lobby %s created by %s", code, host.Name)
	return l
}

// HandleReaction registers user when they react to the registration message
func (l *Lobby) HandleReaction(ctx context.Context, messageID string, user models.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLobbyClosed
	}
	if messageID != l.RegistrationID {
		return ErrUnknownMessage
	}
	s := l.session
	if s.participant(user.ID) != nil {
		return ErrAlreadyJoined
	}
	if s.phase.Kind != models.PhaseCreation {
		return ErrGameStarted
	}
	if len(s.roster) >= game.MaxPlayers {
		return ErrLobbyFull
	}
	for _, p := range s.roster {
		if strings.EqualFold(p.Name, user.Name) {
			return ErrNameTaken
		}
	}

	s.roster = append(s.roster, &Participant{User: user})
	l.send(ctx, user.ID, render.Welcome())
	s.broadcastf(ctx, "`%s` joined the game! There are now %d players.", user.Name, len(s.roster))
	return nil
}

// HandleMessage routes a chat message from authorID to the current session.
// Messages to a closed lobby are dropped.
func (l *Lobby) HandleMessage(ctx context.Context, authorID, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLobbyClosed
	}
	l.session.dispatch(ctx, authorID, text)
	return nil
}

// onTimeout fires when a phase timer elapses. Timers of replaced sessions or phases are ignored.
func (l *Lobby) onTimeout(s *Session, token uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.session != s || s.phase.token != token {
		if debug {
			log.Printf("Lobby %s: ignoring stale timer %d", l.Code, token)
		}
		return
	}
	s.timeout(context.Background())
}

// Members returns the participants of the current session in join order
func (l *Lobby) Members() []models.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.users()
}

// IsMember reports whether id belongs to the current session
func (l *Lobby) IsMember(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.participant(id) != nil
}

// IsHost reports whether id is the current game host
func (l *Lobby) IsHost(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.session.roster) > 0 && l.session.roster[0].ID == id
}

// Empty reports whether everyone left
func (l *Lobby) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.session.roster) == 0
}

// Phase returns the current phase
func (l *Lobby) Phase() models.Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.phase.Kind
}

// Scores returns a copy of the lobby scoreboard
func (l *Lobby) Scores() map[string]models.PlayerScore {
	l.mu.Lock()
	defer l.mu.Unlock()
	scores := make(map[string]models.PlayerScore, len(l.scores))
	for id, s := range l.scores {
		scores[id] = *s
	}
	return scores
}

// Close stops the pending phase timer and rejects further events
func (l *Lobby) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.session.stopTimer()
}

// Closed reports whether Close was called
func (l *Lobby) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// send delivers text, logging failures. Must be called with the lock held.
func (l *Lobby) send(ctx context.Context, recipientID, text string) {
	if err := l.deps.Messenger.Send(ctx, recipientID, text); err != nil {
		log.Printf("WARN: lobby %s: send to %s failed: %v", l.Code, recipientID, err)
	}
}
