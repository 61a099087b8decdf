package session

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/policy"
	"github.com/aaronzipp/witness/internal/roles"
)

type fakeMessenger struct {
	mu   sync.Mutex
	sent map[string][]string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sent: make(map[string][]string)}
}

func (m *fakeMessenger) Send(_ context.Context, recipientID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[recipientID] = append(m.sent[recipientID], text)
	return nil
}

func (m *fakeMessenger) messages(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent[id]...)
}

func (m *fakeMessenger) received(id, substr string) bool {
	for _, msg := range m.messages(id) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func (m *fakeMessenger) count(id, substr string) int {
	n := 0
	for _, msg := range m.messages(id) {
		if strings.Contains(msg, substr) {
			n++
		}
	}
	return n
}

func (m *fakeMessenger) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = make(map[string][]string)
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and fires every due timer
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Skip moves time forward without firing timers
func (c *fakeClock) Skip(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeCompleter struct {
	mu      sync.Mutex
	answer  string
	related string
	err     error
	prompts []string
}

func (c *fakeCompleter) Complete(_ context.Context, req oracle.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.Contains(req.Prompt, "Word count:") {
		return c.related, nil
	}
	c.prompts = append(c.prompts, req.Prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

func (c *fakeCompleter) lastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

type fixture struct {
	lobby     *Lobby
	messenger *fakeMessenger
	clock     *fakeClock
	completer *fakeCompleter
	archive   *fakeArchive
}

type fakeArchive struct {
	mu      sync.Mutex
	records []models.GameRecord
}

func (a *fakeArchive) RecordGame(_ context.Context, record models.GameRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	return nil
}

// newFixture opens a lobby hosted by names[0] that every other name joins.
// Participant IDs equal their display names.
func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	ctx := context.Background()

	engine, err := policy.NewEngine(ctx, "")
	require.NoError(t, err)
	words, err := game.ParseWordList(strings.NewReader("hot dog\n"))
	require.NoError(t, err)

	f := &fixture{
		messenger: newFakeMessenger(),
		clock:     newFakeClock(),
		completer: &fakeCompleter{
			answer:  "it is a tasty snack sold at every baseball game in summer",
			related: "sausage bun mustard ketchup",
		},
		archive: &fakeArchive{},
	}
	f.lobby = NewLobby(ctx, "ABCDEF", models.User{ID: names[0], Name: names[0]}, Deps{
		Messenger: f.messenger,
		Completer: f.completer,
		Words:     words,
		Policy:    engine,
		Archive:   f.archive,
		Clock:     f.clock,
		NewRand:   func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	})
	t.Cleanup(f.lobby.Close)

	for _, name := range names[1:] {
		require.NoError(t, f.lobby.HandleReaction(ctx, f.lobby.RegistrationID, models.User{ID: name, Name: name}))
	}
	return f
}

func (f *fixture) say(id, text string) {
	f.lobby.HandleMessage(context.Background(), id, text)
}

func (f *fixture) phase() models.Phase {
	return f.lobby.Phase()
}

func (f *fixture) session() *Session {
	f.lobby.mu.Lock()
	defer f.lobby.mu.Unlock()
	return f.lobby.session
}

func (f *fixture) questioner() string {
	f.lobby.mu.Lock()
	defer f.lobby.mu.Unlock()
	return f.lobby.session.currentQuestioner().ID
}

// holder returns the ID of the first participant holding title
func (f *fixture) holder(title roles.Title) string {
	f.lobby.mu.Lock()
	defer f.lobby.mu.Unlock()
	for _, p := range f.lobby.session.roster {
		if p.Role != nil && p.Role.Title() == title {
			return p.ID
		}
	}
	return ""
}

// other returns a participant other than the given ones
func (f *fixture) other(ids ...string) string {
	for _, u := range f.lobby.Members() {
		skip := false
		for _, id := range ids {
			if u.ID == id {
				skip = true
			}
		}
		if !skip {
			return u.ID
		}
	}
	return ""
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	host := f.lobby.Members()[0].ID
	f.say(host, "$start")
	require.Equal(t, models.PhaseQuestioning, f.phase())
}

// cooldown lets the question cooldown elapse without firing phase timers
func (f *fixture) cooldown() {
	f.lobby.mu.Lock()
	d := f.lobby.session.settings.Seconds(game.SettingQuestionCooldown)
	f.lobby.mu.Unlock()
	f.clock.Skip(d)
}

func (f *fixture) setQuestioner(id string) {
	f.lobby.mu.Lock()
	defer f.lobby.mu.Unlock()
	for i, p := range f.lobby.session.roster {
		if p.ID == id {
			f.lobby.session.questioner = i
		}
	}
}
