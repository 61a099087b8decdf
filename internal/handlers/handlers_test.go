package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/witness/internal/game"
	"github.com/aaronzipp/witness/internal/models"
	"github.com/aaronzipp/witness/internal/oracle"
	"github.com/aaronzipp/witness/internal/policy"
	"github.com/aaronzipp/witness/internal/session"
	"github.com/aaronzipp/witness/internal/sse"
	"github.com/aaronzipp/witness/internal/store"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	engine, err := policy.NewEngine(context.Background(), "")
	require.NoError(t, err)
	words, err := game.ParseWordList(strings.NewReader("hot dog\n"))
	require.NoError(t, err)

	hub := sse.NewHub()
	ctx := &Context{
		LobbyStore: store.NewLobbyStore(),
		Hub:        hub,
		PublicURL:  "http://witness.test/",
		Deps: session.Deps{
			Messenger: hub,
			Completer: oracle.NewMockCompleter(),
			Words:     words,
			Policy:    engine,
		},
	}
	t.Cleanup(ctx.Shutdown)
	return ctx
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func playerCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == playerCookie {
			return c
		}
	}
	t.Fatal("no player cookie set")
	return nil
}

// createLobby opens a lobby hosted by name and returns its code and the host's cookie
func createLobby(t *testing.T, ctx *Context, name string) (string, *http.Cookie) {
	t.Helper()
	rec := postForm(t, ctx.Routes(), "/create", url.Values{"name": {name}}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp lobbyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Code, game.RoomCodeLength)
	assert.NotEmpty(t, resp.Registration)
	return resp.Code, playerCookieOf(t, rec)
}

func joinLobby(t *testing.T, ctx *Context, code, name string) *http.Cookie {
	t.Helper()
	rec := postForm(t, ctx.Routes(), "/join", url.Values{"code": {strings.ToLower(code)}, "name": {name}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return playerCookieOf(t, rec)
}

func TestCreateLobby(t *testing.T) {
	ctx := newTestContext(t)
	code, host := createLobby(t, ctx, "alice")

	lobby, ok := ctx.LobbyStore.Get(code)
	require.True(t, ok)
	assert.True(t, lobby.IsHost(host.Value))
	assert.Equal(t, models.PhaseCreation, lobby.Phase())

	backlog := ctx.Hub.AddClient(host.Value, make(chan models.ChatMessage, 1))
	require.NotEmpty(t, backlog)
	assert.Contains(t, backlog[0].Data, "Welcome to **Witness")
}

func TestCreateLobbyValidation(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()

	rec := postForm(t, mux, "/create", url.Values{"name": {"  "}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/create", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	ctx.MaxLobbies = 1
	createLobby(t, ctx, "alice")
	rec = postForm(t, mux, "/create", url.Values{"name": {"bob"}}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJoinLobby(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()
	code, _ := createLobby(t, ctx, "alice")

	joinLobby(t, ctx, code, "bob")

	rec := postForm(t, mux, "/join", url.Values{"code": {code}, "name": {"BOB"}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postForm(t, mux, "/join", url.Values{"code": {"ZZZZZZ"}, "name": {"carol"}}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lobby/"+code, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp lobbyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"alice", "bob"}, resp.Players)
	assert.Equal(t, models.PhaseCreation, resp.Phase)
}

func TestJoinStartedGame(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()
	code, host := createLobby(t, ctx, "alice")
	joinLobby(t, ctx, code, "bob")

	rec := postForm(t, mux, "/message/"+code, url.Values{"text": {"$start"}}, host)
	require.Equal(t, http.StatusNoContent, rec.Code)

	lobby, _ := ctx.LobbyStore.Get(code)
	require.Equal(t, models.PhaseQuestioning, lobby.Phase())

	rec = postForm(t, mux, "/join", url.Values{"code": {code}, "name": {"carol"}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMessageRequiresMembership(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()
	code, _ := createLobby(t, ctx, "alice")

	rec := postForm(t, mux, "/message/"+code, url.Values{"text": {"hello"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stranger := &http.Cookie{Name: playerCookie, Value: "stranger"}
	rec = postForm(t, mux, "/message/"+code, url.Values{"text": {"hello"}}, stranger)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLastLeaverRemovesLobby(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()
	code, host := createLobby(t, ctx, "alice")
	bob := joinLobby(t, ctx, code, "bob")

	rec := postForm(t, mux, "/message/"+code, url.Values{"text": {"$leavegame"}}, host)
	require.Equal(t, http.StatusNoContent, rec.Code)
	lobby, ok := ctx.LobbyStore.Get(code)
	require.True(t, ok)
	assert.True(t, lobby.IsHost(bob.Value))

	rec = postForm(t, mux, "/message/"+code, url.Values{"text": {"$leavegame"}}, bob)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, ctx.LobbyStore.Exists(code))
}

func TestCloseLobby(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()
	code, host := createLobby(t, ctx, "alice")
	bob := joinLobby(t, ctx, code, "bob")

	rec := postForm(t, mux, "/close-lobby/"+code, nil, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postForm(t, mux, "/close-lobby/"+code, nil, host)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, ctx.LobbyStore.Exists(code))
}

func TestMessageOutlivesCanceledRequest(t *testing.T) {
	ctx := newTestContext(t)
	code, host := createLobby(t, ctx, "alice")

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/message/"+code, strings.NewReader(url.Values{"text": {"$showsettings"}}.Encode())).WithContext(reqCtx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(host)
	rec := httptest.NewRecorder()
	ctx.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	backlog := ctx.Hub.AddClient(host.Value, make(chan models.ChatMessage, 1))
	shown := false
	for _, msg := range backlog {
		shown = shown || strings.Contains(msg.Data, game.SettingVillainCount)
	}
	assert.True(t, shown, "settings were delivered although the request was canceled")
}

func TestClosedLobbyRejectsWebSocketMessages(t *testing.T) {
	ctx := newTestContext(t)
	code, host := createLobby(t, ctx, "alice")
	joinLobby(t, ctx, code, "bob")
	lobby, _ := ctx.LobbyStore.Get(code)

	srv := httptest.NewServer(ctx.Routes())
	defer srv.Close()

	header := http.Header{}
	header.Add("Cookie", playerCookie+"="+host.Value)
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/"+code, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	rec := postForm(t, ctx.Routes(), "/close-lobby/"+code, nil, host)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, lobby.Closed())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("$start")))

	// the server hangs up instead of starting a game in the deleted lobby
	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
	}
	assert.Equal(t, models.PhaseCreation, lobby.Phase())
}

func TestClosedLobbyRejectsPostedMessages(t *testing.T) {
	ctx := newTestContext(t)
	code, host := createLobby(t, ctx, "alice")
	joinLobby(t, ctx, code, "bob")
	lobby, _ := ctx.LobbyStore.Get(code)

	lobby.Close()
	rec := postForm(t, ctx.Routes(), "/message/"+code, url.Values{"text": {"$start"}}, host)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, models.PhaseCreation, lobby.Phase())

	rec = postForm(t, ctx.Routes(), "/join", url.Values{"code": {code}, "name": {"carol"}}, nil)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestSSEReplaysBacklog(t *testing.T) {
	ctx := newTestContext(t)
	code, host := createLobby(t, ctx, "alice")

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/sse/"+code, nil).WithContext(reqCtx)
	req.AddCookie(host)
	rec := httptest.NewRecorder()
	ctx.Routes().ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: message\n")
	assert.Contains(t, body, "data: Welcome to **Witness")
	assert.Contains(t, body, "data: This channel is private.")
	assert.Equal(t, 0, ctx.Hub.ClientCount())
}

func TestSSERejectsStranger(t *testing.T) {
	ctx := newTestContext(t)
	code, _ := createLobby(t, ctx, "alice")

	rec := httptest.NewRecorder()
	ctx.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sse/"+code, nil))
	assert.Contains(t, rec.Body.String(), "event: "+sse.EventErrorMessage)
}

func TestWebSocketChat(t *testing.T) {
	ctx := newTestContext(t)
	code, host := createLobby(t, ctx, "alice")

	srv := httptest.NewServer(ctx.Routes())
	defer srv.Close()

	header := http.Header{}
	header.Add("Cookie", playerCookie+"="+host.Value)
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/"+code, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	readUntil := func(substr string) {
		t.Helper()
		for {
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, data, err := conn.ReadMessage()
			require.NoError(t, err)
			if strings.Contains(string(data), substr) {
				return
			}
		}
	}

	readUntil("Welcome to **Witness")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("$showsettings")))
	readUntil(game.SettingVillainCount)
}

func TestQR(t *testing.T) {
	ctx := newTestContext(t)
	code, _ := createLobby(t, ctx, "alice")
	mux := ctx.Routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qr/"+code, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
	assert.Equal(t, "http://witness.test/?code="+code, ctx.joinURL(code))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qr/ZZZZZZ", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory(t *testing.T) {
	ctx := newTestContext(t)
	mux := ctx.Routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/ABCDEF", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	archive, err := store.OpenArchive(":memory:")
	require.NoError(t, err)
	defer archive.Close()
	ctx.History = archive

	require.NoError(t, archive.RecordGame(context.Background(), models.GameRecord{
		ID:        "g1",
		LobbyCode: "ABCDEF",
		Keyword:   "hot dog",
		Winner:    models.WinnerCivilians,
		EndedAt:   time.UnixMilli(1_700_000_000_000),
		Players:   []models.PlayerRecord{{ID: "a", Name: "alice", Role: "Detective", Won: true}},
	}))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/abcdef?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var games []models.GameRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&games))
	require.Len(t, games, 1)
	assert.Equal(t, "hot dog", games[0].Keyword)
	assert.Equal(t, "alice", games[0].Players[0].Name)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/ABCDEF?limit=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndex(t *testing.T) {
	ctx := newTestContext(t)
	createLobby(t, ctx, "alice")

	rec := httptest.NewRecorder()
	ctx.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"lobbies":1,"clients":0}`, rec.Body.String())
}
