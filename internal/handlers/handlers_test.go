package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unolabs/uno-service/internal/auth"
	"github.com/unolabs/uno-service/internal/game"
)

func TestMain(m *testing.M) {
	auth.Init()
	os.Exit(m.Run())
}

// memStore is an in-memory snapshot store for handler tests.
type memStore struct {
	records map[string][]byte
}

func (s *memStore) Write(_ context.Context, key string, record []byte) error {
	s.records[key] = record
	return nil
}

func (s *memStore) Read(_ context.Context, key string) ([]byte, error) {
	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("no snapshot for %q", key)
	}
	return record, nil
}

func newTestServer(t *testing.T, store game.SnapshotStore) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := New(logger, game.NewRegistry(), store)
	srv := httptest.NewServer(api.Routes())
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns a client with its own cookie jar, standing in for one
// browser at the table.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// hostGame hosts a table and returns the key; the client's jar now carries
// the host session.
func hostGame(t *testing.T, c *http.Client, baseURL, name string, count int) string {
	t.Helper()
	resp := postJSON(t, c, baseURL+"/hostGame", map[string]interface{}{
		"playerName":  name,
		"playerCount": count,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		GameKey string `json:"gameKey"`
	}
	decode(t, resp, &out)
	require.Len(t, out.GameKey, 4)
	return out.GameKey
}

func TestLobbyFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	host := newClient(t)
	joiner := newClient(t)

	key := hostGame(t, host, srv.URL, "Alice", 2)

	// The join form validates the key first.
	resp := postJSON(t, joiner, srv.URL+"/validateGameKey", map[string]string{"gameKey": key})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var valid struct {
		DoesGameExist bool `json:"doesGameExist"`
	}
	decode(t, resp, &valid)
	assert.True(t, valid.DoesGameExist)

	resp = postJSON(t, joiner, srv.URL+"/validateGameKey", map[string]string{"gameKey": "0000x"})
	var invalid struct {
		DoesGameExist bool `json:"doesGameExist"`
	}
	decode(t, resp, &invalid)
	assert.False(t, invalid.DoesGameExist)

	resp = postJSON(t, joiner, srv.URL+"/joinGame", map[string]string{
		"playerName": "Bob",
		"gameKey":    key,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The waiting-room poll that sees a full table starts the game.
	resp = get(t, host, srv.URL+"/playersStatus")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lobby struct {
		Joined   int  `json:"joined"`
		Expected int  `json:"expected"`
		Started  bool `json:"started"`
	}
	decode(t, resp, &lobby)
	assert.Equal(t, 2, lobby.Joined)
	assert.Equal(t, 2, lobby.Expected)
	assert.True(t, lobby.Started)
}

func TestJoinUnknownGame(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newClient(t)

	resp := postJSON(t, c, srv.URL+"/joinGame", map[string]string{
		"playerName": "Bob",
		"gameKey":    "0000",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJoinFullGame(t *testing.T) {
	srv := newTestServer(t, nil)
	host := newClient(t)
	key := hostGame(t, host, srv.URL, "Alice", 2)

	resp := postJSON(t, newClient(t), srv.URL+"/joinGame", map[string]string{
		"playerName": "Bob", "gameKey": key,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, newClient(t), srv.URL+"/joinGame", map[string]string{
		"playerName": "Carol", "gameKey": key,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHostValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newClient(t)

	resp := postJSON(t, c, srv.URL+"/hostGame", map[string]interface{}{
		"playerName": "", "playerCount": 2,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, c, srv.URL+"/hostGame", map[string]interface{}{
		"playerName": "Alice", "playerCount": 1,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, c, srv.URL+"/hostGame", map[string]interface{}{
		"playerName": "Alice", "playerCount": 11,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, c, srv.URL+"/hostGame")
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPlayEndpointsRequireSession(t *testing.T) {
	srv := newTestServer(t, nil)
	c := newClient(t)

	for _, path := range []string{"/pile", "/playerCards", "/getPlayerNames", "/gameStatus"} {
		resp := get(t, c, srv.URL+path)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func startedGame(t *testing.T, srv *httptest.Server) (host, joiner *http.Client, key string) {
	t.Helper()
	host = newClient(t)
	joiner = newClient(t)
	key = hostGame(t, host, srv.URL, "Alice", 2)

	resp := postJSON(t, joiner, srv.URL+"/joinGame", map[string]string{
		"playerName": "Bob", "gameKey": key,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = get(t, host, srv.URL+"/playersStatus")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return host, joiner, key
}

func TestInGamePolling(t *testing.T) {
	srv := newTestServer(t, nil)
	host, joiner, _ := startedGame(t, srv)

	resp := get(t, host, srv.URL+"/pile")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var top struct {
		Color string `json:"color"`
		Rank  string `json:"rank"`
	}
	decode(t, resp, &top)
	assert.NotEmpty(t, top.Color, "the starter is never a wild")
	assert.NotEmpty(t, top.Rank)

	resp = get(t, joiner, srv.URL+"/playerCards")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hand struct {
		Cards         []json.RawMessage `json:"cards"`
		PlayableCards []json.RawMessage `json:"playableCards"`
	}
	decode(t, resp, &hand)
	assert.Len(t, hand.Cards, 7)

	resp = get(t, host, srv.URL+"/getPlayerNames")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names struct {
		PlayerDetails []struct {
			Name       string `json:"name"`
			IsCurrent  bool   `json:"isCurrent"`
			CardsCount int    `json:"cardsCount"`
		} `json:"playerDetails"`
		PlayerPosition int `json:"playerPosition"`
	}
	decode(t, resp, &names)
	require.Len(t, names.PlayerDetails, 2)
	assert.Equal(t, 0, names.PlayerPosition, "the host seats first")
	assert.True(t, names.PlayerDetails[0].IsCurrent, "play opens on the host")
	assert.Equal(t, 7, names.PlayerDetails[1].CardsCount)

	resp = get(t, host, srv.URL+"/gameStatus")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		GameLog       string `json:"gameLog"`
		RunningColor  string `json:"runningColor"`
		VictoryStatus struct {
			HasWon bool `json:"hasWon"`
		} `json:"victoryStatus"`
	}
	decode(t, resp, &status)
	assert.Equal(t, "the game has started", status.GameLog)
	assert.NotEmpty(t, status.RunningColor)
	assert.False(t, status.VictoryStatus.HasWon)
}

func TestDrawCardReturnsRefreshedHand(t *testing.T) {
	srv := newTestServer(t, nil)
	host, _, _ := startedGame(t, srv)

	// The host opens; a draw always yields one card here since no forced
	// draw can be pending on the first turn.
	resp := get(t, host, srv.URL+"/drawCard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hand struct {
		Cards []json.RawMessage `json:"cards"`
	}
	decode(t, resp, &hand)
	assert.Len(t, hand.Cards, 8)
}

func TestThrowCardRejectsMalformedID(t *testing.T) {
	srv := newTestServer(t, nil)
	host, _, _ := startedGame(t, srv)

	resp := postJSON(t, host, srv.URL+"/throwCard", map[string]interface{}{
		"cardId": "not-a-uuid", "calledUno": false,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOutOfTurnDrawIsRejected(t *testing.T) {
	srv := newTestServer(t, nil)
	_, joiner, _ := startedGame(t, srv)

	resp := get(t, joiner, srv.URL+"/drawCard")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatchIsAlwaysAccepted(t *testing.T) {
	srv := newTestServer(t, nil)
	host, _, _ := startedGame(t, srv)

	// Nobody is catchable yet; the engine treats this as a no-op.
	resp := get(t, host, srv.URL+"/catch")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPersistenceEndpoints(t *testing.T) {
	store := &memStore{records: make(map[string][]byte)}
	srv := newTestServer(t, store)
	host, _, key := startedGame(t, srv)

	resp := postJSON(t, host, srv.URL+"/games/save", map[string]string{"gameKey": key})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Contains(t, store.records, key)

	resp = postJSON(t, host, srv.URL+"/games/load", map[string]string{"gameKey": key})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, host, srv.URL+"/games/save", map[string]string{"gameKey": "0000x"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPersistenceDisabledWithoutStore(t *testing.T) {
	srv := newTestServer(t, nil)
	host, _, key := startedGame(t, srv)

	resp := postJSON(t, host, srv.URL+"/games/save", map[string]string{"gameKey": key})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
