// internal/handlers/api.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/unolabs/uno-service/internal/auth"
	"github.com/unolabs/uno-service/internal/game"
)

// sessionCookie carries the signed (gameKey, playerID) binding.
const sessionCookie = "uno_session"

// API is the polling request layer: it resolves a session to a game,
// invokes exactly one engine operation, and serializes the resulting view.
// The registry is injected, never global; the snapshot store may be nil
// when persistence is disabled.
type API struct {
	Logger   *log.Logger
	Registry *game.Registry
	Store    game.SnapshotStore

	rng *rand.Rand
}

// New constructs the API around an explicit registry and store.
func New(logger *log.Logger, registry *game.Registry, store game.SnapshotStore) *API {
	return &API{
		Logger:   logger,
		Registry: registry,
		Store:    store,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Routes registers every endpoint on a fresh mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// lobby
	mux.HandleFunc("/hostGame", a.HostGame)
	mux.HandleFunc("/joinGame", a.JoinGame)
	mux.HandleFunc("/validateGameKey", a.ValidateGameKey)
	mux.HandleFunc("/playersStatus", a.PlayersStatus)

	// play (polling)
	mux.HandleFunc("/pile", a.Pile)
	mux.HandleFunc("/playerCards", a.PlayerCards)
	mux.HandleFunc("/getPlayerNames", a.PlayerNames)
	mux.HandleFunc("/gameStatus", a.GameStatus)
	mux.HandleFunc("/throwCard", a.ThrowCard)
	mux.HandleFunc("/drawCard", a.DrawCard)
	mux.HandleFunc("/passTurn", a.PassTurn)
	mux.HandleFunc("/catch", a.Catch)
	mux.HandleFunc("/updateRunningColor", a.UpdateRunningColor)

	// persistence
	mux.HandleFunc("/games/save", a.SaveGame)
	mux.HandleFunc("/games/load", a.LoadGame)

	return mux
}

// newGameKey draws unused 4-digit keys until one is free.
func (a *API) newGameKey() string {
	for {
		key := fmt.Sprintf("%04d", a.rng.Intn(10000))
		if !a.Registry.DoesGameExist(key) {
			return key
		}
	}
}

func (a *API) setSession(w http.ResponseWriter, gameKey string, playerID uuid.UUID) error {
	token, err := auth.CreateSession(gameKey, playerID.String())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

// session resolves the request cookie to its (gameKey, playerID) binding.
func (a *API) session(r *http.Request) (string, uuid.UUID, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("missing session cookie")
	}
	gameKey, playerIDStr, err := auth.AuthenticateSession(c.Value)
	if err != nil {
		return "", uuid.Nil, err
	}
	playerID, err := uuid.Parse(playerIDStr)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("malformed player id in session: %w", err)
	}
	return gameKey, playerID, nil
}

// gameFromSession resolves the session cookie all the way to a live game.
func (a *API) gameFromSession(w http.ResponseWriter, r *http.Request) (*game.Game, uuid.UUID, bool) {
	gameKey, playerID, err := a.session(r)
	if err != nil {
		http.Error(w, "invalid session", http.StatusForbidden)
		return nil, uuid.Nil, false
	}
	g, exists := a.Registry.GetGame(gameKey)
	if !exists {
		a.writeError(w, fmt.Errorf("%q: %w", gameKey, game.ErrGameNotFound))
		return nil, uuid.Nil, false
	}
	return g, playerID, true
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps typed engine failures onto HTTP statuses. Rule
// violations are client errors; only the unexpected becomes a 500.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrInvalidMove),
		errors.Is(err, game.ErrUnresolvedForcedDraw),
		errors.Is(err, game.ErrGameNotStarted):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameFull):
		status = http.StatusConflict
	case errors.Is(err, game.ErrCorruptSnapshot):
		status = http.StatusUnprocessableEntity
	default:
		a.Logger.WithError(err).Error("internal error")
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
