// internal/handlers/lobby.go
package handlers

import (
	"net/http"

	"github.com/unolabs/uno-service/internal/game"
	"github.com/unolabs/uno-service/internal/models"
)

// HostGame creates a fresh game with the caller as host and binds their
// session to it.
func (a *API) HostGame(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req struct {
		PlayerName  string `json:"playerName"`
		PlayerCount int    `json:"playerCount"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}
	if req.PlayerName == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}
	if req.PlayerCount < 2 || req.PlayerCount > 10 {
		http.Error(w, "playerCount must be between 2 and 10", http.StatusBadRequest)
		return
	}

	host, err := models.NewPlayer(req.PlayerName)
	if err != nil {
		a.writeError(w, err)
		return
	}

	key := a.newGameKey()
	g := game.NewGame(key, req.PlayerCount, host)
	a.Registry.AddGame(g)

	if err := a.setSession(w, key, host.ID); err != nil {
		a.writeError(w, err)
		return
	}

	a.Logger.WithField("gameKey", key).Info("game hosted")
	a.writeJSON(w, http.StatusOK, map[string]string{"gameKey": key})
}

// JoinGame seats a player in an existing waiting game.
func (a *API) JoinGame(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req struct {
		PlayerName string `json:"playerName"`
		GameKey    string `json:"gameKey"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}
	if req.PlayerName == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}

	g, exists := a.Registry.GetGame(req.GameKey)
	if !exists {
		a.writeError(w, game.ErrGameNotFound)
		return
	}

	p, err := models.NewPlayer(req.PlayerName)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := g.AddPlayer(p); err != nil {
		a.writeError(w, err)
		return
	}

	if err := a.setSession(w, req.GameKey, p.ID); err != nil {
		a.writeError(w, err)
		return
	}

	a.Logger.WithField("gameKey", req.GameKey).Info("player joined")
	a.writeJSON(w, http.StatusOK, map[string]string{"gameKey": req.GameKey})
}

// ValidateGameKey lets the join form check a key before committing.
func (a *API) ValidateGameKey(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req struct {
		GameKey string `json:"gameKey"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]bool{
		"doesGameExist": a.Registry.DoesGameExist(req.GameKey),
	})
}

// PlayersStatus is the waiting-room poll. The poll that observes a full
// table starts the game; Start rejects repeats, so concurrent polls race
// harmlessly.
func (a *API) PlayersStatus(w http.ResponseWriter, r *http.Request) {
	g, _, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	if g.IsFull() && !g.HasStarted() {
		if err := g.Start(); err != nil {
			a.Logger.WithError(err).Debug("start race lost")
		}
	}

	a.writeJSON(w, http.StatusOK, g.LobbyStatus())
}
