// internal/handlers/game.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/unolabs/uno-service/internal/models"
)

// Pile returns the top of the discard pile.
func (a *API) Pile(w http.ResponseWriter, r *http.Request) {
	g, _, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	top := g.TopDiscard()
	if top == nil {
		http.Error(w, "game has not started", http.StatusBadRequest)
		return
	}
	a.writeJSON(w, http.StatusOK, top)
}

// PlayerCards returns the caller's hand plus its playable subset.
func (a *API) PlayerCards(w http.ResponseWriter, r *http.Request) {
	g, playerID, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	view, err := g.PlayerCards(playerID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, view)
}

// PlayerNames returns every seat's public detail plus the caller's position.
func (a *API) PlayerNames(w http.ResponseWriter, r *http.Request) {
	g, playerID, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	view, err := g.PlayersView(playerID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, view)
}

// GameStatus is the periodic in-game poll.
func (a *API) GameStatus(w http.ResponseWriter, r *http.Request) {
	g, _, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, g.Status())
}

// ThrowCard plays a card from the caller's hand.
func (a *API) ThrowCard(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	g, playerID, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	var req struct {
		CardID    string `json:"cardId"`
		CalledUno bool   `json:"calledUno"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		http.Error(w, "malformed cardId", http.StatusBadRequest)
		return
	}

	if err := g.ThrowCard(playerID, cardID, req.CalledUno); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DrawCard draws for the caller and returns the refreshed hand, so the
// client can immediately tell whether anything became playable.
func (a *API) DrawCard(w http.ResponseWriter, r *http.Request) {
	g, playerID, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	if _, err := g.DrawCard(playerID); err != nil {
		a.writeError(w, err)
		return
	}

	view, err := g.PlayerCards(playerID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, view)
}

// PassTurn forfeits the rest of the caller's turn after a draw.
func (a *API) PassTurn(w http.ResponseWriter, r *http.Request) {
	g, playerID, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	if err := g.PassTurn(playerID); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Catch accuses the last thrower of skipping their UNO call. The engine
// treats a stale accusation as a no-op, so this always answers 200.
func (a *API) Catch(w http.ResponseWriter, r *http.Request) {
	g, playerID, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	if err := g.CatchPlayer(playerID); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UpdateRunningColor completes a wild throw with the declared color.
func (a *API) UpdateRunningColor(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	g, _, ok := a.gameFromSession(w, r)
	if !ok {
		return
	}

	var req struct {
		DeclaredColor string `json:"declaredColor"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}

	if err := g.DeclareRunningColor(models.Color(req.DeclaredColor)); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
