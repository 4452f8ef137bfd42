// internal/handlers/persistence.go
package handlers

import (
	"net/http"
)

// SaveGame flattens a live game into the snapshot store.
func (a *API) SaveGame(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if a.Store == nil {
		http.Error(w, "persistence is not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		GameKey string `json:"gameKey"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}

	if err := a.Registry.SaveGame(r.Context(), a.Store, req.GameKey); err != nil {
		a.writeError(w, err)
		return
	}
	a.Logger.WithField("gameKey", req.GameKey).Info("game saved")
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// LoadGame restores a game from the snapshot store into the registry.
// Loading a key that is already live is a no-op.
func (a *API) LoadGame(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if a.Store == nil {
		http.Error(w, "persistence is not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		GameKey string `json:"gameKey"`
	}
	if !a.decodeBody(w, r, &req) {
		return
	}

	if err := a.Registry.LoadGameFrom(r.Context(), a.Store, req.GameKey); err != nil {
		a.writeError(w, err)
		return
	}
	a.Logger.WithField("gameKey", req.GameKey).Info("game loaded")
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}
