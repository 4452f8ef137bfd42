// internal/game/registry.go
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// SnapshotStore is the storage collaborator the registry persists through.
// The engine has no opinion on the medium; implementations range from
// Postgres to an in-memory map in tests.
type SnapshotStore interface {
	Write(ctx context.Context, key string, record []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
}

// Registry maps game keys to live games. It is an explicit instance handed
// to every consumer rather than process-global state, with its own lock;
// per-game serialization stays inside each Game.
type Registry struct {
	mu    sync.Mutex
	games map[string]*Game
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*Game),
	}
}

// AddGame registers a game under its key. Registration is idempotent and
// first-wins: a second game under the same key is silently dropped, which
// is what makes concurrent loads of the same snapshot safe. Returns
// whether this call registered the game.
func (r *Registry) AddGame(g *Game) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.games[g.Key()]; exists {
		return false
	}
	r.games[g.Key()] = g
	return true
}

// GetGame retrieves a game if it exists.
func (r *Registry) GetGame(key string) (*Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, exists := r.games[key]
	return g, exists
}

// DoesGameExist reports whether a key is registered.
func (r *Registry) DoesGameExist(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.games[key]
	return exists
}

// SaveGame flattens the game and hands the record to the storage
// collaborator. The snapshot copy happens under the game's lock; the
// write happens after release, so persistence never blocks play.
func (r *Registry) SaveGame(ctx context.Context, store SnapshotStore, key string) error {
	g, exists := r.GetGame(key)
	if !exists {
		return fmt.Errorf("save %q: %w", key, ErrGameNotFound)
	}

	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot for %q: %w", key, err)
	}
	if err := store.Write(ctx, key, data); err != nil {
		return fmt.Errorf("write snapshot for %q: %w", key, err)
	}
	return nil
}

// LoadGame reconstructs a game from a stored record and registers it.
// Loading a key that is already live is a no-op, protecting against
// duplicate in-memory instances from concurrent or repeated loads. A
// malformed record aborts with ErrCorruptSnapshot before anything is
// registered.
func (r *Registry) LoadGame(key string, record []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(record, &snap); err != nil {
		return fmt.Errorf("decode record for %q: %v: %w", key, err, ErrCorruptSnapshot)
	}

	g, err := Restore(key, &snap)
	if err != nil {
		return err
	}

	r.AddGame(g)
	return nil
}

// LoadGameFrom reads the record for key from the store and loads it.
func (r *Registry) LoadGameFrom(ctx context.Context, store SnapshotStore, key string) error {
	record, err := store.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("read snapshot for %q: %w", key, err)
	}
	return r.LoadGame(key, record)
}

// ExpireIdle archives and drops games with no activity since maxIdle ago.
// Each game is saved through the store before removal; a failed save keeps
// the game live so nothing is lost. Returns how many games were expired.
func (r *Registry) ExpireIdle(ctx context.Context, store SnapshotStore, maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	keys := make([]string, 0, len(r.games))
	for key := range r.games {
		keys = append(keys, key)
	}
	r.mu.Unlock()

	expired := 0
	for _, key := range keys {
		g, exists := r.GetGame(key)
		if !exists || !g.IdleSince(cutoff) {
			continue
		}
		if err := r.SaveGame(ctx, store, key); err != nil {
			log.Printf("expire: keeping idle game %s, save failed: %v", key, err)
			continue
		}
		r.mu.Lock()
		delete(r.games, key)
		r.mu.Unlock()
		expired++
		log.Printf("expire: archived idle game %s", key)
	}
	return expired
}
