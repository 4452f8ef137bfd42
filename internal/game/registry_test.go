package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory SnapshotStore for registry tests.
type memStore struct {
	mu       sync.Mutex
	records  map[string][]byte
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string][]byte)}
}

func (s *memStore) Write(_ context.Context, key string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	cp := make([]byte, len(record))
	copy(cp, record)
	s.records[key] = cp
	return nil
}

func (s *memStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("no snapshot for %q", key)
	}
	return record, nil
}

func TestAddGameFirstWins(t *testing.T) {
	g1, _ := setupStartedGame(t, 2)
	g2, _ := setupStartedGame(t, 2)
	require.Equal(t, g1.Key(), g2.Key(), "the fixture reuses one key")

	reg := NewRegistry()
	assert.True(t, reg.AddGame(g1))
	assert.False(t, reg.AddGame(g2))

	got, ok := reg.GetGame(g1.Key())
	require.True(t, ok)
	assert.Same(t, g1, got)
}

func TestSaveGameUnknownKey(t *testing.T) {
	reg := NewRegistry()
	err := reg.SaveGame(context.Background(), newMemStore(), "0000")
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestSaveThenLoadFromStore(t *testing.T) {
	g, _ := rigMidGame(t)
	store := newMemStore()

	reg := NewRegistry()
	require.True(t, reg.AddGame(g))
	require.NoError(t, reg.SaveGame(context.Background(), store, g.Key()))

	other := NewRegistry()
	require.NoError(t, other.LoadGameFrom(context.Background(), store, g.Key()))

	restored, ok := other.GetGame(g.Key())
	require.True(t, ok)
	assert.Equal(t, g.Snapshot(), restored.Snapshot())
}

func TestLoadFromStoreMissingKey(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadGameFrom(context.Background(), newMemStore(), "9999")
	require.Error(t, err)
	assert.False(t, reg.DoesGameExist("9999"))
}

func TestExpireIdleArchivesQuietGames(t *testing.T) {
	idle, _ := setupStartedGame(t, 2)
	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	fresh, _ := setupStartedGame(t, 2)

	reg := NewRegistry()
	require.True(t, reg.AddGame(idle))
	// Both fixtures share a key; register the fresh game under its own.
	fresh.key = "7777"
	require.True(t, reg.AddGame(fresh))

	store := newMemStore()
	n := reg.ExpireIdle(context.Background(), store, time.Hour)
	assert.Equal(t, 1, n)

	assert.False(t, reg.DoesGameExist(idle.Key()), "idle game dropped from the registry")
	assert.True(t, reg.DoesGameExist(fresh.Key()), "active game untouched")

	_, err := store.Read(context.Background(), idle.Key())
	assert.NoError(t, err, "idle game archived before removal")
}

func TestExpireIdleKeepsGameOnSaveFailure(t *testing.T) {
	idle, _ := setupStartedGame(t, 2)
	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	reg := NewRegistry()
	require.True(t, reg.AddGame(idle))

	store := newMemStore()
	store.writeErr = errors.New("disk on fire")

	n := reg.ExpireIdle(context.Background(), store, time.Hour)
	assert.Zero(t, n)
	assert.True(t, reg.DoesGameExist(idle.Key()), "a game that cannot be archived stays live")
}
