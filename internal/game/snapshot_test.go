package game

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unolabs/uno-service/internal/models"
)

// rigMidGame puts a three player game in a distinctive mid-turn state:
// reversed direction, an unresolved forced draw, and a recorded last
// thrower.
func rigMidGame(t *testing.T) (*Game, []*models.Player) {
	t.Helper()
	g, players := setupStartedGame(t, 3)
	setTop(g, mustCard(t, models.ColorRed, "5"))

	rev := mustCard(t, models.ColorRed, models.RankReverse)
	players[0].AddCard(rev)
	require.NoError(t, g.ThrowCard(players[0].ID, rev.ID, false))

	d2 := mustCard(t, models.ColorRed, models.RankDrawTwo)
	players[2].AddCard(d2)
	require.NoError(t, g.ThrowCard(players[2].ID, d2.ID, false))

	require.Equal(t, -1, g.ring.Direction())
	require.True(t, g.pendingDrawActive)
	require.Equal(t, players[1].ID, g.ring.Current().ID)
	return g, players
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, _ := rigMidGame(t)

	snap := g.Snapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.LoadGame(g.Key(), data))

	restored, ok := reg.GetGame(g.Key())
	require.True(t, ok)

	// Re-flattening the restored game reproduces the record exactly, so
	// nothing was lost or invented in either direction.
	assert.Equal(t, snap, restored.Snapshot())
}

func TestRestoredGameResumesForcedDraw(t *testing.T) {
	g, players := rigMidGame(t)

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.LoadGame(g.Key(), data))
	restored, ok := reg.GetGame(g.Key())
	require.True(t, ok)

	// The debtor picked up mid-save still owes exactly two cards.
	cur := restored.ring.Current()
	require.Equal(t, players[1].ID, cur.ID)
	handBefore := len(cur.Hand)
	n, err := restored.DrawCard(cur.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, cur.Hand, handBefore+2)
	assert.False(t, restored.pendingDrawActive)
	assert.Equal(t, totalCards(g), totalCards(restored), "drawing moves cards, never creates them")
}

func TestRestoreReusesHostEntity(t *testing.T) {
	g, _ := rigMidGame(t)
	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.LoadGame(g.Key(), data))
	restored, _ := reg.GetGame(g.Key())

	seated := restored.ring.Players()
	byID, err := restored.ring.Get(seated[0].ID)
	require.NoError(t, err)
	assert.Same(t, seated[0], byID, "the host is one entity, seated and addressable")
}

func TestRestoredLogSurvives(t *testing.T) {
	g, _ := rigMidGame(t)
	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.LoadGame(g.Key(), data))
	restored, _ := reg.GetGame(g.Key())

	assert.Equal(t, g.Entries(), restored.Entries())
}

func TestLoadRejectsCorruptRecords(t *testing.T) {
	g, players := rigMidGame(t)
	base := g.Snapshot()

	corruptions := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"unknown version", func(s *Snapshot) { s.Version = SnapshotVersion + 1 }},
		{"current index out of range", func(s *Snapshot) { s.CurrentPlayerIndex = len(s.Players) }},
		{"negative current index", func(s *Snapshot) { s.CurrentPlayerIndex = -1 }},
		{"zero direction", func(s *Snapshot) { s.TurnDirection = 0 }},
		{"dangling last player", func(s *Snapshot) { s.LastPlayerID = uuid.New() }},
		{"pending active with zero count", func(s *Snapshot) {
			s.PendingDrawActive = true
			s.PendingDrawCount = 0
		}},
		{"malformed card", func(s *Snapshot) { s.Deck[0].Rank = "banana" }},
		{"duplicate card id", func(s *Snapshot) { s.Deck[0].ID = s.Deck[1].ID }},
		{"host not seated first", func(s *Snapshot) { s.Host.ID = uuid.New() }},
		{"unknown status", func(s *Snapshot) { s.Status = "paused" }},
		{"unknown running color", func(s *Snapshot) { s.RunningColor = "purple" }},
		{"joined count mismatch", func(s *Snapshot) { s.NumberOfPlayersJoined = 1 }},
		{"no players", func(s *Snapshot) { s.Players = nil }},
	}

	for _, tc := range corruptions {
		t.Run(tc.name, func(t *testing.T) {
			snap := *base
			snap.Deck = append([]CardRecord(nil), base.Deck...)
			snap.Players = append([]PlayerRecord(nil), base.Players...)
			tc.mutate(&snap)

			data, err := json.Marshal(&snap)
			require.NoError(t, err)

			reg := NewRegistry()
			err = reg.LoadGame(g.Key(), data)
			require.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.False(t, reg.DoesGameExist(g.Key()), "nothing registered on a failed load")
		})
	}
	_ = players
}

func TestLoadRejectsUnparseableRecord(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadGame("1234", []byte("{not json"))
	require.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestLoadIsNoOpWhenGameIsLive(t *testing.T) {
	g, _ := rigMidGame(t)
	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)

	reg := NewRegistry()
	require.True(t, reg.AddGame(g))
	require.NoError(t, reg.LoadGame(g.Key(), data))

	live, ok := reg.GetGame(g.Key())
	require.True(t, ok)
	assert.Same(t, g, live, "the live instance wins over the loaded copy")
}
