// internal/game/snapshot.go
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unolabs/uno-service/internal/models"
)

// SnapshotVersion is bumped whenever the record shape changes. Loads
// reject any other version wholesale instead of guessing at fields.
const SnapshotVersion = 1

// CardRecord is the flat form of a card.
type CardRecord struct {
	ID    uuid.UUID    `json:"id"`
	Color models.Color `json:"color"`
	Rank  string       `json:"rank"`
}

// PlayerRecord is the flat form of a player, hand included.
type PlayerRecord struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Hand      []CardRecord `json:"hand"`
	Catchable bool         `json:"catchable"`
}

// Snapshot is the complete flat record of a game: enough to reconstruct
// the live object graph exactly. Stacks are stored bottom-first. The
// engine defines only this logical shape; the storage collaborator owns
// the physical encoding and medium.
type Snapshot struct {
	Version int    `json:"version"`
	Key     string `json:"key"`

	Deck []CardRecord `json:"deck"`
	Pile []CardRecord `json:"pile"`

	Host               PlayerRecord   `json:"host"`
	Players            []PlayerRecord `json:"players"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	TurnDirection      int            `json:"turnDirection"`
	LastPlayerID       uuid.UUID      `json:"lastPlayerId"`

	Logs []string `json:"logs"`

	Status                Status       `json:"status"`
	RunningColor          models.Color `json:"runningColor"`
	PendingDrawCount      int          `json:"pendingDrawCount"`
	PendingDrawActive     bool         `json:"pendingDrawActive"`
	DrewThisTurn          bool         `json:"drewThisTurn"`
	PlayerCount           int          `json:"playerCount"`
	NumberOfPlayersJoined int          `json:"numberOfPlayersJoined"`
	HasWon                bool         `json:"hasWon"`
	WinnerName            string       `json:"winnerName"`
}

func cardRecord(c *models.Card) CardRecord {
	return CardRecord{ID: c.ID, Color: c.Color, Rank: c.Rank}
}

func cardRecords(cards []*models.Card) []CardRecord {
	out := make([]CardRecord, len(cards))
	for i, c := range cards {
		out[i] = cardRecord(c)
	}
	return out
}

func playerRecord(p *models.Player) PlayerRecord {
	return PlayerRecord{
		ID:        p.ID,
		Name:      p.Name,
		Hand:      cardRecords(p.Hand),
		Catchable: p.Catchable,
	}
}

// Snapshot produces the flat record of the current state. The copy is made
// under the game lock so it is self-consistent; serialization and storage
// happen after release.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := g.ring.Players()
	records := make([]PlayerRecord, len(players))
	for i, p := range players {
		records[i] = playerRecord(p)
	}

	return &Snapshot{
		Version:               SnapshotVersion,
		Key:                   g.key,
		Deck:                  cardRecords(g.deck.Cards()),
		Pile:                  cardRecords(g.pile.Cards()),
		Host:                  records[0],
		Players:               records,
		CurrentPlayerIndex:    g.ring.CurrentIndex(),
		TurnDirection:         g.ring.Direction(),
		LastPlayerID:          g.ring.LastPlayerID(),
		Logs:                  g.alog.Entries(),
		Status:                g.status,
		RunningColor:          g.runningColor,
		PendingDrawCount:      g.pendingDrawCount,
		PendingDrawActive:     g.pendingDrawActive,
		DrewThisTurn:          g.drewThisTurn,
		PlayerCount:           g.playerCount,
		NumberOfPlayersJoined: g.joined,
		HasWon:                g.hasWon,
		WinnerName:            g.winnerName,
	}
}

// Restore reconstructs a live game from a flat record. The record is
// validated wholesale first; any structural inconsistency aborts the load
// with ErrCorruptSnapshot and no partial game escapes.
func Restore(key string, snap *Snapshot) (*Game, error) {
	if err := validateSnapshot(key, snap); err != nil {
		return nil, err
	}

	// Rebuild the host once and reuse it at position zero, so the entity
	// players act through is the same one the ring owns.
	host := restorePlayer(snap.Host)
	players := make([]*models.Player, len(snap.Players))
	players[0] = host
	for i := 1; i < len(snap.Players); i++ {
		players[i] = restorePlayer(snap.Players[i])
	}

	ring := NewRing(host)
	for _, p := range players[1:] {
		ring.Join(p)
	}
	ring.restore(snap.CurrentPlayerIndex, snap.TurnDirection, uuid.Nil)
	if snap.LastPlayerID != uuid.Nil {
		last, err := ring.Get(snap.LastPlayerID)
		if err != nil {
			return nil, fmt.Errorf("dangling lastPlayer %s: %w", snap.LastPlayerID, ErrCorruptSnapshot)
		}
		ring.SetLastPlayer(last)
	}

	g := &Game{
		key:               key,
		playerCount:       snap.PlayerCount,
		joined:            snap.NumberOfPlayersJoined,
		deck:              NewDeckFromCards(restoreCards(snap.Deck)),
		pile:              NewPileFromCards(restoreCards(snap.Pile)),
		ring:              ring,
		alog:              NewActivityLog(snap.Logs),
		status:            snap.Status,
		runningColor:      snap.RunningColor,
		pendingDrawCount:  snap.PendingDrawCount,
		pendingDrawActive: snap.PendingDrawActive,
		drewThisTurn:      snap.DrewThisTurn,
		hasWon:            snap.HasWon,
		winnerName:        snap.WinnerName,
		activityIndex:     len(snap.Logs),
		lastActivity:      time.Now(),
	}
	return g, nil
}

func restorePlayer(rec PlayerRecord) *models.Player {
	return &models.Player{
		ID:        rec.ID,
		Name:      rec.Name,
		Hand:      restoreCards(rec.Hand),
		Catchable: rec.Catchable,
	}
}

func restoreCards(recs []CardRecord) []*models.Card {
	cards := make([]*models.Card, len(recs))
	for i, rec := range recs {
		cards[i] = &models.Card{ID: rec.ID, Color: rec.Color, Rank: rec.Rank}
	}
	return cards
}

func validateSnapshot(key string, snap *Snapshot) error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf(format+": %w", append(args, ErrCorruptSnapshot)...)
	}

	if snap == nil {
		return fail("nil record")
	}
	if snap.Version != SnapshotVersion {
		return fail("unsupported snapshot version %d", snap.Version)
	}
	if snap.Key != "" && snap.Key != key {
		return fail("record key %q does not match %q", snap.Key, key)
	}
	if len(snap.Players) == 0 {
		return fail("no players")
	}
	if snap.Host.ID == uuid.Nil || snap.Host.ID != snap.Players[0].ID {
		return fail("missing or mismatched host")
	}
	if snap.PlayerCount < len(snap.Players) || snap.PlayerCount < 1 {
		return fail("player count %d inconsistent with %d seated", snap.PlayerCount, len(snap.Players))
	}
	if snap.NumberOfPlayersJoined != len(snap.Players) {
		return fail("joined count %d does not match %d players", snap.NumberOfPlayersJoined, len(snap.Players))
	}
	if snap.CurrentPlayerIndex < 0 || snap.CurrentPlayerIndex >= len(snap.Players) {
		return fail("current player index %d out of range", snap.CurrentPlayerIndex)
	}
	if snap.TurnDirection != 1 && snap.TurnDirection != -1 {
		return fail("turn direction %d", snap.TurnDirection)
	}
	switch snap.Status {
	case StatusWaiting, StatusInProgress, StatusFinished:
	default:
		return fail("unknown status %q", snap.Status)
	}
	if snap.PendingDrawCount < 0 {
		return fail("negative pending draw count")
	}
	if snap.PendingDrawActive && snap.PendingDrawCount == 0 {
		return fail("pending draw active with zero count")
	}
	if snap.RunningColor != models.ColorNone && !models.ValidColor(snap.RunningColor) {
		return fail("unknown running color %q", snap.RunningColor)
	}

	seen := make(map[uuid.UUID]bool)
	checkCards := func(where string, recs []CardRecord) error {
		for _, rec := range recs {
			if rec.ID == uuid.Nil {
				return fail("%s: card without id", where)
			}
			if seen[rec.ID] {
				return fail("%s: duplicate card %s", where, rec.ID)
			}
			seen[rec.ID] = true
			if !models.ValidCard(rec.Color, rec.Rank) {
				return fail("%s: malformed card color=%q rank=%q", where, rec.Color, rec.Rank)
			}
		}
		return nil
	}
	if err := checkCards("deck", snap.Deck); err != nil {
		return err
	}
	if err := checkCards("pile", snap.Pile); err != nil {
		return err
	}
	seenPlayers := make(map[uuid.UUID]bool)
	for _, p := range snap.Players {
		if p.ID == uuid.Nil {
			return fail("player without id")
		}
		if seenPlayers[p.ID] {
			return fail("duplicate player %s", p.ID)
		}
		seenPlayers[p.ID] = true
		if err := checkCards(fmt.Sprintf("hand of %s", p.ID), p.Hand); err != nil {
			return err
		}
	}
	if snap.LastPlayerID != uuid.Nil && !seenPlayers[snap.LastPlayerID] {
		return fail("dangling lastPlayer %s", snap.LastPlayerID)
	}
	return nil
}
