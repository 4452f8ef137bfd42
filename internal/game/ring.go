package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/unolabs/uno-service/internal/models"
)

// Ring is the turn order: an ordered player sequence, a current-index
// pointer, a direction, and the id of the last player who threw a card
// (kept as an identifier, not a second owning pointer, so it survives
// snapshot restore by lookup). The ring is not safe for concurrent use on
// its own; the owning Game serializes access.
type Ring struct {
	players      []*models.Player
	current      int
	direction    int // +1 or -1
	lastPlayerID uuid.UUID
}

// NewRing creates a ring with the host as sole member.
func NewRing(host *models.Player) *Ring {
	return &Ring{
		players:   []*models.Player{host},
		direction: 1,
	}
}

// Join appends a player to the sequence. The Game only calls this while
// waiting; the ring is frozen once play starts.
func (r *Ring) Join(p *models.Player) {
	r.players = append(r.players, p)
}

// Size returns the number of seated players.
func (r *Ring) Size() int {
	return len(r.players)
}

// Current returns the player whose turn it is.
func (r *Ring) Current() *models.Player {
	return r.players[r.current]
}

// CurrentIndex returns the current-turn pointer.
func (r *Ring) CurrentIndex() int {
	return r.current
}

// Direction returns +1 or -1.
func (r *Ring) Direction() int {
	return r.direction
}

// Advance moves the turn pointer steps seats along the current direction,
// wrapping at both ends. Steps encodes skip effects: 1 normally, 2 for a
// skip.
func (r *Ring) Advance(steps int) {
	n := len(r.players)
	r.current = ((r.current+steps*r.direction)%n + n) % n
}

// Reverse flips the turn direction.
func (r *Ring) Reverse() {
	r.direction = -r.direction
}

// SetLastPlayer records the most recent thrower for UNO-catch adjudication.
func (r *Ring) SetLastPlayer(p *models.Player) {
	r.lastPlayerID = p.ID
}

// LastPlayerID returns the recorded thrower id, uuid.Nil if none yet.
func (r *Ring) LastPlayerID() uuid.UUID {
	return r.lastPlayerID
}

// LastPlayer resolves the recorded thrower against the sequence.
func (r *Ring) LastPlayer() (*models.Player, error) {
	if r.lastPlayerID == uuid.Nil {
		return nil, ErrPlayerNotFound
	}
	return r.Get(r.lastPlayerID)
}

// Get performs identity lookup into the sequence. Snapshot restore leans
// on the failure path: a recorded id that no longer resolves is corrupt.
func (r *Ring) Get(id uuid.UUID) (*models.Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("player %s: %w", id, ErrPlayerNotFound)
}

// Players returns the seating order. The slice is copied; the player
// pointers are shared, so callers must not mutate hands.
func (r *Ring) Players() []*models.Player {
	out := make([]*models.Player, len(r.players))
	copy(out, r.players)
	return out
}

// restore rewires the pointer state from a snapshot. Validation has
// already happened by the time this runs.
func (r *Ring) restore(current, direction int, lastPlayerID uuid.UUID) {
	r.current = current
	r.direction = direction
	r.lastPlayerID = lastPlayerID
}
