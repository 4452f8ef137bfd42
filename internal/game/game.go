// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unolabs/uno-service/internal/cache"
	"github.com/unolabs/uno-service/internal/models"
)

// Status is the game lifecycle state. Transitions are monotonic:
// waiting -> inProgress -> finished, no regressions.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "inProgress"
	StatusFinished   Status = "finished"
)

// handSize is the number of cards dealt to each player at start.
const handSize = 7

// catchPenalty is the number of cards drawn by a player caught without
// calling UNO.
const catchPenalty = 2

// Game holds the entire state for a single table in memory. Every mutating
// operation takes the mutex for its full duration, so concurrent requests
// against the same game serialize; read views also lock briefly and return
// copies, never live references. The lock is never held across external
// I/O: activity records are published to Redis from a goroutine.
type Game struct {
	mu sync.Mutex

	key         string
	playerCount int // configured seats
	joined      int // numberOfPlayersJoined

	deck *Deck
	pile *Pile
	ring *Ring
	alog *ActivityLog

	status       Status
	runningColor models.Color // effective color; empty while a wild awaits declaration

	pendingDrawCount  int
	pendingDrawActive bool

	drewThisTurn bool

	hasWon     bool
	winnerName string

	activityIndex int
	lastActivity  time.Time
}

// NewGame creates a waiting game with the host seated alone. The deck is
// built and shuffled up front; dealing happens at Start.
func NewGame(key string, playerCount int, host *models.Player) *Game {
	g := &Game{
		key:          key,
		playerCount:  playerCount,
		joined:       1,
		deck:         NewDeck(),
		pile:         NewPile(),
		ring:         NewRing(host),
		alog:         NewActivityLog(nil),
		status:       StatusWaiting,
		lastActivity: time.Now(),
	}
	g.logActivity(host.ID, fmt.Sprintf("%s hosted the game", host.Name))
	return g
}

// Key returns the game key.
func (g *Game) Key() string {
	return g.key
}

// AddPlayer seats a player while the game is waiting.
func (g *Game) AddPlayer(p *models.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusWaiting {
		return fmt.Errorf("cannot join after start: %w", ErrInvalidMove)
	}
	if g.joined >= g.playerCount {
		return ErrGameFull
	}
	g.ring.Join(p)
	g.joined++
	g.logActivity(p.ID, fmt.Sprintf("%s joined the game", p.Name))
	return nil
}

// Start deals seven cards to every seat, flips a non-wild starter onto the
// pile, and moves the game to inProgress. It fires once the configured
// player count has joined; calling it early or twice is rejected.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusWaiting {
		return fmt.Errorf("game already started: %w", ErrInvalidMove)
	}
	if g.joined < g.playerCount {
		return fmt.Errorf("waiting for players: %w", ErrGameNotStarted)
	}

	for _, p := range g.ring.Players() {
		for i := 0; i < handSize; i++ {
			card, err := g.deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing: %w", err)
			}
			p.AddCard(card)
		}
	}

	// Flip the starter. Wilds go back under the deck; play opens on the
	// first colored card.
	for {
		card, err := g.deck.Draw()
		if err != nil {
			return fmt.Errorf("flipping starter: %w", err)
		}
		if card.IsWild() {
			g.deck.PushBottom(card)
			continue
		}
		g.pile.Throw(card)
		g.runningColor = card.Color
		break
	}

	g.status = StatusInProgress
	g.logActivity(uuid.Nil, "the game has started")
	log.Printf("game %s started with %d players", g.key, g.ring.Size())
	return nil
}

// awaitingColor reports whether a wild throw is still waiting for its
// running color. While true, no operation other than DeclareRunningColor
// may change the turn.
func (g *Game) awaitingColor() bool {
	top := g.pile.Top()
	return top != nil && top.IsWild() && g.runningColor == models.ColorNone
}

// ThrowCard plays a card from the player's hand onto the pile, applying
// the card's effect and advancing the turn. calledUno records whether the
// player announced UNO going down to one card; without it they stay
// catchable until their next draw.
func (g *Game) ThrowCard(playerID, cardID uuid.UUID, calledUno bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusInProgress {
		return fmt.Errorf("throw: %w", ErrGameNotStarted)
	}
	if g.awaitingColor() {
		return fmt.Errorf("running color not declared: %w", ErrInvalidMove)
	}
	p := g.ring.Current()
	if p.ID != playerID {
		return fmt.Errorf("not your turn: %w", ErrInvalidMove)
	}
	if g.pendingDrawActive {
		return ErrUnresolvedForcedDraw
	}
	card := p.FindCard(cardID)
	if card == nil {
		return fmt.Errorf("card not in hand: %w", ErrInvalidMove)
	}
	if !card.Playable(g.pile.Top(), g.runningColor) {
		return fmt.Errorf("card %s not playable: %w", card, ErrInvalidMove)
	}

	p.RemoveCard(cardID)
	g.pile.Throw(card)
	g.ring.SetLastPlayer(p)
	g.logActivity(p.ID, fmt.Sprintf("%s threw %s", p.Name, card))

	steps := 1
	switch card.Rank {
	case models.RankSkip:
		steps = 2
	case models.RankReverse:
		g.ring.Reverse()
		if g.ring.Size() == 2 {
			// With two players a reverse degenerates to a skip.
			steps = 2
		}
	case models.RankDrawTwo:
		g.pendingDrawCount += 2
		g.pendingDrawActive = true
	case models.RankWildFour:
		g.pendingDrawCount += 4
		g.pendingDrawActive = true
	}

	if card.IsWild() {
		g.runningColor = models.ColorNone
	} else {
		g.runningColor = card.Color
	}

	if len(p.Hand) == 0 {
		g.finish(p)
		return nil
	}
	if len(p.Hand) == 1 {
		if calledUno {
			g.logActivity(p.ID, fmt.Sprintf("%s called UNO", p.Name))
		} else {
			p.Catchable = true
		}
	}

	g.drewThisTurn = false
	g.ring.Advance(steps)
	return nil
}

// DrawCard draws for the current player and returns the number of cards
// drawn: the full pending amount if a forced draw is owed, otherwise one.
// If the hand still holds no legal play afterwards, the turn passes
// immediately.
func (g *Game) DrawCard(playerID uuid.UUID) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusInProgress {
		return 0, fmt.Errorf("draw: %w", ErrGameNotStarted)
	}
	if g.awaitingColor() {
		return 0, fmt.Errorf("running color not declared: %w", ErrInvalidMove)
	}
	p := g.ring.Current()
	if p.ID != playerID {
		return 0, fmt.Errorf("not your turn: %w", ErrInvalidMove)
	}

	n := 1
	forced := g.pendingDrawActive
	if forced {
		n = g.pendingDrawCount
	} else if g.drewThisTurn {
		return 0, fmt.Errorf("already drew this turn: %w", ErrInvalidMove)
	}

	for i := 0; i < n; i++ {
		card, err := g.drawFromDeck()
		if err != nil {
			return i, err
		}
		p.AddCard(card)
	}
	if forced {
		g.pendingDrawCount = 0
		g.pendingDrawActive = false
		g.logActivity(p.ID, fmt.Sprintf("%s drew %d cards", p.Name, n))
	} else {
		g.logActivity(p.ID, fmt.Sprintf("%s drew a card", p.Name))
	}

	// Drawing closes the UNO-catch window.
	p.Catchable = false

	g.drewThisTurn = true
	if !p.HasPlayable(g.pile.Top(), g.runningColor) {
		g.drewThisTurn = false
		g.ring.Advance(1)
	}
	return n, nil
}

// PassTurn forfeits the rest of the turn. Only legal after the player has
// drawn this turn.
func (g *Game) PassTurn(playerID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusInProgress {
		return fmt.Errorf("pass: %w", ErrGameNotStarted)
	}
	if g.awaitingColor() {
		return fmt.Errorf("running color not declared: %w", ErrInvalidMove)
	}
	p := g.ring.Current()
	if p.ID != playerID {
		return fmt.Errorf("not your turn: %w", ErrInvalidMove)
	}
	if !g.drewThisTurn {
		return fmt.Errorf("must draw before passing: %w", ErrInvalidMove)
	}

	g.drewThisTurn = false
	g.ring.Advance(1)
	g.logActivity(p.ID, fmt.Sprintf("%s passed", p.Name))
	return nil
}

// CatchPlayer accuses the last thrower of not calling UNO. If the catch
// window is open the caught player draws the penalty; a call with nobody
// catchable is a no-op, not an error.
func (g *Game) CatchPlayer(accuserID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusInProgress {
		return nil
	}
	caught, err := g.ring.LastPlayer()
	if err != nil || !caught.Catchable {
		return nil
	}

	for i := 0; i < catchPenalty; i++ {
		card, derr := g.drawFromDeck()
		if derr != nil {
			return derr
		}
		caught.AddCard(card)
	}
	caught.Catchable = false

	accuserName := "someone"
	if accuser, aerr := g.ring.Get(accuserID); aerr == nil {
		accuserName = accuser.Name
	}
	g.logActivity(accuserID, fmt.Sprintf("%s caught %s", accuserName, caught.Name))
	return nil
}

// DeclareRunningColor completes a wild throw by fixing the color that
// legality is judged against. It is only valid while that declaration is
// outstanding; the throw's own advance has already happened, so declaring
// does not move the turn.
func (g *Game) DeclareRunningColor(color models.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusInProgress {
		return fmt.Errorf("declare color: %w", ErrGameNotStarted)
	}
	if !g.awaitingColor() {
		return fmt.Errorf("no wild awaiting color: %w", ErrInvalidMove)
	}
	if !models.ValidColor(color) {
		return fmt.Errorf("unknown color %q: %w", color, ErrInvalidMove)
	}

	g.runningColor = color
	g.logActivity(uuid.Nil, fmt.Sprintf("running color is now %s", color))
	return nil
}

// drawFromDeck pops the deck, lazily reshuffling the pile (minus its top)
// when the deck runs dry. Lock must be held.
func (g *Game) drawFromDeck() (*models.Card, error) {
	card, err := g.deck.Draw()
	if err == nil {
		return card, nil
	}

	taken := g.pile.TakeForReshuffle()
	if len(taken) == 0 {
		// Both stacks exhausted; unreachable while card conservation holds.
		return nil, fmt.Errorf("deck and pile exhausted: %w", ErrEmptyDeck)
	}
	g.deck = NewDeckFromCards(taken)
	g.deck.shuffle()
	g.logActivity(uuid.Nil, "the pile was reshuffled into the deck")
	log.Printf("game %s: reshuffled %d cards from pile into deck", g.key, len(taken))

	return g.deck.Draw()
}

// finish records victory and closes the game. Lock must be held. The
// status guard in ThrowCard makes a second transition impossible.
func (g *Game) finish(winner *models.Player) {
	g.status = StatusFinished
	g.hasWon = true
	g.winnerName = winner.Name
	for _, p := range g.ring.Players() {
		p.Catchable = false
	}
	g.drewThisTurn = false
	g.logActivity(winner.ID, fmt.Sprintf("%s has won the game", winner.Name))
	log.Printf("game %s finished, winner %s", g.key, winner.Name)
}

// logActivity appends to the audit trail and mirrors the entry to the
// historian queue. The Redis push happens off-thread so the game lock is
// never held across I/O. Lock must be held.
func (g *Game) logActivity(actorID uuid.UUID, message string) {
	g.alog.Append(message)
	g.activityIndex++
	g.lastActivity = time.Now()

	record := cache.GameActivityRecord{
		GameKey:   g.key,
		Index:     g.activityIndex,
		ActorID:   actorID,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
	go func(rec cache.GameActivityRecord) {
		if cache.Rdb == nil {
			// Redis not connected; the in-memory log is still authoritative.
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameActivity(ctx, rec); err != nil {
			log.Printf("error publishing activity %d for game %s: %v", rec.Index, rec.GameKey, err)
		}
	}(record)
}

// IdleSince reports whether the game has seen no activity since the cutoff.
func (g *Game) IdleSince(cutoff time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity.Before(cutoff)
}
