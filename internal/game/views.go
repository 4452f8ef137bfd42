// internal/game/views.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/unolabs/uno-service/internal/models"
)

// The view types are what the polling handlers serialize back to clients.
// Each accessor copies under the game lock; callers never receive live
// references into the engine, so a reader cannot observe or cause a
// partial update.

// CardView is a client-facing card.
type CardView struct {
	ID         uuid.UUID    `json:"id"`
	Color      models.Color `json:"color"`
	Rank       string       `json:"rank"`
	IsWildCard bool         `json:"isWildCard"`
}

// HandView is a player's own hand plus the subset currently playable
// against the pile top.
type HandView struct {
	Cards         []CardView `json:"cards"`
	PlayableCards []CardView `json:"playableCards"`
}

// PlayerDetail is what opponents may know about a player: name, turn
// marker, and hand count. Never hand contents.
type PlayerDetail struct {
	Name       string `json:"name"`
	IsCurrent  bool   `json:"isCurrent"`
	CardsCount int    `json:"cardsCount"`
}

// PlayersView lists every seat in ring order together with the requesting
// player's own position, so the client can rotate the table around itself.
type PlayersView struct {
	PlayerDetails  []PlayerDetail `json:"playerDetails"`
	PlayerPosition int            `json:"playerPosition"`
}

// VictoryView surfaces the finished state.
type VictoryView struct {
	HasWon bool   `json:"hasWon"`
	Name   string `json:"name"`
}

// StatusView is the periodic game poll payload.
type StatusView struct {
	GameLog       string       `json:"gameLog"`
	TopDiscard    *CardView    `json:"topDiscard"`
	RunningColor  models.Color `json:"runningColor"`
	VictoryStatus VictoryView  `json:"victoryStatus"`
}

// LobbyView is the pre-game poll payload.
type LobbyView struct {
	Joined   int  `json:"joined"`
	Expected int  `json:"expected"`
	Started  bool `json:"started"`
}

func cardView(c *models.Card) CardView {
	return CardView{ID: c.ID, Color: c.Color, Rank: c.Rank, IsWildCard: c.IsWild()}
}

// TopDiscard returns the currently active face card, nil before the game
// has started.
func (g *Game) TopDiscard() *CardView {
	g.mu.Lock()
	defer g.mu.Unlock()

	top := g.pile.Top()
	if top == nil {
		return nil
	}
	v := cardView(top)
	return &v
}

// PlayerCards returns the named player's hand and its playable subset.
// The playable set is advisory; ThrowCard re-checks legality.
func (g *Game) PlayerCards(playerID uuid.UUID) (HandView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.ring.Get(playerID)
	if err != nil {
		return HandView{}, err
	}

	view := HandView{Cards: []CardView{}, PlayableCards: []CardView{}}
	top := g.pile.Top()
	for _, c := range p.Hand {
		cv := cardView(c)
		view.Cards = append(view.Cards, cv)
		if top != nil && c.Playable(top, g.runningColor) {
			view.PlayableCards = append(view.PlayableCards, cv)
		}
	}
	return view, nil
}

// PlayersView returns every player's public detail in seating order plus
// the requester's own index.
func (g *Game) PlayersView(forID uuid.UUID) (PlayersView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := g.ring.Players()
	view := PlayersView{PlayerPosition: -1}
	for i, p := range players {
		view.PlayerDetails = append(view.PlayerDetails, PlayerDetail{
			Name:       p.Name,
			IsCurrent:  i == g.ring.CurrentIndex(),
			CardsCount: len(p.Hand),
		})
		if p.ID == forID {
			view.PlayerPosition = i
		}
	}
	if view.PlayerPosition == -1 {
		return PlayersView{}, fmt.Errorf("player %s: %w", forID, ErrPlayerNotFound)
	}
	return view, nil
}

// Status returns the periodic poll payload: latest log line, top discard,
// running color, and the victory state once finished.
func (g *Game) Status() StatusView {
	g.mu.Lock()
	defer g.mu.Unlock()

	view := StatusView{
		GameLog:      g.alog.Latest(),
		RunningColor: g.runningColor,
		VictoryStatus: VictoryView{
			HasWon: g.hasWon,
			Name:   g.winnerName,
		},
	}
	if top := g.pile.Top(); top != nil {
		v := cardView(top)
		view.TopDiscard = &v
	}
	return view
}

// LobbyStatus reports join progress for the waiting-room poll.
func (g *Game) LobbyStatus() LobbyView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return LobbyView{
		Joined:   g.joined,
		Expected: g.playerCount,
		Started:  g.status != StatusWaiting,
	}
}

// Entries returns the full activity log in order.
func (g *Game) Entries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.alog.Entries()
}

// HasStarted reports whether the game left the waiting room.
func (g *Game) HasStarted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status != StatusWaiting
}

// IsFull reports whether every configured seat is taken.
func (g *Game) IsFull() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.joined >= g.playerCount
}
