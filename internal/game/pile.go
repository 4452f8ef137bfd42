package game

import "github.com/unolabs/uno-service/internal/models"

// Pile is the discard stack. The last element is the top, the currently
// active face card.
type Pile struct {
	cards []*models.Card
}

// NewPile returns an empty pile. The starter card arrives via Throw when
// the game begins.
func NewPile() *Pile {
	return &Pile{}
}

// NewPileFromCards rebuilds a pile from snapshot order, bottom first.
func NewPileFromCards(cards []*models.Card) *Pile {
	return &Pile{cards: cards}
}

// Throw pushes a card; it becomes the new top.
func (p *Pile) Throw(c *models.Card) {
	p.cards = append(p.cards, c)
}

// Top returns the current top without removal, or nil if the pile is empty.
func (p *Pile) Top() *models.Card {
	if len(p.cards) == 0 {
		return nil
	}
	return p.cards[len(p.cards)-1]
}

// TakeForReshuffle removes and returns every card except the current top,
// which stays behind as the sole pile content. The caller shuffles the
// returned cards into a new deck.
func (p *Pile) TakeForReshuffle() []*models.Card {
	if len(p.cards) <= 1 {
		return nil
	}
	taken := p.cards[:len(p.cards)-1]
	p.cards = []*models.Card{p.cards[len(p.cards)-1]}
	return taken
}

// Size returns the number of cards on the pile.
func (p *Pile) Size() int {
	return len(p.cards)
}

// Cards returns the pile contents bottom-first, copied for snapshots.
func (p *Pile) Cards() []*models.Card {
	out := make([]*models.Card, len(p.cards))
	copy(out, p.cards)
	return out
}
