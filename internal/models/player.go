package models

import (
	"github.com/google/uuid"
)

// Player is a seat at the table: an identity plus an owned, unordered hand.
// Catchable marks a player who reached one card without calling UNO; the
// mark lives until their next draw, a successful catch, or game end.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Hand      []*Card   `json:"hand"`
	Catchable bool      `json:"catchable"`
}

func NewPlayer(name string) (*Player, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &Player{
		ID:   id,
		Name: name,
		Hand: []*Card{},
	}, nil
}

// FindCard returns the card with the given id from the hand, or nil.
func (p *Player) FindCard(cardID uuid.UUID) *Card {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}

// RemoveCard takes the card with the given id out of the hand and returns
// it, or nil if the player does not hold it.
func (p *Player) RemoveCard(cardID uuid.UUID) *Card {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// AddCard puts a card into the hand.
func (p *Player) AddCard(c *Card) {
	p.Hand = append(p.Hand, c)
}

// HasPlayable reports whether any card in the hand is legal against top.
func (p *Player) HasPlayable(top *Card, running Color) bool {
	for _, c := range p.Hand {
		if c.Playable(top, running) {
			return true
		}
	}
	return false
}
