package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Color is one of the four play colors. Wild cards carry ColorNone; a
// game-level running color stands in for them once declared.
type Color string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
)

// Colors lists the declarable colors in deck-building order.
var Colors = []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// Action ranks. Number cards use their digit "0".."9" as the rank.
const (
	RankSkip     = "skip"
	RankReverse  = "reverse"
	RankDrawTwo  = "draw2"
	RankWild     = "wild"
	RankWildFour = "wild4"
)

// Card is a single card. The id distinguishes the two physical copies of
// the same face, so hands and snapshots can reference cards exactly.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Color Color     `json:"color"`
	Rank  string    `json:"rank"`
}

// NewCard mints a card with a fresh id, rejecting impossible color/rank
// combinations.
func NewCard(color Color, rank string) (*Card, error) {
	if !ValidCard(color, rank) {
		return nil, fmt.Errorf("invalid card color=%q rank=%q", color, rank)
	}
	return &Card{ID: uuid.New(), Color: color, Rank: rank}, nil
}

// IsWild reports whether the card is a wild or wild-draw-four.
func (c *Card) IsWild() bool {
	return c.Rank == RankWild || c.Rank == RankWildFour
}

// Playable reports whether the card may legally land on top. Wilds always
// may. Against a wild top the declared running color decides; otherwise a
// color or rank match does.
func (c *Card) Playable(top *Card, running Color) bool {
	if c.IsWild() {
		return true
	}
	if top.IsWild() {
		return c.Color == running
	}
	return c.Color == top.Color || c.Rank == top.Rank
}

func (c *Card) String() string {
	if c.IsWild() {
		return c.Rank
	}
	return fmt.Sprintf("%s %s", c.Color, c.Rank)
}

// ValidColor reports whether the color is one of the four declarable ones.
func ValidColor(color Color) bool {
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}

// ValidCard reports whether the color/rank pair names a real card face.
// Wilds are colorless; everything else needs a color and a digit or action
// rank.
func ValidCard(color Color, rank string) bool {
	switch rank {
	case RankWild, RankWildFour:
		return color == ColorNone
	case RankSkip, RankReverse, RankDrawTwo:
		return ValidColor(color)
	}
	if len(rank) == 1 && rank[0] >= '0' && rank[0] <= '9' {
		return ValidColor(color)
	}
	return false
}
