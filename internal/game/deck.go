package game

import (
	"math/rand"
	"time"

	"github.com/unolabs/uno-service/internal/models"
)

// Deck is the draw stack. The last element of cards is the top, the next
// card drawn. The zero deck is empty and usable.
type Deck struct {
	cards []*models.Card
}

// NewDeck builds and shuffles the full 108-card set: per color one "0",
// two each of "1".."9", two each skip/reverse/draw2, plus four wilds and
// four wild-draw-fours.
func NewDeck() *Deck {
	var cards []*models.Card
	add := func(color models.Color, rank string) {
		c, _ := models.NewCard(color, rank)
		cards = append(cards, c)
	}

	for _, color := range models.Colors {
		add(color, "0")
		for n := '1'; n <= '9'; n++ {
			add(color, string(n))
			add(color, string(n))
		}
		for _, rank := range []string{models.RankSkip, models.RankReverse, models.RankDrawTwo} {
			add(color, rank)
			add(color, rank)
		}
	}
	for i := 0; i < 4; i++ {
		add(models.ColorNone, models.RankWild)
		add(models.ColorNone, models.RankWildFour)
	}

	d := &Deck{cards: cards}
	d.shuffle()
	return d
}

// NewDeckFromCards builds a deck with a fixed order, bottom first. Used by
// snapshot restore and by the reshuffle path, which shuffle explicitly.
func NewDeckFromCards(cards []*models.Card) *Deck {
	return &Deck{cards: cards}
}

func (d *Deck) shuffle() {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. Callers handle ErrEmptyDeck by
// reshuffling the pile and drawing again.
func (d *Deck) Draw() (*models.Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrEmptyDeck
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// PushBottom slides a card under the deck. Used when the starter flip
// turns up a wild, which goes back under rather than opening play.
func (d *Deck) PushBottom(c *models.Card) {
	d.cards = append([]*models.Card{c}, d.cards...)
}

// Size returns the number of cards remaining.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns the deck contents bottom-first, copied for snapshots.
func (d *Deck) Cards() []*models.Card {
	out := make([]*models.Card, len(d.cards))
	copy(out, d.cards)
	return out
}
