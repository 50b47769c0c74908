package game

import (
	"errors"
	"math/rand"
)

var ErrEmptyDeck = errors.New("empty_deck")

// Deck holds the shared face-down pool. The full set is CopiesPerRole copies
// of every role in the action table; cards move between the deck and player
// influence slots but are never created or destroyed.
type Deck struct {
	cards []Role
	rnd   *rand.Rand
}

func NewDeck(rnd *rand.Rand) *Deck {
	roles := DeckRoles()
	cards := make([]Role, 0, len(roles)*CopiesPerRole)
	for i := 0; i < CopiesPerRole; i++ {
		cards = append(cards, roles...)
	}
	d := &Deck{cards: cards, rnd: rnd}
	d.Shuffle()
	return d
}

func (d *Deck) Shuffle() {
	d.rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Draw() (Role, error) {
	if len(d.cards) == 0 {
		return "", ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Return puts a card back without reshuffling.
func (d *Deck) Return(r Role) {
	d.cards = append(d.cards, r)
}

// ReturnAndRedraw puts role back, reshuffles the whole deck, and draws a
// replacement. Used when a challenged claim is proven: the holder loses the
// exposed card but receives a fresh one, so observers learn nothing about
// what remains in the deck.
func (d *Deck) ReturnAndRedraw(r Role) (Role, error) {
	d.Return(r)
	d.Shuffle()
	return d.Draw()
}

func (d *Deck) Len() int {
	return len(d.cards)
}
