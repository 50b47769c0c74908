package game

import (
	"math/rand"
	"testing"
)

// capture records emissions per seat so tests can assert on broadcast views
// and on the private exchange payload.
type capture struct {
	states  map[int][]GameView
	options map[int][][]Role
}

func newCapture() *capture {
	return &capture{
		states:  map[int][]GameView{},
		options: map[int][][]Role{},
	}
}

func (c *capture) EmitToSeat(seat int, channel string, payload any) {
	switch channel {
	case ChannelState:
		c.states[seat] = append(c.states[seat], payload.(GameView))
	case ChannelExchangeOptions:
		c.options[seat] = append(c.options[seat], payload.([]Role))
	}
}

func (c *capture) lastState(t *testing.T, seat int) GameView {
	t.Helper()
	views := c.states[seat]
	if len(views) == 0 {
		t.Fatalf("no state emitted to seat %d", seat)
	}
	return views[len(views)-1]
}

func newTestGame(t *testing.T) (*Game, *capture) {
	t.Helper()
	cap := newCapture()
	g := New("g-test", WithEmitter(cap), WithRand(rand.New(rand.NewSource(1))))
	if _, err := g.Join("p0", "Alice"); err != nil {
		t.Fatalf("join seat 0: %v", err)
	}
	if _, err := g.Join("p1", "Bob"); err != nil {
		t.Fatalf("join seat 1: %v", err)
	}
	return g, cap
}

// setHand overwrites a seat's influence roles; slot count stays fixed so the
// closed-card accounting is unaffected.
func setHand(t *testing.T, g *Game, seat int, roles ...Role) {
	t.Helper()
	p := g.Players[seat]
	if len(roles) != len(p.Influence) {
		t.Fatalf("setHand seat %d: want %d roles, got %d", seat, len(p.Influence), len(roles))
	}
	for i, r := range roles {
		p.Influence[i].Role = r
	}
}

func submitAction(g *Game, seat int, action ActionType, target int) {
	g.Submit(seat, PlayAction{Seq: g.Seq, Action: action, Target: target})
}

func submitChallenge(g *Game, seat int) {
	g.Submit(seat, Challenge{Seq: g.Seq})
}

func submitBlock(g *Game, seat int, role Role) {
	g.Submit(seat, Block{Seq: g.Seq, Role: role})
}

func submitAllow(g *Game, seat int) {
	g.Submit(seat, Allow{Seq: g.Seq})
}

func submitReveal(g *Game, seat int, role Role) {
	g.Submit(seat, Reveal{Seq: g.Seq, Role: role})
}

func submitExchange(g *Game, seat int, roles ...Role) {
	g.Submit(seat, Exchange{Seq: g.Seq, Roles: roles})
}

// totalCards counts every card wherever it lives: deck, influence slots, and
// the in-flight exchange draw.
func totalCards(g *Game) int {
	n := g.deck.Len() + len(g.exchangeDrawn)
	for _, p := range g.Players {
		n += len(p.Influence)
	}
	return n
}

func liveRoles(g *Game, seat int) []Role {
	roles := []Role{}
	for _, inf := range g.Players[seat].Influence {
		if !inf.Revealed {
			roles = append(roles, inf.Role)
		}
	}
	return roles
}
