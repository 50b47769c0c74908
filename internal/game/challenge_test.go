package game

import (
	"math/rand"
	"testing"
)

func TestChallengeLostSingleReveal(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Duke, Assassin)
	setHand(t, g, 1, Captain, Contessa)

	submitAction(g, 0, ActionTax, NoSeat)
	submitChallenge(g, 1)

	// Claim was genuine: tax executed, challenger owes one card.
	if g.Players[0].Cash != 5 {
		t.Fatalf("tax not executed after failed challenge: cash=%d", g.Players[0].Cash)
	}
	if g.Turn.Name != PhaseRevealInfluence || g.Turn.Target != 1 || g.Turn.Message != "failed challenge" {
		t.Fatalf("turn after failed challenge = %+v", g.Turn)
	}
	if g.Players[1].LiveInfluence() != 2 {
		t.Fatalf("challenger with two cards should not be eliminated outright")
	}

	submitReveal(g, 1, Contessa)
	if g.Players[1].LiveInfluence() != 1 {
		t.Fatalf("reveal not applied")
	}
	if g.Turn.Name != PhaseStartOfTurn || g.Turn.PlayerIdx != 1 {
		t.Fatalf("turn after reveal = %+v", g.Turn)
	}
}

func TestChallengeLostReplacesExposedCard(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Duke, Assassin)
	setHand(t, g, 1, Captain, Contessa)
	deckBefore := g.deck.Len()

	submitAction(g, 0, ActionTax, NoSeat)
	submitChallenge(g, 1)

	// The proven duke went back into the deck and a replacement was drawn;
	// the slot stays live and the deck size is unchanged.
	if g.deck.Len() != deckBefore {
		t.Fatalf("deck size changed on replacement: %d -> %d", deckBefore, g.deck.Len())
	}
	if g.Players[0].Influence[0].Revealed {
		t.Fatalf("replacement slot must stay unrevealed")
	}
}

func TestChallengeWonOnBluffedAction(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Assassin, Captain) // no duke
	setHand(t, g, 1, Duke, Contessa)

	submitAction(g, 0, ActionTax, NoSeat)
	submitChallenge(g, 1)

	// Bluff exposed: tax never executes, the bluffer owes one card.
	if g.Players[0].Cash != StartingCash {
		t.Fatalf("bluffed tax executed: cash=%d", g.Players[0].Cash)
	}
	if g.Turn.Name != PhaseRevealInfluence || g.Turn.Target != 0 || g.Turn.Message != "successfully challenged" {
		t.Fatalf("turn after won challenge = %+v", g.Turn)
	}

	submitReveal(g, 0, Captain)
	if g.Turn.Name != PhaseStartOfTurn || g.Turn.PlayerIdx != 1 {
		t.Fatalf("turn after reveal = %+v", g.Turn)
	}
}

// The double-loss rule for assassination challenges keys on the contested
// action type, not on whether the challenger was the assassination's target.
// That reading is a documented ambiguity inherited from the original rules
// and is asserted here so nobody "fixes" it silently.
func TestAssassinateChallengeLossBoundaries(t *testing.T) {
	t.Run("two live influence is eliminated outright", func(t *testing.T) {
		g, _ := newTestGame(t)
		g.Players[0].Cash = 3
		setHand(t, g, 0, Assassin, Duke)
		setHand(t, g, 1, Captain, Contessa)

		submitAction(g, 0, ActionAssassinate, 1)
		submitChallenge(g, 1)

		if g.Players[1].LiveInfluence() != 0 {
			t.Fatalf("challenger with 2 cards should lose both, live=%d", g.Players[1].LiveInfluence())
		}
		if g.Turn.Name != PhaseGameWon || g.Turn.PlayerIdx != 0 {
			t.Fatalf("turn = %+v, want game-won for seat 0", g.Turn)
		}
	})

	t.Run("one live influence is eliminated", func(t *testing.T) {
		g, _ := newTestGame(t)
		g.Players[0].Cash = 3
		setHand(t, g, 0, Assassin, Duke)
		setHand(t, g, 1, Captain, Contessa)
		g.Players[1].Influence[1].Revealed = true

		submitAction(g, 0, ActionAssassinate, 1)
		submitChallenge(g, 1)

		if g.Players[1].LiveInfluence() != 0 {
			t.Fatalf("challenger not eliminated")
		}
		if g.Turn.Name != PhaseGameWon || g.Turn.PlayerIdx != 0 {
			t.Fatalf("turn = %+v, want game-won for seat 0", g.Turn)
		}
	})

	t.Run("non-assassinate claim costs a single card", func(t *testing.T) {
		g, _ := newTestGame(t)
		setHand(t, g, 0, Captain, Duke)
		setHand(t, g, 1, Assassin, Contessa)

		submitAction(g, 0, ActionSteal, 1)
		submitChallenge(g, 1)

		if g.Players[1].LiveInfluence() != 2 || g.Turn.Name != PhaseRevealInfluence {
			t.Fatalf("steal challenge loss should cost one card: live=%d turn=%+v",
				g.Players[1].LiveInfluence(), g.Turn)
		}
	})
}

func TestBlockAllowedCancelsAction(t *testing.T) {
	g, _ := newTestGame(t)

	submitAction(g, 0, ActionForeignAid, NoSeat)
	if g.Turn.Name != PhaseActionResponse {
		t.Fatalf("foreign-aid should await responses, got %q", g.Turn.Name)
	}

	submitBlock(g, 1, Duke)
	if g.Turn.Name != PhaseBlockResponse || g.Turn.Target != 1 || g.Turn.Role != Duke {
		t.Fatalf("turn after block = %+v", g.Turn)
	}

	submitAllow(g, 0)
	if g.Players[0].Cash != StartingCash {
		t.Fatalf("blocked foreign-aid still executed: cash=%d", g.Players[0].Cash)
	}
	if g.Turn.Name != PhaseStartOfTurn || g.Turn.PlayerIdx != 1 {
		t.Fatalf("turn after allowed block = %+v", g.Turn)
	}
}

func TestBlockWithWrongRoleDropped(t *testing.T) {
	g, _ := newTestGame(t)

	submitAction(g, 0, ActionForeignAid, NoSeat)
	submitBlock(g, 1, Contessa)

	if g.Turn.Name != PhaseActionResponse {
		t.Fatalf("foreign-aid blocked by a non-blocking role: %+v", g.Turn)
	}
}

func TestBlockChallengeExposesBluffAndExecutesAction(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Captain, Assassin)
	setHand(t, g, 1, Captain, Contessa) // no duke

	submitAction(g, 0, ActionForeignAid, NoSeat)
	submitBlock(g, 1, Duke)
	submitChallenge(g, 0)

	// The false block collapses: foreign-aid executes after all.
	if g.Players[0].Cash != 4 {
		t.Fatalf("foreign-aid not executed after block bluff: cash=%d", g.Players[0].Cash)
	}
	if g.Turn.Name != PhaseRevealInfluence || g.Turn.Target != 1 {
		t.Fatalf("turn after won block challenge = %+v", g.Turn)
	}
}

func TestBlockChallengeLostWhenBlockerHoldsRole(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Captain, Assassin)
	setHand(t, g, 1, Duke, Contessa)

	submitAction(g, 0, ActionForeignAid, NoSeat)
	submitBlock(g, 1, Duke)
	submitChallenge(g, 0)

	// Block was genuine: the action stays cancelled and the challenger
	// (the original actor) owes a card.
	if g.Players[0].Cash != StartingCash {
		t.Fatalf("foreign-aid executed despite genuine block: cash=%d", g.Players[0].Cash)
	}
	if g.Turn.Name != PhaseRevealInfluence || g.Turn.Target != 0 || g.Turn.Message != "failed challenge" {
		t.Fatalf("turn after lost block challenge = %+v", g.Turn)
	}
}

func TestContessaBlockBluffDoubleLoss(t *testing.T) {
	g, _ := newTestGame(t)
	g.Players[0].Cash = 3
	setHand(t, g, 0, Assassin, Duke)
	setHand(t, g, 1, Captain, Duke) // no contessa

	submitAction(g, 0, ActionAssassinate, 1)
	submitBlock(g, 1, Contessa)
	submitChallenge(g, 0)

	// A bluffed contessa block of an assassination costs both cards.
	if g.Players[1].LiveInfluence() != 0 {
		t.Fatalf("blocker should be eliminated, live=%d", g.Players[1].LiveInfluence())
	}
	if g.Turn.Name != PhaseGameWon || g.Turn.PlayerIdx != 0 {
		t.Fatalf("turn = %+v, want game-won for seat 0", g.Turn)
	}
}

func TestChallengeIncomeImpossible(t *testing.T) {
	g, _ := newTestGame(t)

	submitAction(g, 0, ActionIncome, NoSeat)
	// Income resolves immediately; any challenge arrives in start-of-turn
	// and is inadmissible there.
	seq := g.Seq
	submitChallenge(g, 1)
	if g.Seq != seq {
		t.Fatalf("challenge accepted outside a response phase")
	}
}

func TestEliminatedSeatCannotRespond(t *testing.T) {
	cap := newCapture()
	g := New("g-three", WithSeats(3), WithEmitter(cap), WithRand(rand.New(rand.NewSource(2))))
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := g.Join("p"+name, name); err != nil {
			t.Fatalf("join seat %d: %v", i, err)
		}
	}
	setHand(t, g, 0, Captain, Assassin)
	for i := range g.Players[2].Influence {
		g.Players[2].Influence[i].Revealed = true
	}

	submitAction(g, 0, ActionSteal, 1)
	seq := g.Seq

	submitChallenge(g, 2)
	if g.Seq != seq {
		t.Fatalf("dead seat's challenge accepted")
	}
	submitBlock(g, 2, Ambassador)
	if g.Seq != seq || g.Turn.Name != PhaseActionResponse {
		t.Fatalf("dead seat blocked: %+v", g.Turn)
	}
	submitAllow(g, 2)
	if g.Seq != seq || g.Players[0].Cash != StartingCash {
		t.Fatalf("dead seat's allow resolved the action")
	}

	// A live responder still can.
	submitAllow(g, 1)
	if g.Players[0].Cash != 4 || g.Players[1].Cash != 0 {
		t.Fatalf("live allow did not resolve steal: cash=%d/%d",
			g.Players[0].Cash, g.Players[1].Cash)
	}
	if g.Turn.Name != PhaseStartOfTurn || g.Turn.PlayerIdx != 1 {
		t.Fatalf("turn after steal = %+v", g.Turn)
	}
}

func TestChallengeOwnActionDropped(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Duke, Assassin)

	submitAction(g, 0, ActionTax, NoSeat)
	seq := g.Seq
	submitChallenge(g, 0)
	if g.Seq != seq {
		t.Fatalf("actor challenged their own action")
	}
}
