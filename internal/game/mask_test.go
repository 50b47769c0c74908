package game

import "testing"

func TestMaskedViewHidesOpponentRoles(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Duke, Assassin)
	setHand(t, g, 1, Captain, Contessa)

	v := g.View(0)

	for i, inf := range v.Players[0].Influence {
		if inf.Role == RoleUnknown {
			t.Fatalf("own slot %d masked", i)
		}
	}
	for i, inf := range v.Players[1].Influence {
		if inf.Role != RoleUnknown {
			t.Fatalf("opponent slot %d leaked role %q", i, inf.Role)
		}
	}
	if v.MySeat != 0 || v.MyPlayerID != "p0" {
		t.Fatalf("view identity = seat %d id %q", v.MySeat, v.MyPlayerID)
	}
}

func TestMaskedViewShowsRevealedRoles(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 1, Captain, Contessa)
	g.Players[1].Influence[0].Revealed = true

	v := g.View(0)

	if got := v.Players[1].Influence[0]; got.Role != Captain || !got.Revealed {
		t.Fatalf("revealed slot = %+v, want captain revealed", got)
	}
	if got := v.Players[1].Influence[1]; got.Role != RoleUnknown {
		t.Fatalf("live slot leaked %q", got.Role)
	}
}

func TestMaskedViewDoesNotAliasState(t *testing.T) {
	g, _ := newTestGame(t)
	setHand(t, g, 0, Duke, Assassin)

	v := g.View(0)
	v.Players[0].Influence[0].Role = Contessa
	v.History = append(v.History, HistoryView{Message: "forged"})

	if g.Players[0].Influence[0].Role != Duke {
		t.Fatalf("mutating a view reached the authoritative hand")
	}
	for _, h := range g.History {
		if h.Message == "forged" {
			t.Fatalf("mutating a view reached the history")
		}
	}
}

func TestMaskedViewSeatPointers(t *testing.T) {
	g, _ := newTestGame(t)

	v := g.View(0)
	if v.Turn.Name != PhaseStartOfTurn {
		t.Fatalf("turn = %q", v.Turn.Name)
	}
	if v.Turn.PlayerIdx == nil || *v.Turn.PlayerIdx != 0 {
		t.Fatalf("player_idx pointer = %v", v.Turn.PlayerIdx)
	}
	if v.Turn.Target != nil {
		t.Fatalf("start-of-turn carries a target: %d", *v.Turn.Target)
	}

	submitAction(g, 0, ActionSteal, 1)
	v = g.View(1)
	if v.Turn.Target == nil || *v.Turn.Target != 1 {
		t.Fatalf("steal target pointer = %v", v.Turn.Target)
	}
}

func TestBroadcastViewsCarryCurrentSeq(t *testing.T) {
	g, cap := newTestGame(t)

	submitAction(g, 0, ActionIncome, NoSeat)

	for seat := 0; seat < 2; seat++ {
		v := cap.lastState(t, seat)
		if v.Seq != g.Seq {
			t.Fatalf("seat %d view seq = %d, engine seq = %d", seat, v.Seq, g.Seq)
		}
		if v.MySeat != seat {
			t.Fatalf("seat %d received a view stamped for seat %d", seat, v.MySeat)
		}
	}
}
