package game

// Submit validates a (seat, command) pair against the current phase and
// either applies it or drops it. Drops are silent toward players; the reason
// is logged as a diagnostic. Validation completes fully before any mutation,
// so a rejected command never leaves partial state behind.
func (g *Game) Submit(seat int, cmd Command) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		g.log.Debug().Int("seat", seat).Msg("command dropped: match frozen")
		return
	}
	if seat < 0 || seat >= len(g.Players) {
		g.log.Debug().Int("seat", seat).Msg("command dropped: unknown seat")
		return
	}
	if cmd.StateSeq() != g.Seq {
		// The client acted on a state it has since been superseded on; a
		// newer snapshot is already on its way, so discard quietly.
		g.log.Debug().
			Int("seat", seat).
			Uint64("cmd_seq", cmd.StateSeq()).
			Uint64("seq", g.Seq).
			Msg("command dropped: stale sequence")
		return
	}
	if !Admissible(g.Turn.Name, cmd.Kind()) {
		g.log.Debug().
			Int("seat", seat).
			Str("kind", string(cmd.Kind())).
			Str("phase", string(g.Turn.Name)).
			Msg("command dropped: inadmissible in phase")
		return
	}

	var err error
	switch c := cmd.(type) {
	case PlayAction:
		err = g.handlePlayAction(seat, c)
	case Challenge:
		err = g.handleChallenge(seat)
	case Block:
		err = g.handleBlock(seat, c)
	case Allow:
		err = g.handleAllow(seat)
	case Reveal:
		err = g.handleReveal(seat, c)
	case Exchange:
		err = g.handleExchange(seat, c)
	default:
		g.log.Debug().Int("seat", seat).Msg("command dropped: unknown kind")
		return
	}
	if err != nil {
		g.log.Debug().Err(err).Int("seat", seat).Str("kind", string(cmd.Kind())).Msg("command dropped")
		return
	}
	g.broadcast()
}

func (g *Game) handlePlayAction(seat int, c PlayAction) error {
	rule, err := g.validatePlayAction(seat, c)
	if err != nil {
		return err
	}
	g.Players[seat].Cash -= rule.Cost

	if !rule.contestable() {
		if g.resolveAction(seat, c.Action, c.Target) {
			g.nextTurn()
		}
		return nil
	}

	switch c.Action {
	case ActionSteal:
		g.addHistory(seat, "attempted to steal from", c.Target)
	case ActionAssassinate:
		g.addHistory(seat, "attempted to assassinate", c.Target)
	case ActionExchange:
		g.addHistory(seat, "attempted to exchange", NoSeat)
	default:
		g.addHistory(seat, "attempted to draw "+string(c.Action), NoSeat)
	}
	g.Turn = actionResponse(seat, c.Action, c.Target)
	return nil
}

func (g *Game) handleChallenge(seat int) error {
	// Dead seats keep their index for turn arithmetic but have no say. Only
	// reachable above two seats; heads-up, an elimination ends the game.
	if g.Players[seat].LiveInfluence() == 0 {
		return ErrEliminated
	}
	switch g.Turn.Name {
	case PhaseActionResponse:
		if seat == g.Turn.PlayerIdx {
			return ErrCannotChallenge
		}
		rule, ok := Actions[g.Turn.Action]
		if !ok {
			return ErrUnknownAction
		}
		if rule.Role == "" {
			return ErrCannotChallenge
		}
		return g.challenge(seat, g.Turn.PlayerIdx, rule.Role)
	case PhaseBlockResponse:
		// The blocker sits in Target; challenging one's own block is illegal.
		if seat == g.Turn.Target {
			return ErrCannotChallenge
		}
		return g.challenge(seat, g.Turn.Target, g.Turn.Role)
	default:
		return ErrInadmissible
	}
}

func (g *Game) handleBlock(seat int, c Block) error {
	if g.Players[seat].LiveInfluence() == 0 {
		return ErrEliminated
	}
	rule, ok := Actions[g.Turn.Action]
	if !ok {
		return ErrUnknownAction
	}
	if seat == g.Turn.PlayerIdx {
		return ErrCannotBlock
	}
	if len(rule.BlockedBy) == 0 {
		return ErrCannotBlock
	}
	if c.Role == "" {
		return ErrInvalidRole
	}
	if !rule.blockableBy(c.Role) {
		return ErrCannotBlock
	}
	g.addHistory(seat, "attempted to block with "+string(c.Role), NoSeat)
	g.Turn = blockResponse(g.Turn.PlayerIdx, g.Turn.Action, seat, c.Role)
	return nil
}

func (g *Game) handleAllow(seat int) error {
	if g.Players[seat].LiveInfluence() == 0 {
		return ErrEliminated
	}
	switch g.Turn.Name {
	case PhaseBlockResponse:
		if seat == g.Turn.Target {
			return ErrCannotAllow
		}
		// Block stands; the action never executes and the turn advances.
		g.addHistory(g.Turn.Target, "blocked with "+string(g.Turn.Role), NoSeat)
		g.nextTurn()
		return nil
	case PhaseActionResponse:
		if seat == g.Turn.PlayerIdx {
			return ErrCannotAllow
		}
		if g.resolveAction(g.Turn.PlayerIdx, g.Turn.Action, g.Turn.Target) {
			g.nextTurn()
		}
		return nil
	default:
		return ErrInadmissible
	}
}

func (g *Game) handleReveal(seat int, c Reveal) error {
	if g.Turn.Target != seat {
		return ErrNotYourTurn
	}
	player := g.Players[seat]
	slot := player.LiveSlot(c.Role)
	if slot < 0 {
		return ErrInvalidRole
	}
	player.Influence[slot].Revealed = true
	g.addHistory(seat, "revealed "+string(c.Role), NoSeat)

	if player.LiveInfluence() == 0 {
		// Revealing the last card is an elimination.
		g.checkForGameEnd()
		if g.Turn.Name == PhaseGameWon {
			return nil
		}
	}
	if g.Turn.Action == ActionExchange && g.Turn.Target != g.Turn.PlayerIdx {
		// The reveal settled a lost exchange challenge: the postponed
		// private draw happens only now that the reveal is done.
		g.resolveAction(g.Turn.PlayerIdx, ActionExchange, NoSeat)
	} else {
		g.nextTurn()
	}
	return nil
}

func (g *Game) handleExchange(seat int, c Exchange) error {
	if g.Turn.PlayerIdx != seat {
		return ErrNotYourTurn
	}
	player := g.Players[seat]
	if len(c.Roles) != player.LiveInfluence() {
		return ErrInvalidRole
	}

	// The kept roles must come from the actor's live hand plus the two drawn
	// options; anything else is a fabricated card.
	available := make([]Role, 0, len(player.Influence)+len(g.exchangeDrawn))
	for _, inf := range player.Influence {
		if !inf.Revealed {
			available = append(available, inf.Role)
		}
	}
	available = append(available, g.exchangeDrawn...)
	for _, want := range c.Roles {
		found := -1
		for i, have := range available {
			if have == want {
				found = i
				break
			}
		}
		if found < 0 {
			return ErrInvalidRole
		}
		available[found] = available[len(available)-1]
		available = available[:len(available)-1]
	}

	keep := append([]Role(nil), c.Roles...)
	for i := range player.Influence {
		if !player.Influence[i].Revealed {
			player.Influence[i].Role = keep[len(keep)-1]
			keep = keep[:len(keep)-1]
		}
	}
	// Whatever was not kept goes back to the pool, keeping the card count
	// closed; no reshuffle is needed here.
	for _, role := range available {
		g.deck.Return(role)
	}
	g.exchangeDrawn = nil

	g.addHistory(seat, "exchanged roles", NoSeat)
	g.nextTurn()
	return nil
}
