package game

import "errors"

var (
	ErrStaleCommand     = errors.New("stale_command")
	ErrInadmissible     = errors.New("inadmissible_command")
	ErrNotYourTurn      = errors.New("not_your_turn")
	ErrUnknownAction    = errors.New("unknown_action")
	ErrMustCoup         = errors.New("must_coup")
	ErrInsufficientCash = errors.New("insufficient_cash")
	ErrInvalidTarget    = errors.New("invalid_target")
	ErrCannotChallenge  = errors.New("cannot_challenge")
	ErrCannotBlock      = errors.New("cannot_block")
	ErrCannotAllow      = errors.New("cannot_allow")
	ErrInvalidRole      = errors.New("invalid_role")
	ErrEliminated       = errors.New("eliminated")
	ErrGameFull         = errors.New("game_full")
	ErrMatchFrozen      = errors.New("match_frozen")
)

// admissible is the phase x command-kind decision table. A kind absent from a
// phase's row is illegal in that phase; seat entitlement and action legality
// are checked separately by each handler.
var admissible = map[Phase]map[CommandKind]bool{
	PhaseStartOfTurn: {
		CmdPlayAction: true,
	},
	PhaseActionResponse: {
		CmdChallenge: true,
		CmdBlock:     true,
		CmdAllow:     true,
	},
	PhaseBlockResponse: {
		CmdChallenge: true,
		CmdAllow:     true,
	},
	PhaseRevealInfluence: {
		CmdReveal: true,
	},
	PhaseExchange: {
		CmdExchange: true,
	},
}

func Admissible(phase Phase, kind CommandKind) bool {
	return admissible[phase][kind]
}

// validatePlayAction checks action legality for the acting seat. It performs
// no mutation; the dispatcher only touches state after this passes.
func (g *Game) validatePlayAction(seat int, c PlayAction) (ActionRule, error) {
	if g.Turn.PlayerIdx != seat {
		return ActionRule{}, ErrNotYourTurn
	}
	rule, ok := Actions[c.Action]
	if !ok {
		return ActionRule{}, ErrUnknownAction
	}
	player := g.Players[seat]
	if player.Cash >= MustCoupCash && c.Action != ActionCoup {
		return ActionRule{}, ErrMustCoup
	}
	if player.Cash < rule.Cost {
		return ActionRule{}, ErrInsufficientCash
	}
	if rule.Targeted {
		if c.Target < 0 || c.Target >= g.SeatCount {
			return ActionRule{}, ErrInvalidTarget
		}
		if g.Players[c.Target].LiveInfluence() == 0 {
			return ActionRule{}, ErrInvalidTarget
		}
	}
	return rule, nil
}
