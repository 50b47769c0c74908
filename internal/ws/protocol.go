package ws

import (
	"encoding/json"
	"errors"

	"treason/internal/game"
)

var errBadCommand = errors.New("bad_command")

type JoinMessage struct {
	Type       string `json:"type"`
	PlayerName string `json:"player_name"`
	GameName   string `json:"game_name,omitempty"`
}

type CreateMessage struct {
	Type       string `json:"type"`
	PlayerName string `json:"player_name"`
}

// CommandMessage is the wire form of every in-game command. Which fields are
// meaningful depends on the kind; state_id is always required.
type CommandMessage struct {
	Type    string      `json:"type"`
	Kind    string      `json:"kind"`
	StateID uint64      `json:"state_id"`
	Action  string      `json:"action,omitempty"`
	Target  *int        `json:"target,omitempty"`
	Role    string      `json:"role,omitempty"`
	Roles   []game.Role `json:"roles,omitempty"`
}

type Hello struct {
	Type        string `json:"type"`
	ActiveUsers int    `json:"active_users"`
}

type Created struct {
	Type     string `json:"type"`
	GameName string `json:"game_name"`
}

type GameInProgress struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Envelope wraps engine emissions: the channel name becomes the message type.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// decodeCommand maps a wire command onto the engine's command union.
func decodeCommand(raw []byte) (game.Command, error) {
	var msg CommandMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, errBadCommand
	}
	target := game.NoSeat
	if msg.Target != nil {
		target = *msg.Target
	}
	switch game.CommandKind(msg.Kind) {
	case game.CmdPlayAction:
		return game.PlayAction{Seq: msg.StateID, Action: game.ActionType(msg.Action), Target: target}, nil
	case game.CmdChallenge:
		return game.Challenge{Seq: msg.StateID}, nil
	case game.CmdBlock:
		return game.Block{Seq: msg.StateID, Role: game.Role(msg.Role)}, nil
	case game.CmdAllow:
		return game.Allow{Seq: msg.StateID}, nil
	case game.CmdReveal:
		return game.Reveal{Seq: msg.StateID, Role: game.Role(msg.Role)}, nil
	case game.CmdExchange:
		return game.Exchange{Seq: msg.StateID, Roles: msg.Roles}, nil
	default:
		return nil, errBadCommand
	}
}
