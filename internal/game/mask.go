package game

// Masked per-seat projection. Views are fresh structures built from the
// authoritative state, never aliases into it, so an emitted view can outlive
// the state it was taken from.

type InfluenceView struct {
	Role     Role `json:"role"`
	Revealed bool `json:"revealed"`
}

type PlayerView struct {
	PlayerID  string          `json:"player_id"`
	Name      string          `json:"name"`
	Cash      int             `json:"cash"`
	Influence []InfluenceView `json:"influence"`
}

type TurnView struct {
	Name      Phase      `json:"name"`
	PlayerIdx *int       `json:"player_idx,omitempty"`
	Action    ActionType `json:"action,omitempty"`
	Target    *int       `json:"target,omitempty"`
	Message   string     `json:"message,omitempty"`
	Role      Role       `json:"role,omitempty"`
}

type HistoryView struct {
	PlayerIdx int    `json:"player_idx"`
	Message   string `json:"message"`
	Target    *int   `json:"target,omitempty"`
}

type GameView struct {
	Seq        uint64        `json:"state_id"`
	GameID     string        `json:"game_id"`
	SeatCount  int           `json:"seat_count"`
	Players    []PlayerView  `json:"players"`
	Turn       TurnView      `json:"turn"`
	History    []HistoryView `json:"history"`
	MySeat     int           `json:"my_seat"`
	MyPlayerID string        `json:"my_player_id"`
}

// maskedView projects the state for one viewing seat: every other player's
// unrevealed role becomes RoleUnknown, the viewer's own hand is shown in
// full, and the view is stamped with the viewer's seat and player id so the
// client can self-identify. Caller holds the mutex.
func (g *Game) maskedView(viewer int) GameView {
	players := make([]PlayerView, 0, len(g.Players))
	for i, p := range g.Players {
		influence := make([]InfluenceView, 0, len(p.Influence))
		for _, inf := range p.Influence {
			role := inf.Role
			if i != viewer && !inf.Revealed {
				role = RoleUnknown
			}
			influence = append(influence, InfluenceView{Role: role, Revealed: inf.Revealed})
		}
		players = append(players, PlayerView{
			PlayerID:  p.ID,
			Name:      p.Name,
			Cash:      p.Cash,
			Influence: influence,
		})
	}

	history := make([]HistoryView, 0, len(g.History))
	for _, h := range g.History {
		history = append(history, HistoryView{
			PlayerIdx: h.PlayerIdx,
			Message:   h.Message,
			Target:    seatPtr(h.Target),
		})
	}

	myID := ""
	if viewer >= 0 && viewer < len(g.Players) {
		myID = g.Players[viewer].ID
	}
	return GameView{
		Seq:       g.Seq,
		GameID:    g.ID,
		SeatCount: g.SeatCount,
		Players:   players,
		Turn: TurnView{
			Name:      g.Turn.Name,
			PlayerIdx: seatPtr(g.Turn.PlayerIdx),
			Action:    g.Turn.Action,
			Target:    seatPtr(g.Turn.Target),
			Message:   g.Turn.Message,
			Role:      g.Turn.Role,
		},
		History:    history,
		MySeat:     viewer,
		MyPlayerID: myID,
	}
}

func seatPtr(seat int) *int {
	if seat == NoSeat {
		return nil
	}
	v := seat
	return &v
}
