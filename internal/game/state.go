package game

// NoSeat marks an absent seat reference on a phase or history entry.
const NoSeat = -1

type Influence struct {
	Role     Role
	Revealed bool
}

type Player struct {
	ID        string
	Name      string
	Cash      int
	Influence []Influence
}

// LiveInfluence counts unrevealed slots. Zero means the player is eliminated
// and can neither act nor be targeted.
func (p *Player) LiveInfluence() int {
	n := 0
	for _, inf := range p.Influence {
		if !inf.Revealed {
			n++
		}
	}
	return n
}

// LiveSlot returns the index of an unrevealed slot holding role, or -1.
func (p *Player) LiveSlot(role Role) int {
	for i, inf := range p.Influence {
		if inf.Role == role && !inf.Revealed {
			return i
		}
	}
	return -1
}

type HistoryEntry struct {
	PlayerIdx int
	Message   string
	Target    int
}

type Phase string

const (
	PhaseWaitingForPlayers Phase = "waiting-for-players"
	PhaseStartOfTurn       Phase = "start-of-turn"
	PhaseActionResponse    Phase = "action-response"
	PhaseBlockResponse     Phase = "block-response"
	PhaseRevealInfluence   Phase = "reveal-influence"
	PhaseExchange          Phase = "exchange"
	PhaseGameWon           Phase = "game-won"
)

// TurnState is the phase value plus the fields that phase carries. Values are
// built only through the constructors below, so a phase never holds fields it
// does not define; absent seats are NoSeat, never a sentinel zero.
type TurnState struct {
	Name      Phase
	PlayerIdx int
	Action    ActionType
	Target    int
	Message   string
	Role      Role
}

func waitingForPlayers() TurnState {
	return TurnState{Name: PhaseWaitingForPlayers, PlayerIdx: NoSeat, Target: NoSeat}
}

func startOfTurn(actor int) TurnState {
	return TurnState{Name: PhaseStartOfTurn, PlayerIdx: actor, Target: NoSeat}
}

func actionResponse(actor int, action ActionType, target int) TurnState {
	return TurnState{Name: PhaseActionResponse, PlayerIdx: actor, Action: action, Target: target}
}

// blockResponse records the original actor in PlayerIdx and the blocking
// player in Target, with Role carrying the claimed blocking role.
func blockResponse(actor int, action ActionType, blocker int, role Role) TurnState {
	return TurnState{Name: PhaseBlockResponse, PlayerIdx: actor, Action: action, Target: blocker, Role: role}
}

func revealInfluence(actor int, action ActionType, target int, message string) TurnState {
	return TurnState{Name: PhaseRevealInfluence, PlayerIdx: actor, Action: action, Target: target, Message: message}
}

func exchangeTurn(actor int) TurnState {
	return TurnState{Name: PhaseExchange, PlayerIdx: actor, Action: ActionExchange, Target: NoSeat}
}

func gameWon(winner int) TurnState {
	return TurnState{Name: PhaseGameWon, PlayerIdx: winner, Target: NoSeat}
}
