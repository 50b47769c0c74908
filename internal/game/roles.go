package game

import "sort"

type Role string

const (
	Duke       Role = "duke"
	Assassin   Role = "assassin"
	Contessa   Role = "contessa"
	Captain    Role = "captain"
	Ambassador Role = "ambassador"

	// RoleUnknown replaces another player's unrevealed role in masked views.
	RoleUnknown Role = "unknown"
)

type ActionType string

const (
	ActionIncome      ActionType = "income"
	ActionForeignAid  ActionType = "foreign-aid"
	ActionCoup        ActionType = "coup"
	ActionTax         ActionType = "tax"
	ActionAssassinate ActionType = "assassinate"
	ActionSteal       ActionType = "steal"
	ActionExchange    ActionType = "exchange"
)

// ActionRule describes one entry of the action table. A zero Role means the
// action claims nothing and cannot be challenged; an empty BlockedBy means it
// cannot be blocked. Actions with neither resolve immediately.
type ActionRule struct {
	Cost      int
	Gain      int
	Role      Role
	BlockedBy []Role
	Targeted  bool
}

var Actions = map[ActionType]ActionRule{
	ActionIncome:      {Gain: 1},
	ActionForeignAid:  {Gain: 2, BlockedBy: []Role{Duke}},
	ActionCoup:        {Cost: 7, Targeted: true},
	ActionTax:         {Gain: 3, Role: Duke},
	ActionAssassinate: {Cost: 3, Role: Assassin, Targeted: true, BlockedBy: []Role{Contessa}},
	ActionSteal:       {Role: Captain, Targeted: true, BlockedBy: []Role{Ambassador, Captain}},
	ActionExchange:    {Role: Ambassador},
}

const (
	// CopiesPerRole is the number of copies of each role in the deck.
	CopiesPerRole = 3
	// MustCoupCash forces the coup action once a player holds this much.
	MustCoupCash = 10
	// StartingCash is each player's cash at seating.
	StartingCash = 2
	// InfluencePerPlayer is the number of influence slots dealt at seating.
	InfluencePerPlayer = 2
)

func (r ActionRule) contestable() bool {
	return r.Role != "" || len(r.BlockedBy) > 0
}

func (r ActionRule) blockableBy(role Role) bool {
	for _, b := range r.BlockedBy {
		if b == role {
			return true
		}
	}
	return false
}

// DeckRoles returns the distinct roles appearing in the action table, either
// as a claimed role or as a blocking role, in stable order.
func DeckRoles() []Role {
	seen := map[Role]bool{}
	for _, rule := range Actions {
		if rule.Role != "" {
			seen[rule.Role] = true
		}
		for _, b := range rule.BlockedBy {
			seen[b] = true
		}
	}
	roles := make([]Role, 0, len(seen))
	for r := range seen {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
