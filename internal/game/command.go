package game

type CommandKind string

const (
	CmdPlayAction CommandKind = "play-action"
	CmdChallenge  CommandKind = "challenge"
	CmdBlock      CommandKind = "block"
	CmdAllow      CommandKind = "allow"
	CmdReveal     CommandKind = "reveal"
	CmdExchange   CommandKind = "exchange"
)

// Command is the closed union of player commands. Every command carries the
// sequence id of the state it was issued against; a mismatch means the client
// acted on stale information and the command is dropped.
type Command interface {
	Kind() CommandKind
	StateSeq() uint64
}

type PlayAction struct {
	Seq    uint64
	Action ActionType
	Target int
}

func (c PlayAction) Kind() CommandKind { return CmdPlayAction }
func (c PlayAction) StateSeq() uint64  { return c.Seq }

type Challenge struct {
	Seq uint64
}

func (c Challenge) Kind() CommandKind { return CmdChallenge }
func (c Challenge) StateSeq() uint64  { return c.Seq }

type Block struct {
	Seq  uint64
	Role Role
}

func (c Block) Kind() CommandKind { return CmdBlock }
func (c Block) StateSeq() uint64  { return c.Seq }

type Allow struct {
	Seq uint64
}

func (c Allow) Kind() CommandKind { return CmdAllow }
func (c Allow) StateSeq() uint64  { return c.Seq }

type Reveal struct {
	Seq  uint64
	Role Role
}

func (c Reveal) Kind() CommandKind { return CmdReveal }
func (c Reveal) StateSeq() uint64  { return c.Seq }

type Exchange struct {
	Seq   uint64
	Roles []Role
}

func (c Exchange) Kind() CommandKind { return CmdExchange }
func (c Exchange) StateSeq() uint64  { return c.Seq }
