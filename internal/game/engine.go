package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Emission channels passed to the transport.
const (
	ChannelState           = "state"
	ChannelExchangeOptions = "exchange-options"
	ChannelError           = "error"
)

// Emitter is the callback surface into the transport layer. Emission is
// fire-and-forget from the engine's perspective.
type Emitter interface {
	EmitToSeat(seat int, channel string, payload any)
}

type nopEmitter struct{}

func (nopEmitter) EmitToSeat(int, string, any) {}

// Recorder receives an audit trail of accepted mutations. All calls are
// best-effort; failures never affect the match.
type Recorder interface {
	RecordEvent(ctx context.Context, gameID string, seq uint64, entry HistoryEntry) error
	MatchEnded(ctx context.Context, gameID, winnerID string) error
}

// Game is the authoritative state of one match. All commands for a match are
// processed strictly sequentially under the mutex; no operation blocks or
// suspends. Independent matches share nothing.
type Game struct {
	mu sync.Mutex

	ID        string
	SeatCount int
	Players   []*Player
	Turn      TurnState
	History   []HistoryEntry

	// Seq increments on every accepted mutation; commands carrying an older
	// value are dropped as stale.
	Seq uint64

	deck *Deck
	// exchangeDrawn holds the two cards dealt privately to an exchanging
	// actor until the exchange command resolves or the actor dies.
	exchangeDrawn []Role

	emitter Emitter
	rec     Recorder
	log     zerolog.Logger
	frozen  bool
}

type Option func(*Game)

func WithSeats(n int) Option {
	return func(g *Game) { g.SeatCount = n }
}

func WithEmitter(e Emitter) Option {
	return func(g *Game) { g.emitter = e }
}

func WithRecorder(r Recorder) Option {
	return func(g *Game) { g.rec = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithRand injects the shuffle source; tests use a fixed seed.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Game) { g.deck = NewDeck(rnd) }
}

func New(id string, opts ...Option) *Game {
	g := &Game{
		ID:        id,
		SeatCount: 2,
		Seq:       1,
		Turn:      waitingForPlayers(),
		emitter:   nopEmitter{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.deck == nil {
		g.deck = NewDeck(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	g.log = g.log.With().Str("game_id", id).Logger()
	return g
}

// Join seats a player. The returned seat index is the player's handle for
// the rest of the match.
func (g *Game) Join(playerID, name string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return NoSeat, ErrMatchFrozen
	}
	if len(g.Players) >= g.SeatCount {
		return NoSeat, ErrGameFull
	}

	influence := make([]Influence, 0, InfluencePerPlayer)
	for i := 0; i < InfluencePerPlayer; i++ {
		role, err := g.deck.Draw()
		if err != nil {
			g.freeze("deal influence", err)
			return NoSeat, ErrMatchFrozen
		}
		influence = append(influence, Influence{Role: role})
	}
	g.Players = append(g.Players, &Player{
		ID:        playerID,
		Name:      name,
		Cash:      StartingCash,
		Influence: influence,
	})
	seat := len(g.Players) - 1

	if len(g.Players) == g.SeatCount {
		g.Turn = startOfTurn(0)
	}
	g.addHistory(seat, "joined the game", NoSeat)
	g.broadcast()
	return seat, nil
}

// Leave vacates a seat. Disconnection is modeled as an implicit kill; there
// are no timers in the engine.
func (g *Game) Leave(seat int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seat < 0 || seat >= len(g.Players) {
		g.log.Debug().Int("seat", seat).Msg("unknown seat left")
		return
	}
	g.killPlayer(seat)
	g.addHistory(seat, "left the game", NoSeat)
	g.broadcast()
}

func (g *Game) IsFull() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Players) == g.SeatCount
}

// Over reports whether the match has been won or frozen.
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frozen || g.Turn.Name == PhaseGameWon
}

// View builds a masked snapshot for one seat.
func (g *Game) View(seat int) GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maskedView(seat)
}

// broadcast bumps the sequence id and emits one masked view per seat. Caller
// holds the mutex.
func (g *Game) broadcast() {
	g.Seq++
	for seat := range g.Players {
		g.emitter.EmitToSeat(seat, ChannelState, g.maskedView(seat))
	}
}

func (g *Game) addHistory(seat int, message string, target int) {
	entry := HistoryEntry{PlayerIdx: seat, Message: message, Target: target}
	g.History = append(g.History, entry)
	if g.rec != nil {
		if err := g.rec.RecordEvent(context.Background(), g.ID, g.Seq, entry); err != nil {
			g.log.Warn().Err(err).Msg("record event failed")
		}
	}
}

// freeze marks the match dead after an invariant violation. Continuing would
// risk undefined game state, so every later command is dropped.
func (g *Game) freeze(op string, err error) {
	g.frozen = true
	g.log.Error().Err(err).Str("op", op).Msg("invariant violation, match frozen")
}

// resolveAction applies an action's effect. Returns true when the turn ends
// immediately, false when a sub-protocol (reveal, exchange) must run first.
func (g *Game) resolveAction(actor int, action ActionType, target int) bool {
	rule := Actions[action]
	player := g.Players[actor]
	player.Cash += rule.Gain

	switch action {
	case ActionAssassinate:
		g.addHistory(actor, "assassinated", target)
		g.Turn = revealInfluence(actor, action, target, "assassinated")
		return false
	case ActionCoup:
		g.addHistory(actor, "staged a coup on", target)
		g.Turn = revealInfluence(actor, action, target, "coup")
		return false
	case ActionSteal:
		victim := g.Players[target]
		g.addHistory(actor, "stole from", target)
		if victim.Cash >= 2 {
			victim.Cash -= 2
			player.Cash += 2
		} else {
			player.Cash += victim.Cash
			victim.Cash = 0
		}
		return true
	case ActionExchange:
		drawn := make([]Role, 0, 2)
		for i := 0; i < 2; i++ {
			role, err := g.deck.Draw()
			if err != nil {
				g.freeze("exchange draw", err)
				return false
			}
			drawn = append(drawn, role)
		}
		g.exchangeDrawn = drawn
		// Private payload for the actor only, never broadcast.
		g.emitter.EmitToSeat(actor, ChannelExchangeOptions, drawn)
		g.Turn = exchangeTurn(actor)
		return false
	default:
		g.addHistory(actor, "drew "+string(action), NoSeat)
		return true
	}
}

// challenge adjudicates a claim of role made by the challenged seat, whether
// that claim backs an action (action-response) or a block (block-response).
func (g *Game) challenge(challenger, challenged int, claimedRole Role) error {
	challengedPlayer := g.Players[challenged]
	slot := challengedPlayer.LiveSlot(claimedRole)
	if slot >= 0 {
		// Claim was genuine; the challenger pays.
		g.addHistory(challenger, "incorrectly challenged", challenged)
		live := g.Players[challenger].LiveInfluence()
		if live <= 1 || (live <= 2 && g.Turn.Name == PhaseActionResponse && g.Turn.Action == ActionAssassinate) {
			// Failing a challenge against a claimed assassination costs two
			// cards. The cost keys on the contested action alone, not on
			// whether the challenger was the assassination's target; the
			// original rule reads that way and is kept as-is.
			g.killPlayer(challenger)
		} else {
			if g.Turn.Name == PhaseActionResponse && g.Turn.Action != ActionExchange {
				// The action survived its challenge, so it executes now. An
				// exchange waits until after the reveal so the private draw
				// is not dealt while a reveal is still owed.
				g.resolveAction(g.Turn.PlayerIdx, g.Turn.Action, g.Turn.Target)
			}
			g.Turn = revealInfluence(g.Turn.PlayerIdx, g.Turn.Action, challenger, "failed challenge")
		}
		// The proven card goes back to the deck and a replacement is drawn,
		// so the challenger learns nothing about what the holder keeps.
		replacement, err := g.deck.ReturnAndRedraw(claimedRole)
		if err != nil {
			g.freeze("replace challenged card", err)
			return nil
		}
		challengedPlayer.Influence[slot].Role = replacement
	} else {
		// Claim was a bluff; the challenged player pays.
		g.addHistory(challenger, "successfully challenged", challenged)
		live := challengedPlayer.LiveInfluence()
		if live <= 1 || (live <= 2 && g.Turn.Name == PhaseBlockResponse && g.Turn.Action == ActionAssassinate) {
			// A contessa block of an assassination exposed as a bluff costs
			// both of the blocker's cards.
			g.killPlayer(challenged)
		} else {
			if g.Turn.Name == PhaseBlockResponse {
				// The block claim was false, so the original action executes.
				g.resolveAction(g.Turn.PlayerIdx, g.Turn.Action, g.Turn.Target)
			}
			g.Turn = revealInfluence(g.Turn.PlayerIdx, g.Turn.Action, challenged, "successfully challenged")
		}
	}
	g.checkForGameEnd()
	return nil
}

// killPlayer reveals all of a seat's influence, advances the turn away from
// the dead seat, and runs the game-end check.
func (g *Game) killPlayer(seat int) {
	p := g.Players[seat]
	for i := range p.Influence {
		p.Influence[i].Revealed = true
	}
	if g.Turn.Name == PhaseExchange && g.Turn.PlayerIdx == seat {
		g.returnExchangeDrawn()
	}
	if g.Turn.Name != PhaseGameWon && g.Turn.PlayerIdx == seat {
		g.nextTurn()
	}
	g.checkForGameEnd()
}

func (g *Game) returnExchangeDrawn() {
	for _, role := range g.exchangeDrawn {
		g.deck.Return(role)
	}
	g.exchangeDrawn = nil
}

func (g *Game) checkForGameEnd() {
	if g.Turn.Name == PhaseGameWon {
		return
	}
	winner := NoSeat
	for i, p := range g.Players {
		if p.LiveInfluence() > 0 {
			if winner == NoSeat {
				winner = i
			} else {
				// More than one live seat; no winner yet. A zero-live or
				// ambiguous count is tolerated without declaring anyone.
				winner = NoSeat
				break
			}
		}
	}
	if winner == NoSeat {
		return
	}
	g.Turn = gameWon(winner)
	g.log.Info().Int("winner_seat", winner).Str("winner_id", g.Players[winner].ID).Msg("game_won")
	if g.rec != nil {
		if err := g.rec.MatchEnded(context.Background(), g.ID, g.Players[winner].ID); err != nil {
			g.log.Warn().Err(err).Msg("record match end failed")
		}
	}
}

func (g *Game) nextTurn() {
	next := g.nextLiveSeat()
	if next == NoSeat {
		g.freeze("advance turn", errors.New("no_live_players"))
		return
	}
	g.Turn = startOfTurn(next)
}

// nextLiveSeat scans seats after the current actor, wrapping, for the first
// one still holding live influence.
func (g *Game) nextLiveSeat() int {
	cur := g.Turn.PlayerIdx
	for i := 1; i < g.SeatCount; i++ {
		cand := (cur + i) % g.SeatCount
		if cand < len(g.Players) && g.Players[cand].LiveInfluence() > 0 {
			return cand
		}
	}
	return NoSeat
}

// DeckLen reports the current face-down pool size.
func (g *Game) DeckLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deck.Len()
}
