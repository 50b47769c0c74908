package match

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"treason/internal/game"
	"treason/internal/store"
)

var ErrMatchFull = errors.New("match_full")

// Sink receives per-seat emissions. The transport layer implements it per
// connection.
type Sink interface {
	Send(channel string, payload any)
}

// Recorder is the persistence surface the manager needs: the engine's audit
// trail plus match and seat registration. Nil means no persistence.
type Recorder interface {
	game.Recorder
	CreateMatch(ctx context.Context, id, name string, private bool) error
	RecordSeat(ctx context.Context, matchID string, seat int, playerID, playerName string) error
}

// Match binds one engine instance to the connections seated at it. It routes
// the engine's per-seat emissions to whichever sink currently holds the seat;
// emissions to vacated seats are dropped.
type Match struct {
	ID      string
	Name    string
	Private bool
	Game    *game.Game

	mu    sync.Mutex
	sinks map[int]Sink
}

func (m *Match) EmitToSeat(seat int, channel string, payload any) {
	m.mu.Lock()
	sink := m.sinks[seat]
	m.mu.Unlock()
	if sink != nil {
		sink.Send(channel, payload)
	}
}

func (m *Match) attach(seat int, sink Sink) {
	m.mu.Lock()
	m.sinks[seat] = sink
	m.mu.Unlock()
}

// detach vacates a seat and reports whether any seat is still occupied.
func (m *Match) detach(seat int) (empty bool) {
	m.mu.Lock()
	delete(m.sinks, seat)
	empty = len(m.sinks) == 0
	m.mu.Unlock()
	return empty
}

func (m *Match) occupied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sinks)
}

// Manager owns every live match: the id registry, the public matchmaking
// queue, and the private name index. All matchmaking goes through its mutex;
// per-match command traffic does not.
type Manager struct {
	mu      sync.Mutex
	matches map[string]*Match
	public  []*Match
	private map[string]*Match

	seats int
	rec   Recorder
	log   zerolog.Logger
}

func NewManager(seats int, rec Recorder, log zerolog.Logger) *Manager {
	if seats < 2 {
		seats = 2
	}
	return &Manager{
		matches: map[string]*Match{},
		private: map[string]*Match{},
		seats:   seats,
		rec:     rec,
		log:     log,
	}
}

// Create starts a private match named after its creator and seats them.
func (mgr *Manager) Create(playerName string, sink Sink) (*Match, int, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m := mgr.newMatch(mgr.uniqueMatchName(playerName), true)
	mgr.private[m.Name] = m
	seat, err := mgr.join(m, playerName, sink)
	if err != nil {
		mgr.teardown(m)
		return nil, game.NoSeat, err
	}
	return m, seat, nil
}

// JoinNamed joins the private match with the given name, creating it when no
// such match exists. A full match is reported, not silently replaced.
func (mgr *Manager) JoinNamed(gameName, playerName string, sink Sink) (*Match, int, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.private[gameName]
	if !ok {
		m = mgr.newMatch(gameName, true)
		mgr.private[gameName] = m
	}
	seat, err := mgr.join(m, playerName, sink)
	if err != nil {
		if m.occupied() == 0 {
			mgr.teardown(m)
		}
		return nil, game.NoSeat, err
	}
	return m, seat, nil
}

// JoinPublic seats the player at the oldest open public match, creating a new
// one when the queue is empty.
func (mgr *Manager) JoinPublic(playerName string, sink Sink) (*Match, int, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	var m *Match
	for _, cand := range mgr.public {
		if !cand.Game.IsFull() {
			m = cand
			break
		}
	}
	if m == nil {
		m = mgr.newMatch(randomMatchName(playerName), false)
		mgr.public = append(mgr.public, m)
	}
	seat, err := mgr.join(m, playerName, sink)
	if err != nil {
		if m.occupied() == 0 {
			mgr.teardown(m)
		}
		return nil, game.NoSeat, err
	}
	if m.Game.IsFull() {
		mgr.removeFromQueue(m)
	}
	return m, seat, nil
}

// Leave vacates a seat, which eliminates the player, and tears the match down
// once its last connection is gone.
func (mgr *Manager) Leave(m *Match, seat int) {
	m.Game.Leave(seat)

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if m.detach(seat) {
		mgr.teardown(m)
	}
}

// ActiveUsers counts currently seated connections across all matches.
func (mgr *Manager) ActiveUsers() int {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	n := 0
	for _, m := range mgr.matches {
		n += m.occupied()
	}
	return n
}

func (mgr *Manager) MatchCount() int {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return len(mgr.matches)
}

// uniqueMatchName generates a private-match name no live match is using.
// A collision would overwrite the name index and strand the earlier match,
// so regenerate first and fall back to a numbered suffix if the adjective
// pool is exhausted. Caller holds the mutex.
func (mgr *Manager) uniqueMatchName(playerName string) string {
	for i := 0; i < 10; i++ {
		name := randomMatchName(playerName)
		if _, taken := mgr.private[name]; !taken {
			return name
		}
	}
	base := randomMatchName(playerName)
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s (%d)", base, i)
		if _, taken := mgr.private[name]; !taken {
			return name
		}
	}
}

// newMatch constructs the match and its engine. Caller holds the mutex.
func (mgr *Manager) newMatch(name string, private bool) *Match {
	id := store.NewID()
	m := &Match{ID: id, Name: name, Private: private, sinks: map[int]Sink{}}
	opts := []game.Option{
		game.WithSeats(mgr.seats),
		game.WithEmitter(m),
		game.WithLogger(mgr.log),
	}
	if mgr.rec != nil {
		opts = append(opts, game.WithRecorder(mgr.rec))
		if err := mgr.rec.CreateMatch(context.Background(), id, name, private); err != nil {
			mgr.log.Warn().Err(err).Str("match_id", id).Msg("record match create failed")
		}
	}
	m.Game = game.New(id, opts...)
	mgr.matches[id] = m
	mgr.log.Info().Str("match_id", id).Str("name", name).Bool("private", private).Msg("match_created")
	return m
}

// join seats the player and wires their sink. The join broadcast fires before
// the sink is attached, so the joiner gets an explicit first snapshot.
func (mgr *Manager) join(m *Match, playerName string, sink Sink) (int, error) {
	playerID := store.NewID()
	seat, err := m.Game.Join(playerID, playerName)
	if err != nil {
		if errors.Is(err, game.ErrGameFull) {
			return game.NoSeat, ErrMatchFull
		}
		return game.NoSeat, err
	}
	m.attach(seat, sink)
	sink.Send(game.ChannelState, m.Game.View(seat))
	if mgr.rec != nil {
		if err := mgr.rec.RecordSeat(context.Background(), m.ID, seat, playerID, playerName); err != nil {
			mgr.log.Warn().Err(err).Str("match_id", m.ID).Msg("record seat failed")
		}
	}
	return seat, nil
}

// teardown removes a match from every index. Caller holds the mutex.
func (mgr *Manager) teardown(m *Match) {
	delete(mgr.matches, m.ID)
	if m.Private {
		if mgr.private[m.Name] == m {
			delete(mgr.private, m.Name)
		}
	} else {
		mgr.removeFromQueue(m)
	}
	mgr.log.Info().Str("match_id", m.ID).Msg("match_torn_down")
}

func (mgr *Manager) removeFromQueue(m *Match) {
	for i, cand := range mgr.public {
		if cand == m {
			mgr.public = append(mgr.public[:i], mgr.public[i+1:]...)
			return
		}
	}
}
