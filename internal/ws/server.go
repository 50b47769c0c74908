package ws

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"treason/internal/game"
	"treason/internal/match"
)

// playerNamePattern bounds names to 30 characters from the same charset the
// original server accepted.
var playerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_ !@#$*]{1,30}$`)

func ValidPlayerName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && playerNamePattern.MatchString(name)
}

// Client is one WebSocket connection. Writes go through the buffered send
// channel so the engine never blocks on a slow socket; a client that cannot
// keep up loses messages rather than stalling the match.
type Client struct {
	conn  *websocket.Conn
	send  chan []byte
	seat  int
	match *match.Match
}

// Send implements match.Sink. Payloads are wrapped so the channel name
// arrives as the message type.
func (c *Client) Send(channel string, payload any) {
	msg, err := json.Marshal(Envelope{Type: channel, Data: payload})
	if err != nil {
		return
	}
	safeSend(c.send, msg)
}

type Server struct {
	manager  *match.Manager
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewServer(manager *match.Manager, log zerolog.Logger) *Server {
	return &Server{
		manager:  manager,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      log,
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 16), seat: game.NoSeat}

	go s.writeLoop(client)
	client.Send("hello", Hello{Type: "hello", ActiveUsers: s.manager.ActiveUsers()})
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		if c.match != nil {
			// Disconnection eliminates the seat; there are no reconnect
			// timers.
			s.manager.Leave(c.match, c.seat)
		}
		safeClose(c.send)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case "join":
			if c.match != nil {
				continue
			}
			var join JoinMessage
			if err := json.Unmarshal(msg, &join); err != nil {
				continue
			}
			s.handleJoin(c, join)
		case "create":
			if c.match != nil {
				continue
			}
			var create CreateMessage
			if err := json.Unmarshal(msg, &create); err != nil {
				continue
			}
			s.handleCreate(c, create)
		case "command":
			if c.match == nil {
				continue
			}
			cmd, err := decodeCommand(msg)
			if err != nil {
				s.log.Debug().Int("seat", c.seat).Msg("undecodable command")
				continue
			}
			c.match.Game.Submit(c.seat, cmd)
		}
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

func (s *Server) handleJoin(c *Client, join JoinMessage) {
	if !ValidPlayerName(join.PlayerName) {
		c.Send(game.ChannelError, ErrorMessage{Type: game.ChannelError, Message: "invalid player name"})
		return
	}

	var (
		m    *match.Match
		seat int
		err  error
	)
	if join.GameName != "" {
		m, seat, err = s.manager.JoinNamed(join.GameName, join.PlayerName, c)
	} else {
		m, seat, err = s.manager.JoinPublic(join.PlayerName, c)
	}
	if err == match.ErrMatchFull {
		c.Send("game-in-progress", GameInProgress{Type: "game-in-progress"})
		return
	}
	if err != nil {
		c.Send(game.ChannelError, ErrorMessage{Type: game.ChannelError, Message: "could not join game"})
		return
	}
	c.match, c.seat = m, seat
	s.log.Info().Str("match_id", m.ID).Int("seat", seat).Str("player", join.PlayerName).Msg("player_joined")
}

func (s *Server) handleCreate(c *Client, create CreateMessage) {
	if !ValidPlayerName(create.PlayerName) {
		c.Send(game.ChannelError, ErrorMessage{Type: game.ChannelError, Message: "invalid player name"})
		return
	}
	m, seat, err := s.manager.Create(create.PlayerName, c)
	if err != nil {
		c.Send(game.ChannelError, ErrorMessage{Type: game.ChannelError, Message: "could not create game"})
		return
	}
	c.match, c.seat = m, seat
	c.Send("created", Created{Type: "created", GameName: m.Name})
	s.log.Info().Str("match_id", m.ID).Str("name", m.Name).Msg("match_created_by_player")
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}
