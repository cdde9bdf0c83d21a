package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/game"
)

// Engine is what the transport needs from the game orchestrator.
type Engine interface {
	StartGame(ctx context.Context, roomCode string)
	SubmitAnswer(ctx context.Context, roomCode, playerId, answer string, question domain.Question)
	MakeMove(ctx context.Context, roomCode, playerId string, index int, symbol, winner string)
}

// Conn is the minimal surface of a websocket connection, so tests can stand
// in for gorilla.
type Conn interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close()
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerId string `json:"playerId"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type submitAnswerPayload struct {
	RoomCode string          `json:"roomCode"`
	PlayerId string          `json:"playerId"`
	Answer   string          `json:"answer"`
	Question domain.Question `json:"question"`
}

type makeMovePayload struct {
	RoomCode string `json:"roomCode"`
	PlayerId string `json:"playerId"`
	Index    int    `json:"index"`
	Symbol   string `json:"symbol"`
	Winner   string `json:"winner"`
}

const (
	outboxSize   = 256
	pingInterval = 30 * time.Second
)

// Client is one websocket connection. A connection may subscribe to any
// number of rooms; the engine decides what each event means.
type Client struct {
	hub     *Hub
	engine  Engine
	conn    Conn
	outbox  chan []byte
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewClient(hub *Hub, engine Engine, conn Conn, log zerolog.Logger) *Client {
	return &Client{
		hub:     hub,
		engine:  engine,
		conn:    conn,
		outbox:  make(chan []byte, outboxSize),
		limiter: rate.NewLimiter(20, 40),
		log:     log,
	}
}

// Run pumps the connection until it drops, then unsubscribes it everywhere.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) send(data []byte) {
	select {
	case c.outbox <- data:
	default:
		// Outbox full means the reader is gone or hopelessly behind.
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		close(c.outbox)
	}()

	for {
		data, err := c.conn.Read()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			c.log.Warn().Msg("client rate limited, dropping event")
			continue
		}
		if err := c.dispatch(data); err != nil {
			c.log.Debug().Err(err).Msg("bad client event")
		}
	}
}

func (c *Client) dispatch(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	ctx := context.Background()

	switch env.Event {
	case "joinRoom":
		var p joinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode joinRoom: %w", err)
		}
		c.hub.join(p.RoomCode, c)
		c.hub.Broadcast(p.RoomCode, game.EventPlayerUpdate, map[string]string{
			"message":  p.PlayerId + " joined",
			"playerId": p.PlayerId,
		})

	case "leaveRoom":
		var p joinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode leaveRoom: %w", err)
		}
		c.hub.leave(p.RoomCode, c)
		c.hub.Broadcast(p.RoomCode, game.EventPlayerUpdate, map[string]string{
			"message":  p.PlayerId + " left",
			"playerId": p.PlayerId,
		})

	case "startGame":
		var p startGamePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode startGame: %w", err)
		}
		c.engine.StartGame(ctx, p.RoomCode)

	case "submitAnswer":
		var p submitAnswerPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode submitAnswer: %w", err)
		}
		c.engine.SubmitAnswer(ctx, p.RoomCode, p.PlayerId, p.Answer, p.Question)

	case "makeMove":
		var p makeMovePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode makeMove: %w", err)
		}
		c.engine.MakeMove(ctx, p.RoomCode, p.PlayerId, p.Index, p.Symbol, p.Winner)

	default:
		return fmt.Errorf("unknown event %q", env.Event)
	}
	return nil
}

func (c *Client) writePump() {
	pings := time.NewTicker(pingInterval)
	defer func() {
		pings.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				return
			}
			if err := c.conn.Write(data); err != nil {
				return
			}
		case <-pings.C:
			if err := c.conn.Ping(); err != nil {
				return
			}
		}
	}
}
