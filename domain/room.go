package domain

import "time"

const (
	StatusLobby     = "lobby"
	StatusStarted   = "started"
	StatusCompleted = "completed"
)

const (
	SymbolX = "X"
	SymbolO = "O"

	// WinnerDraw is stored in GameState.Winner when the board fills with no line.
	WinnerDraw = "draw"
)

const MaxPlayersPerRoom = 2

// Move is one entry of the append-only move log. The log is the source of
// truth for the board; GameState.Board is recomputed from it on every append.
type Move struct {
	Player    string    `json:"player"`
	Symbol    string    `json:"symbol"`
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
}

type GameState struct {
	Board       []string `json:"board"`
	CurrentTurn string   `json:"currentTurn"`
	Winner      string   `json:"winner"`
	Moves       []Move   `json:"moves"`
}

func NewGameState() *GameState {
	return &GameState{
		Board: make([]string, 9),
		Moves: []Move{},
	}
}

type Room struct {
	Id        string     `json:"id,omitempty"`
	RoomCode  string     `json:"roomCode"`
	Players   []string   `json:"players"`
	Status    string     `json:"status"`
	GameState *GameState `json:"gameState"`
	CreatedAt time.Time  `json:"createdAt"`
}

// SymbolForSlot maps join order to a permanent symbol: first joiner plays X.
func SymbolForSlot(slot int) string {
	if slot == 0 {
		return SymbolX
	}
	return SymbolO
}
