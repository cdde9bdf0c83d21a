package game

import "github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"

// Server-to-room broadcast event names. They match the wire protocol the
// front end listens on, so changing one is a breaking change.
const (
	EventPlayerUpdate   = "playerUpdate"
	EventGameStarted    = "gameStarted"
	EventSymbolAssigned = "symbolAssigned"
	EventQuizUpdate     = "quizUpdate"
	EventTimerUpdate    = "timerUpdate"
	EventWrongAnswer    = "wrongAnswer"
	EventGameUpdate     = "gameUpdate"
)

// Broadcaster fans an event out to every subscriber of a room.
type Broadcaster interface {
	Broadcast(roomCode, event string, payload any)
}

type gameStarted struct {
	Players   []string          `json:"players"`
	GameState *domain.GameState `json:"gameState"`
}

type symbolAssigned struct {
	PlayerId string `json:"playerId"`
	Symbol   string `json:"symbol"`
}

// quizUpdate drives the quiz phase on the client. TimeRemaining is nil only
// in the final update after a terminal move, when no further question comes.
type quizUpdate struct {
	Question      *domain.Question `json:"question"`
	ShowingAnswer bool             `json:"showingAnswer"`
	ActivePlayer  *string          `json:"activePlayer"`
	TimeRemaining *int             `json:"timeRemaining"`
	WrongAnswers  []string         `json:"wrongAnswers"`
	NextSymbol    string           `json:"nextSymbol,omitempty"`
}

type timerUpdate struct {
	TimeRemaining int `json:"timeRemaining"`
}

type wrongAnswerUpdate struct {
	WrongAnswers []string `json:"wrongAnswers"`
}

type gameUpdate struct {
	Board       []string      `json:"board"`
	CurrentTurn string        `json:"currentTurn"`
	Winner      string        `json:"winner"`
	Moves       []domain.Move `json:"moves"`
}

func wrongAnswersPayload(wrong []string) []string {
	if wrong == nil {
		return []string{}
	}
	return wrong
}
