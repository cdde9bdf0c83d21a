package game

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// RoomStore is the persistence boundary the orchestrator depends on. Saves
// are best effort: a failed save is logged and the in-memory flow continues,
// so clients can briefly observe state ahead of what is durably stored.
type RoomStore interface {
	GetRoomByCode(ctx context.Context, roomCode string) (domain.Room, error)
	SaveGame(ctx context.Context, room domain.Room) error
}

type Config struct {
	// QuestionSeconds is the countdown length of the quiz phase.
	QuestionSeconds int
	// StartDelay separates the start broadcasts from the first question.
	StartDelay time.Duration
	// RevealDelay is how long the correct answer stays on screen before the
	// next question.
	RevealDelay time.Duration
	// MoveDelay lets clients apply a gameUpdate before the next question
	// lands.
	MoveDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		QuestionSeconds: 5,
		StartDelay:      time.Second,
		RevealDelay:     2 * time.Second,
		MoveDelay:       500 * time.Millisecond,
	}
}

// Engine is the per-room game session orchestrator. It owns the phase
// machine (lobby -> quiz-wait <-> move-unlocked -> completed), arbitrates
// answers, applies moves to the append-only log and manages the timer chain
// through the session directory.
type Engine struct {
	cfg       Config
	store     RoomStore
	bank      *QuestionBank
	directory *Directory
	broadcast Broadcaster
	tickers   TickerFactory
	log       zerolog.Logger
}

func NewEngine(cfg Config, store RoomStore, bank *QuestionBank, directory *Directory, broadcast Broadcaster, tickers TickerFactory, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		store:     store,
		bank:      bank,
		directory: directory,
		broadcast: broadcast,
		tickers:   tickers,
		log:       log.With().Str("component", "game-engine").Logger(),
	}
}

// StartGame begins the quiz/move cycle for a room with exactly two seated
// players. Symbols are assigned by join order, permanently: first joiner
// plays X. Stale timers and wrong-answer state from a previous run are
// cleared first.
func (e *Engine) StartGame(ctx context.Context, roomCode string) {
	room, err := e.store.GetRoomByCode(ctx, roomCode)
	if err != nil {
		e.log.Debug().Err(err).Str("room", roomCode).Msg("startGame: room lookup failed")
		return
	}
	if len(room.Players) != domain.MaxPlayersPerRoom {
		e.log.Debug().Str("room", roomCode).Int("players", len(room.Players)).Msg("startGame: need exactly 2 players")
		return
	}

	sess := e.directory.Get(roomCode)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cancelTimersLocked()
	sess.resetQuestionLocked()

	room.Status = domain.StatusStarted
	if room.GameState == nil {
		room.GameState = domain.NewGameState()
	}
	if err := e.store.SaveGame(ctx, room); err != nil {
		e.log.Error().Err(err).Str("room", roomCode).Msg("startGame: save failed")
		return
	}

	e.broadcast.Broadcast(roomCode, EventGameStarted, gameStarted{
		Players:   room.Players,
		GameState: room.GameState,
	})
	e.broadcast.Broadcast(roomCode, EventSymbolAssigned, symbolAssigned{PlayerId: room.Players[0], Symbol: domain.SymbolX})
	e.broadcast.Broadcast(roomCode, EventSymbolAssigned, symbolAssigned{PlayerId: room.Players[1], Symbol: domain.SymbolO})

	e.log.Info().Str("room", roomCode).Msg("game started")

	e.scheduleAdvanceLocked(roomCode, sess, e.cfg.StartDelay)
}

// SubmitAnswer arbitrates one answer for the current question. The first
// correct answer cancels the countdown and unlocks the move phase for that
// player; a wrong answer grows the wrong-answer set, and once every seated
// player has missed, the reveal fires exactly as on timer expiry.
func (e *Engine) SubmitAnswer(ctx context.Context, roomCode, playerId, answer string, question domain.Question) {
	room, err := e.store.GetRoomByCode(ctx, roomCode)
	if err != nil {
		e.log.Debug().Err(err).Str("room", roomCode).Msg("submitAnswer: room lookup failed")
		return
	}
	slot := slices.Index(room.Players, playerId)
	if slot < 0 {
		e.log.Debug().Str("room", roomCode).Str("player", playerId).Msg("submitAnswer: player not seated")
		return
	}
	if room.Status != domain.StatusStarted {
		return
	}

	sess := e.directory.Get(roomCode)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Answers are only accepted in quiz-wait; once a player is unlocked the
	// question is settled.
	if sess.activePlayer != "" {
		return
	}
	// A player who already missed this question is not re-checked; the
	// idempotent set is the safety net against resubmission races.
	if sess.hasWrongAnswerLocked(playerId) {
		return
	}

	symbol := domain.SymbolForSlot(slot)

	if answer == question.CorrectAnswer {
		sess.cancelTimersLocked()
		sess.resetQuestionLocked()
		sess.activePlayer = playerId

		zero := 0
		e.broadcast.Broadcast(roomCode, EventQuizUpdate, quizUpdate{
			Question:      &question,
			ActivePlayer:  &playerId,
			TimeRemaining: &zero,
			WrongAnswers:  []string{},
			NextSymbol:    symbol,
		})

		if room.GameState == nil {
			room.GameState = domain.NewGameState()
		}
		room.GameState.CurrentTurn = symbol
		if err := e.store.SaveGame(ctx, room); err != nil {
			// The quiz unlock already went out; clients run ahead of storage
			// until the next successful save.
			e.log.Error().Err(err).Str("room", roomCode).Msg("submitAnswer: save failed")
			return
		}
		e.broadcast.Broadcast(roomCode, EventGameUpdate, gameUpdate{
			Board:       ReconstructBoard(room.GameState.Moves),
			CurrentTurn: symbol,
			Winner:      room.GameState.Winner,
			Moves:       room.GameState.Moves,
		})
		return
	}

	sess.wrongAnswers = append(sess.wrongAnswers, playerId)

	if len(sess.wrongAnswers) == len(room.Players) {
		// Everyone missed: reveal once and advance, same as timer expiry.
		sess.cancelTimersLocked()
		zero := 0
		e.broadcast.Broadcast(roomCode, EventQuizUpdate, quizUpdate{
			Question:      &question,
			ShowingAnswer: true,
			TimeRemaining: &zero,
			WrongAnswers:  wrongAnswersPayload(sess.wrongAnswers),
		})
		e.scheduleAdvanceLocked(roomCode, sess, e.cfg.RevealDelay)
		return
	}

	e.broadcast.Broadcast(roomCode, EventWrongAnswer, wrongAnswerUpdate{
		WrongAnswers: wrongAnswersPayload(sess.wrongAnswers),
	})
}

// MakeMove applies one move for the currently unlocked actor. The client may
// send its own symbol and winner hint; both are advisory only. The symbol is
// derived from join order and the outcome is always recomputed from the
// reconstructed board.
func (e *Engine) MakeMove(ctx context.Context, roomCode, playerId string, index int, clientSymbol, winnerHint string) {
	_ = clientSymbol
	_ = winnerHint

	room, err := e.store.GetRoomByCode(ctx, roomCode)
	if err != nil {
		e.log.Debug().Err(err).Str("room", roomCode).Msg("makeMove: room lookup failed")
		return
	}
	if room.Status != domain.StatusStarted {
		return
	}
	slot := slices.Index(room.Players, playerId)
	if slot < 0 {
		return
	}
	if index < 0 || index >= BoardCells {
		return
	}

	sess := e.directory.Get(roomCode)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Turn gate: only the player who won the quiz may move, exactly once.
	if sess.activePlayer != playerId {
		e.log.Debug().Str("room", roomCode).Str("player", playerId).Msg("makeMove: not the unlocked actor")
		return
	}

	if room.GameState == nil {
		room.GameState = domain.NewGameState()
	}
	if ReconstructBoard(room.GameState.Moves)[index] != "" {
		e.log.Debug().Str("room", roomCode).Int("index", index).Msg("makeMove: cell occupied")
		return
	}

	symbol := domain.SymbolForSlot(slot)
	room.GameState.Moves = append(room.GameState.Moves, domain.Move{
		Player:    playerId,
		Symbol:    symbol,
		Index:     index,
		Timestamp: time.Now().UTC(),
	})

	board := ReconstructBoard(room.GameState.Moves)
	outcome := EvaluateOutcome(board)

	room.GameState.Board = board
	room.GameState.Winner = outcome
	room.GameState.CurrentTurn = ""
	sess.activePlayer = ""

	if outcome != "" {
		room.Status = domain.StatusCompleted
		sess.cancelTimersLocked()
	}

	if err := e.store.SaveGame(ctx, room); err != nil {
		e.log.Error().Err(err).Str("room", roomCode).Msg("makeMove: save failed")
		return
	}

	e.broadcast.Broadcast(roomCode, EventGameUpdate, gameUpdate{
		Board:       board,
		CurrentTurn: "",
		Winner:      outcome,
		Moves:       room.GameState.Moves,
	})

	if outcome == "" {
		sess.cancelTimersLocked()
		sess.resetQuestionLocked()
		e.scheduleAdvanceLocked(roomCode, sess, e.cfg.MoveDelay)
		return
	}

	// Terminal: tell clients the quiz is over and drop the session.
	e.broadcast.Broadcast(roomCode, EventQuizUpdate, quizUpdate{
		WrongAnswers: []string{},
	})
	e.log.Info().Str("room", roomCode).Str("winner", outcome).Msg("game completed")
	e.directory.Purge(roomCode)
}
