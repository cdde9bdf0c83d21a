package game

import (
	"sync"
	"time"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// timerChain is the cancellable handle for one question's countdown and its
// chained reveal/advance steps. A room holds at most one live chain; starting
// a new question replaces and cancels the previous one.
type timerChain struct {
	stop chan struct{}
	once sync.Once
}

func newTimerChain() *timerChain {
	return &timerChain{stop: make(chan struct{})}
}

func (c *timerChain) cancel() {
	c.once.Do(func() { close(c.stop) })
}

// startQuestionChainLocked replaces the room's timer chain with a fresh
// countdown for q. The initial remaining-time broadcast goes out
// synchronously, then the chain goroutine takes over. Callers must hold
// sess.mu.
func (e *Engine) startQuestionChainLocked(roomCode string, sess *RoomSession, q domain.Question) {
	sess.cancelTimersLocked()
	chain := newTimerChain()
	sess.chain = chain
	gen := sess.generation

	e.broadcast.Broadcast(roomCode, EventTimerUpdate, timerUpdate{TimeRemaining: e.cfg.QuestionSeconds})

	go e.runQuestionChain(roomCode, sess, chain, gen, q)
}

// scheduleAdvanceLocked replaces the room's timer chain with a single delayed
// advance to a freshly drawn question. Used for the post-start, post-reveal
// and post-move delays. Callers must hold sess.mu.
func (e *Engine) scheduleAdvanceLocked(roomCode string, sess *RoomSession, delay time.Duration) {
	sess.cancelTimersLocked()
	chain := newTimerChain()
	sess.chain = chain
	gen := sess.generation

	go func() {
		wait, release := e.tickers.After(delay)
		defer release()
		select {
		case <-chain.stop:
			return
		case <-wait:
		}
		e.advanceQuestion(roomCode, sess, gen)
	}()
}

func (e *Engine) runQuestionChain(roomCode string, sess *RoomSession, chain *timerChain, gen uint64, q domain.Question) {
	ticks, release := e.tickers.Ticker(time.Second)
	defer release()

	remaining := e.cfg.QuestionSeconds
	for remaining > 0 {
		select {
		case <-chain.stop:
			return
		case <-ticks:
		}
		remaining--
		if remaining > 0 {
			if !e.timerTick(roomCode, sess, gen, remaining) {
				return
			}
		}
	}

	if !e.revealAnswer(roomCode, sess, gen, q) {
		return
	}

	wait, releaseWait := e.tickers.After(e.cfg.RevealDelay)
	defer releaseWait()
	select {
	case <-chain.stop:
		return
	case <-wait:
	}
	e.advanceQuestion(roomCode, sess, gen)
}

// timerTick broadcasts the remaining time for one tick. Returns false if the
// chain was cancelled in the meantime.
func (e *Engine) timerTick(roomCode string, sess *RoomSession, gen uint64, remaining int) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.generation != gen {
		return false
	}
	e.broadcast.Broadcast(roomCode, EventTimerUpdate, timerUpdate{TimeRemaining: remaining})
	return true
}

// revealAnswer fires the reveal sub-phase broadcast at countdown zero.
func (e *Engine) revealAnswer(roomCode string, sess *RoomSession, gen uint64, q domain.Question) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.generation != gen {
		return false
	}
	zero := 0
	e.broadcast.Broadcast(roomCode, EventQuizUpdate, quizUpdate{
		Question:      &q,
		ShowingAnswer: true,
		TimeRemaining: &zero,
		WrongAnswers:  wrongAnswersPayload(sess.wrongAnswers),
	})
	return true
}

// advanceQuestion clears per-question state, draws the next question and
// restarts the countdown.
func (e *Engine) advanceQuestion(roomCode string, sess *RoomSession, gen uint64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.generation != gen {
		return
	}
	sess.resetQuestionLocked()

	next := e.bank.Draw()
	full := e.cfg.QuestionSeconds
	e.broadcast.Broadcast(roomCode, EventQuizUpdate, quizUpdate{
		Question:      &next,
		TimeRemaining: &full,
		WrongAnswers:  []string{},
	})
	e.startQuestionChainLocked(roomCode, sess, next)
}
