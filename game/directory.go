package game

import "sync"

// RoomSession holds a room's transient orchestration state: the wrong-answer
// set for the current question, the live timer chain and the unlocked actor.
// None of it is persisted; a process restart loses it and an in-flight quiz
// phase cannot resume until a new start event arrives.
//
// All fields are guarded by mu. Event handlers and timer callbacks lock mu
// for the whole step, so per room every step runs to completion before the
// next one starts, while independent rooms never block each other.
type RoomSession struct {
	mu sync.Mutex

	// generation is bumped every time the timer set is cancelled. Callbacks
	// carry the generation they were scheduled under and are dropped on
	// mismatch, so a callback from a cancelled chain can never mutate state
	// even if it was already past its stop check.
	generation uint64

	chain        *timerChain
	wrongAnswers []string
	activePlayer string
}

// cancelTimersLocked stops the current timer chain and invalidates every
// callback scheduled under the old generation. Callers must hold mu.
func (s *RoomSession) cancelTimersLocked() {
	if s.chain != nil {
		s.chain.cancel()
		s.chain = nil
	}
	s.generation++
}

// resetQuestionLocked clears per-question arbitration state. Callers must
// hold mu.
func (s *RoomSession) resetQuestionLocked() {
	s.wrongAnswers = nil
	s.activePlayer = ""
}

func (s *RoomSession) hasWrongAnswerLocked(playerId string) bool {
	for _, id := range s.wrongAnswers {
		if id == playerId {
			return true
		}
	}
	return false
}

// Directory is the process-wide table of per-room session state, keyed by
// room code. Its lifecycle is tied to rooms, not connections.
type Directory struct {
	mu       sync.Mutex
	sessions map[string]*RoomSession
}

func NewDirectory() *Directory {
	return &Directory{sessions: make(map[string]*RoomSession)}
}

// Get looks up the session for a room code, creating it on first use.
func (d *Directory) Get(roomCode string) *RoomSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[roomCode]
	if !ok {
		sess = &RoomSession{}
		d.sessions[roomCode] = sess
	}
	return sess
}

// Purge drops a room's session. Outstanding timer callbacks still hold the
// session pointer but fail their generation check, so purging is safe while
// chains are winding down.
func (d *Directory) Purge(roomCode string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, roomCode)
}

func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}
