package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectoryGetCreatesOncePerRoom(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	first := d.Get("ROOM01")
	second := d.Get("ROOM01")
	other := d.Get("ROOM02")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, d.Len())
}

func TestDirectoryPurgeDropsSession(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	stale := d.Get("ROOM01")
	d.Purge("ROOM01")
	assert.Equal(t, 0, d.Len())

	// A recreated room gets fresh state, not the purged session.
	fresh := d.Get("ROOM01")
	assert.NotSame(t, stale, fresh)
}

func TestCancelTimersInvalidatesScheduledCallbacks(t *testing.T) {
	t.Parallel()
	sess := &RoomSession{}

	sess.mu.Lock()
	sess.chain = newTimerChain()
	gen := sess.generation
	sess.cancelTimersLocked()
	sess.mu.Unlock()

	assert.NotEqual(t, gen, sess.generation)
	assert.Nil(t, sess.chain)

	// Cancelling with no live chain still bumps the generation.
	sess.mu.Lock()
	before := sess.generation
	sess.cancelTimersLocked()
	sess.mu.Unlock()
	assert.Equal(t, before+1, sess.generation)
}

func TestResetQuestionClearsArbitrationState(t *testing.T) {
	t.Parallel()
	sess := &RoomSession{}

	sess.mu.Lock()
	sess.wrongAnswers = []string{"alice", "bob"}
	sess.activePlayer = "alice"
	sess.resetQuestionLocked()
	hasAlice := sess.hasWrongAnswerLocked("alice")
	active := sess.activePlayer
	sess.mu.Unlock()

	assert.False(t, hasAlice)
	assert.Empty(t, active)
}
