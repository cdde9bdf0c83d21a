package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// --- RoomStore (strict) ---

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) GetRoomByCode(ctx context.Context, roomCode string) (domain.Room, error) {
	args := m.Called(ctx, roomCode)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) SaveGame(ctx context.Context, room domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// --- RoomStore (stateful, for multi-step scenarios) ---

type fakeRoomStore struct {
	mu      sync.Mutex
	rooms   map[string]domain.Room
	saveErr error
	saves   int
}

func newFakeRoomStore(rooms ...domain.Room) *fakeRoomStore {
	s := &fakeRoomStore{rooms: make(map[string]domain.Room)}
	for _, r := range rooms {
		s.rooms[r.RoomCode] = deepCopyRoom(r)
	}
	return s
}

// deepCopyRoom keeps the store's documents isolated from engine-side
// mutation, like a real database would.
func deepCopyRoom(room domain.Room) domain.Room {
	data, err := json.Marshal(room)
	if err != nil {
		panic(err)
	}
	var copied domain.Room
	if err := json.Unmarshal(data, &copied); err != nil {
		panic(err)
	}
	return copied
}

func (s *fakeRoomStore) GetRoomByCode(_ context.Context, roomCode string) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomCode]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return deepCopyRoom(room), nil
}

func (s *fakeRoomStore) SaveGame(_ context.Context, room domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.rooms[room.RoomCode] = deepCopyRoom(room)
	s.saves++
	return nil
}

func (s *fakeRoomStore) room(roomCode string) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepCopyRoom(s.rooms[roomCode])
}

func (s *fakeRoomStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// --- Broadcaster recorder ---

type recordedEvent struct {
	Room    string
	Event   string
	Payload any
}

type broadcastRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *broadcastRecorder) Broadcast(roomCode, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Room: roomCode, Event: event, Payload: payload})
}

func (r *broadcastRecorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func (r *broadcastRecorder) ofType(event string) []recordedEvent {
	var matched []recordedEvent
	for _, e := range r.all() {
		if e.Event == event {
			matched = append(matched, e)
		}
	}
	return matched
}

func (r *broadcastRecorder) count(event string) int {
	return len(r.ofType(event))
}

func (r *broadcastRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// --- TickerFactory with hand-cranked time ---

type manualTickers struct {
	mu      sync.Mutex
	tickers []chan time.Time
	afters  []chan time.Time
}

func newManualTickers() *manualTickers {
	return &manualTickers{}
}

func (f *manualTickers) Ticker(time.Duration) (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time, 8)
	f.tickers = append(f.tickers, ch)
	return ch, func() {}
}

func (f *manualTickers) After(time.Duration) (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time, 1)
	f.afters = append(f.afters, ch)
	return ch, func() {}
}

func (f *manualTickers) tickerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *manualTickers) afterCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.afters)
}

// chanAt waits for the i-th channel of the requested kind to be registered.
// Chains create their channels from their own goroutines, so a fire call can
// legitimately run ahead of registration.
func (f *manualTickers) chanAt(afters bool, i int) chan time.Time {
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		list := f.tickers
		if afters {
			list = f.afters
		}
		if i < len(list) {
			ch := list[i]
			f.mu.Unlock()
			return ch
		}
		f.mu.Unlock()
		if time.Now().After(deadline) {
			panic("timer channel never registered")
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *manualTickers) fireTicker(i int) {
	f.chanAt(false, i) <- time.Now()
}

func (f *manualTickers) fireAfter(i int) {
	f.chanAt(true, i) <- time.Now()
}
