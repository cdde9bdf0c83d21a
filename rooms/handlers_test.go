package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) CreateRoom(ctx context.Context, roomCode string) (domain.Room, error) {
	args := m.Called(ctx, roomCode)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) GetRoomByCode(ctx context.Context, roomCode string) (domain.Room, error) {
	args := m.Called(ctx, roomCode)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomStore) SaveGame(ctx context.Context, room domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomStore) DeleteRoom(ctx context.Context, roomCode string) error {
	args := m.Called(ctx, roomCode)
	return args.Error(0)
}

func newRoomsRouter(store RoomStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(store, zerolog.Nop())
	r.POST("/api/rooms/create", h.CreateRoomHandler)
	r.GET("/api/rooms", h.ListRoomsHandler)
	r.POST("/api/rooms/join", h.JoinRoomHandler)
	r.DELETE("/api/rooms/remove-player", h.RemovePlayerHandler)
	r.DELETE("/api/rooms/delete", h.DeleteRoomHandler)
	r.POST("/api/rooms/start-game", h.StartGameHandler)
	r.GET("/api/rooms/:roomCode", h.GetRoomHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeRoomResponse(t *testing.T, w *httptest.ResponseRecorder) roomResponse {
	t.Helper()
	var res roomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestCreateRoomHandler(t *testing.T) {
	t.Parallel()

	t.Run("creates a room with a generated code", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		var generated string
		store.On("CreateRoom", mock.Anything, mock.MatchedBy(func(code string) bool {
			generated = code
			return len(code) == 6
		})).Return(domain.Room{RoomCode: "ABC123", Status: domain.StatusLobby}, nil).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/create", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		res := decodeRoomResponse(t, w)
		assert.True(t, res.Success)
		assert.Equal(t, "Room created successfully", res.Message)
		require.NotNil(t, res.Room)
		assert.Len(t, generated, 6)
		store.AssertExpectations(t)
	})

	t.Run("retries on a code collision", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("CreateRoom", mock.Anything, mock.Anything).
			Return(domain.Room{}, domain.ErrRoomCodeTaken).Once()
		store.On("CreateRoom", mock.Anything, mock.Anything).
			Return(domain.Room{RoomCode: "ABC123"}, nil).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/create", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("CreateRoom", mock.Anything, mock.Anything).
			Return(domain.Room{}, domain.ErrRoomCodeTaken).Times(3)

		w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/create", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error creating room", decodeRoomResponse(t, w).Message)
		store.AssertExpectations(t)
	})

	t.Run("does not retry on unexpected errors", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("CreateRoom", mock.Anything, mock.Anything).
			Return(domain.Room{}, domain.ErrUnexpectedDatabase).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/create", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		store.AssertExpectations(t)
	})
}

func TestListRoomsHandler(t *testing.T) {
	t.Parallel()
	store := &MockRoomStore{}
	store.On("ListRooms", mock.Anything).Return([]domain.Room{
		{RoomCode: "ABC123", Status: domain.StatusLobby},
		{RoomCode: "XYZ789", Status: domain.StatusStarted},
	}, nil).Once()

	w := doJSON(t, newRoomsRouter(store), http.MethodGet, "/api/rooms", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Success bool          `json:"success"`
		Rooms   []domain.Room `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Len(t, res.Rooms, 2)
}

func TestJoinRoomHandler(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name         string
		room         domain.Room
		getErr       error
		saveErr      error
		body         any
		wantCode     int
		wantMessage  string
		wantSaved    []string
		expectNoSave bool
	}

	tests := []testCase{
		{
			name:        "first player joins an empty room",
			room:        domain.Room{RoomCode: "ABC123", Status: domain.StatusLobby},
			body:        gin.H{"roomCode": "ABC123", "playerId": "alice"},
			wantCode:    http.StatusOK,
			wantMessage: "Joined room successfully",
			wantSaved:   []string{"alice"},
		},
		{
			name:        "second player fills the room",
			room:        domain.Room{RoomCode: "ABC123", Players: []string{"alice"}},
			body:        gin.H{"roomCode": "ABC123", "playerId": "bob"},
			wantCode:    http.StatusOK,
			wantMessage: "Joined room successfully",
			wantSaved:   []string{"alice", "bob"},
		},
		{
			name:         "full room rejects a third player",
			room:         domain.Room{RoomCode: "ABC123", Players: []string{"alice", "bob"}},
			body:         gin.H{"roomCode": "ABC123", "playerId": "carol"},
			wantCode:     http.StatusBadRequest,
			wantMessage:  "Room is full",
			expectNoSave: true,
		},
		{
			name:         "duplicate player name is rejected",
			room:         domain.Room{RoomCode: "ABC123", Players: []string{"alice"}},
			body:         gin.H{"roomCode": "ABC123", "playerId": "alice"},
			wantCode:     http.StatusBadRequest,
			wantMessage:  "Player name already exists in this room",
			expectNoSave: true,
		},
		{
			name:         "unknown room",
			getErr:       domain.ErrRoomNotFound,
			body:         gin.H{"roomCode": "NOPE42", "playerId": "alice"},
			wantCode:     http.StatusNotFound,
			wantMessage:  "Room not found",
			expectNoSave: true,
		},
		{
			name:        "save failure surfaces as a server error",
			room:        domain.Room{RoomCode: "ABC123"},
			saveErr:     errors.New("connection reset"),
			body:        gin.H{"roomCode": "ABC123", "playerId": "alice"},
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Error joining room",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := &MockRoomStore{}
			store.On("GetRoomByCode", mock.Anything, mock.Anything).Return(tc.room, tc.getErr)
			if !tc.expectNoSave {
				store.On("SaveGame", mock.Anything, mock.MatchedBy(func(room domain.Room) bool {
					return tc.wantSaved == nil || assert.ObjectsAreEqual(tc.wantSaved, room.Players)
				})).Return(tc.saveErr)
			}

			w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/join", tc.body)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantMessage, decodeRoomResponse(t, w).Message)
			if tc.expectNoSave {
				store.AssertNotCalled(t, "SaveGame", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestJoinRoomHandlerRejectsMalformedBody(t *testing.T) {
	t.Parallel()
	store := &MockRoomStore{}
	r := newRoomsRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/join", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "GetRoomByCode", mock.Anything, mock.Anything)
}

func TestRemovePlayerHandler(t *testing.T) {
	t.Parallel()
	store := &MockRoomStore{}
	store.On("GetRoomByCode", mock.Anything, "ABC123").
		Return(domain.Room{RoomCode: "ABC123", Players: []string{"alice", "bob"}}, nil).Once()
	store.On("SaveGame", mock.Anything, mock.MatchedBy(func(room domain.Room) bool {
		return assert.ObjectsAreEqual([]string{"alice"}, room.Players)
	})).Return(nil).Once()

	w := doJSON(t, newRoomsRouter(store), http.MethodDelete, "/api/rooms/remove-player",
		gin.H{"roomCode": "ABC123", "playerId": "bob"})

	assert.Equal(t, http.StatusOK, w.Code)
	res := decodeRoomResponse(t, w)
	assert.Equal(t, "Player removed successfully", res.Message)
	require.NotNil(t, res.Room)
	assert.Equal(t, []string{"alice"}, res.Room.Players)
	store.AssertExpectations(t)
}

func TestDeleteRoomHandler(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing room", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("DeleteRoom", mock.Anything, "ABC123").Return(nil).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodDelete, "/api/rooms/delete",
			gin.H{"roomCode": "ABC123"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Room deleted successfully", decodeRoomResponse(t, w).Message)
		store.AssertExpectations(t)
	})

	t.Run("unknown room is a 404", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("DeleteRoom", mock.Anything, "NOPE42").Return(domain.ErrRoomNotFound).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodDelete, "/api/rooms/delete",
			gin.H{"roomCode": "NOPE42"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStartGameHandler(t *testing.T) {
	t.Parallel()

	t.Run("starts a full room", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("GetRoomByCode", mock.Anything, "ABC123").
			Return(domain.Room{RoomCode: "ABC123", Players: []string{"alice", "bob"}, Status: domain.StatusLobby}, nil).Once()
		store.On("SaveGame", mock.Anything, mock.MatchedBy(func(room domain.Room) bool {
			return room.Status == domain.StatusStarted
		})).Return(nil).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/start-game",
			gin.H{"roomCode": "ABC123"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Game started successfully", decodeRoomResponse(t, w).Message)
		store.AssertExpectations(t)
	})

	t.Run("refuses to start without two players", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("GetRoomByCode", mock.Anything, "ABC123").
			Return(domain.Room{RoomCode: "ABC123", Players: []string{"alice"}}, nil).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodPost, "/api/rooms/start-game",
			gin.H{"roomCode": "ABC123"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Need exactly 2 players to start the game", decodeRoomResponse(t, w).Message)
		store.AssertNotCalled(t, "SaveGame", mock.Anything, mock.Anything)
	})
}

func TestGetRoomHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns the room document", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		state := domain.NewGameState()
		store.On("GetRoomByCode", mock.Anything, "ABC123").
			Return(domain.Room{RoomCode: "ABC123", Players: []string{"alice"}, Status: domain.StatusLobby, GameState: state}, nil).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodGet, "/api/rooms/ABC123", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		res := decodeRoomResponse(t, w)
		require.NotNil(t, res.Room)
		assert.Equal(t, "ABC123", res.Room.RoomCode)
		require.NotNil(t, res.Room.GameState)
		assert.Len(t, res.Room.GameState.Board, 9)
	})

	t.Run("unknown room is a 404", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("GetRoomByCode", mock.Anything, "NOPE42").
			Return(domain.Room{}, domain.ErrRoomNotFound).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodGet, "/api/rooms/NOPE42", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cancelled request context maps to 499", func(t *testing.T) {
		t.Parallel()
		store := &MockRoomStore{}
		store.On("GetRoomByCode", mock.Anything, "ABC123").
			Return(domain.Room{}, context.Canceled).Once()

		w := doJSON(t, newRoomsRouter(store), http.MethodGet, "/api/rooms/ABC123", nil)

		assert.Equal(t, 499, w.Code)
	})
}

func TestGenerateRoomCode(t *testing.T) {
	t.Parallel()
	for i := 0; i < 100; i++ {
		code := generateRoomCode()
		assert.Len(t, code, 6)
		for _, c := range code {
			isUpper := c >= 'A' && c <= 'Z'
			isDigit := c >= '0' && c <= '9'
			assert.True(t, isUpper || isDigit, "unexpected character %q in %q", c, code)
		}
	}
}
