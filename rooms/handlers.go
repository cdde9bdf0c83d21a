package rooms

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// RoomStore is the persistence surface of the room lifecycle API.
type RoomStore interface {
	CreateRoom(ctx context.Context, roomCode string) (domain.Room, error)
	GetRoomByCode(ctx context.Context, roomCode string) (domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	SaveGame(ctx context.Context, room domain.Room) error
	DeleteRoom(ctx context.Context, roomCode string) error
}

const createRetries = 3

type Handler struct {
	store RoomStore
	log   zerolog.Logger
}

func NewHandler(store RoomStore, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log.With().Str("component", "rooms-api").Logger()}
}

type roomResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Room    *domain.Room `json:"room,omitempty"`
}

func (h *Handler) CreateRoomHandler(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()

	for attempt := 0; attempt < createRetries; attempt++ {
		room, err := h.store.CreateRoom(reqCtx, generateRoomCode())
		if err == nil {
			ctx.JSON(http.StatusCreated, roomResponse{Success: true, Message: "Room created successfully", Room: &room})
			return
		}
		if errors.Is(err, domain.ErrRoomCodeTaken) {
			continue
		}
		h.log.Error().Err(err).Msg("create room")
		break
	}
	ctx.JSON(http.StatusInternalServerError, roomResponse{Success: false, Message: "Error creating room"})
}

func (h *Handler) ListRoomsHandler(ctx *gin.Context) {
	rooms, err := h.store.ListRooms(ctx.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list rooms")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching rooms"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

func (h *Handler) JoinRoomHandler(ctx *gin.Context) {
	var req struct {
		RoomCode string `json:"roomCode"`
		PlayerId string `json:"playerId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Error joining room"})
		return
	}

	reqCtx := ctx.Request.Context()
	room, err := h.store.GetRoomByCode(reqCtx, req.RoomCode)
	if err != nil {
		h.respondRoomError(ctx, err, "Error joining room")
		return
	}
	if len(room.Players) >= domain.MaxPlayersPerRoom {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Room is full"})
		return
	}
	if slices.Contains(room.Players, req.PlayerId) {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Player name already exists in this room"})
		return
	}

	room.Players = append(room.Players, req.PlayerId)
	if err := h.store.SaveGame(reqCtx, room); err != nil {
		h.respondRoomError(ctx, err, "Error joining room")
		return
	}

	ctx.JSON(http.StatusOK, roomResponse{Success: true, Message: "Joined room successfully", Room: &room})
}

func (h *Handler) RemovePlayerHandler(ctx *gin.Context) {
	var req struct {
		RoomCode string `json:"roomCode"`
		PlayerId string `json:"playerId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Error removing player"})
		return
	}

	reqCtx := ctx.Request.Context()
	room, err := h.store.GetRoomByCode(reqCtx, req.RoomCode)
	if err != nil {
		h.respondRoomError(ctx, err, "Error removing player")
		return
	}

	room.Players = slices.DeleteFunc(room.Players, func(p string) bool { return p == req.PlayerId })
	if err := h.store.SaveGame(reqCtx, room); err != nil {
		h.respondRoomError(ctx, err, "Error removing player")
		return
	}

	ctx.JSON(http.StatusOK, roomResponse{Success: true, Message: "Player removed successfully", Room: &room})
}

func (h *Handler) DeleteRoomHandler(ctx *gin.Context) {
	var req struct {
		RoomCode string `json:"roomCode"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Error deleting room"})
		return
	}

	if err := h.store.DeleteRoom(ctx.Request.Context(), req.RoomCode); err != nil {
		h.respondRoomError(ctx, err, "Error deleting room")
		return
	}
	ctx.JSON(http.StatusOK, roomResponse{Success: true, Message: "Room deleted successfully"})
}

// StartGameHandler flips the room status over HTTP. The real-time start event
// is what kicks off the quiz cycle; this endpoint exists for the admin
// console's room list.
func (h *Handler) StartGameHandler(ctx *gin.Context) {
	var req struct {
		RoomCode string `json:"roomCode"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Error starting game"})
		return
	}

	reqCtx := ctx.Request.Context()
	room, err := h.store.GetRoomByCode(reqCtx, req.RoomCode)
	if err != nil {
		h.respondRoomError(ctx, err, "Error starting game")
		return
	}
	if len(room.Players) != domain.MaxPlayersPerRoom {
		ctx.JSON(http.StatusBadRequest, roomResponse{Success: false, Message: "Need exactly 2 players to start the game"})
		return
	}

	room.Status = domain.StatusStarted
	if err := h.store.SaveGame(reqCtx, room); err != nil {
		h.respondRoomError(ctx, err, "Error starting game")
		return
	}

	ctx.JSON(http.StatusOK, roomResponse{Success: true, Message: "Game started successfully", Room: &room})
}

func (h *Handler) GetRoomHandler(ctx *gin.Context) {
	room, err := h.store.GetRoomByCode(ctx.Request.Context(), ctx.Param("roomCode"))
	if err != nil {
		h.respondRoomError(ctx, err, "Error fetching room")
		return
	}
	ctx.JSON(http.StatusOK, roomResponse{Success: true, Room: &room})
}

func (h *Handler) respondRoomError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		ctx.JSON(http.StatusNotFound, roomResponse{Success: false, Message: "Room not found"})
	case errors.Is(err, context.Canceled):
		ctx.Status(499)
	case errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusGatewayTimeout, roomResponse{Success: false, Message: message})
	default:
		h.log.Error().Err(err).Msg(message)
		ctx.JSON(http.StatusInternalServerError, roomResponse{Success: false, Message: message})
	}
}
