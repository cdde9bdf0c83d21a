package votes

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// VoteStore is the persistence surface of the voting feature.
type VoteStore interface {
	ListVoteSessions(ctx context.Context) ([]domain.VoteSession, error)
	GetActiveVoteSession(ctx context.Context) (domain.VoteSession, error)
	CreateVoteSession(ctx context.Context, title, description string, teams []domain.Team) (domain.VoteSession, error)
	StartVoteSession(ctx context.Context, id string) (domain.VoteSession, error)
	EndVoteSession(ctx context.Context, id string) (domain.VoteSession, error)
	CastVote(ctx context.Context, sessionId, teamId, voterIp string) error
}

type Handler struct {
	store VoteStore
	log   zerolog.Logger
}

func NewHandler(store VoteStore, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log.With().Str("component", "votes-api").Logger()}
}

func (h *Handler) ListSessionsHandler(ctx *gin.Context) {
	sessions, err := h.store.ListVoteSessions(ctx.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list vote sessions")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching vote sessions"})
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

func (h *Handler) ActiveSessionHandler(ctx *gin.Context) {
	session, err := h.store.GetActiveVoteSession(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveVoteSession) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "No active voting session found"})
			return
		}
		h.log.Error().Err(err).Msg("get active vote session")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching active session"})
		return
	}
	ctx.JSON(http.StatusOK, session)
}

type createSessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Teams       []struct {
		Name       string `json:"name"`
		Candidates []struct {
			Name string `json:"name"`
		} `json:"candidates"`
	} `json:"teams"`
}

func (h *Handler) CreateSessionHandler(ctx *gin.Context) {
	var req createSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if len(req.Teams) != 2 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Exactly two teams are required"})
		return
	}
	if req.Title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		return
	}

	teams := make([]domain.Team, 0, len(req.Teams))
	for _, t := range req.Teams {
		team := domain.Team{Id: uuid.NewString(), Name: t.Name, Candidates: []domain.Candidate{}}
		for _, c := range t.Candidates {
			team.Candidates = append(team.Candidates, domain.Candidate{Id: uuid.NewString(), Name: c.Name})
		}
		teams = append(teams, team)
	}

	session, err := h.store.CreateVoteSession(ctx.Request.Context(), req.Title, req.Description, teams)
	if err != nil {
		h.log.Error().Err(err).Msg("create vote session")
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Error creating session"})
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

func (h *Handler) StartSessionHandler(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return
	}

	session, err := h.store.StartVoteSession(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVoteSessionNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		case errors.Is(err, domain.ErrActiveSessionExists):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Another voting session is already active"})
		default:
			h.log.Error().Err(err).Msg("start vote session")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error starting session"})
		}
		return
	}
	ctx.JSON(http.StatusOK, session)
}

func (h *Handler) EndSessionHandler(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return
	}

	session, err := h.store.EndVoteSession(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrVoteSessionNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
			return
		}
		h.log.Error().Err(err).Msg("end vote session")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error ending session"})
		return
	}
	ctx.JSON(http.StatusOK, session)
}

func (h *Handler) CastVoteHandler(ctx *gin.Context) {
	var req struct {
		SessionId string `json:"sessionId"`
		TeamId    string `json:"teamId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if _, err := uuid.Parse(req.SessionId); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No active voting session found"})
		return
	}

	err := h.store.CastVote(ctx.Request.Context(), req.SessionId, req.TeamId, voterIP(ctx))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVoteSessionNotFound), errors.Is(err, domain.ErrNoActiveVoteSession):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "No active voting session found"})
		case errors.Is(err, domain.ErrTeamNotFound):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Team not found"})
		case errors.Is(err, domain.ErrAlreadyVoted):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "You have already voted in this session"})
		default:
			h.log.Error().Err(err).Msg("cast vote")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error recording vote"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Vote recorded successfully"})
}

// voterIP resolves the voting client's address, preferring proxy headers so
// one vote per IP holds behind the usual reverse proxy setup.
func voterIP(ctx *gin.Context) string {
	if fwd := ctx.Request.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := ctx.Request.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return ctx.ClientIP()
}
