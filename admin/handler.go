package admin

import (
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const cookieName = "admin_token"

// Handler is the admin console's password gate. There are no user accounts:
// a single argon2id-hashed password unlocks room deletion and vote session
// management.
type Handler struct {
	tokens       *TokenManager
	passwordHash string
	cookieMaxAge time.Duration
	log          zerolog.Logger
}

func NewHandler(tokens *TokenManager, passwordHash string, cookieMaxAge time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		tokens:       tokens,
		passwordHash: passwordHash,
		cookieMaxAge: cookieMaxAge,
		log:          log.With().Str("component", "admin-api").Logger(),
	}
}

func (h *Handler) LoginHandler(ctx *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.String(http.StatusBadRequest, "bad-request-format")
		return
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, h.passwordHash)
	if err != nil {
		h.log.Error().Err(err).Msg("password comparison failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}
	if !match {
		ctx.String(http.StatusUnauthorized, "invalid-credentials")
		return
	}

	token, err := h.tokens.Generate(time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("token generation failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}

	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(cookieName, token, int(h.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.Status(http.StatusOK)
}

func (h *Handler) LogoutHandler(ctx *gin.Context) {
	ctx.SetCookie(cookieName, "", -1, "/", "", true, true)
}

func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(cookieName)
		if err != nil {
			ctx.String(http.StatusUnauthorized, "missing-token")
			ctx.Abort()
			return
		}
		if err := h.tokens.Verify(token); err != nil {
			h.log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("admin token rejected")
			ctx.String(http.StatusUnauthorized, "invalid-token")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
