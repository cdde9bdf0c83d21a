package realtime

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	hub      *Hub
	engine   Engine
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(hub *Hub, engine Engine, allowedOrigins []string, log zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
		log: log.With().Str("component", "ws-handler").Logger(),
	}
}

// ServeWS upgrades the request and hands the connection to its pumps.
func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}

	client := NewClient(h.hub, h.engine, newGorillaConn(conn), h.log)
	h.log.Debug().Str("ip", ctx.ClientIP()).Msg("ws client connected")
	go client.Run()
}
