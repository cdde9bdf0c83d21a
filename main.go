package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/admin"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/game"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/migrations"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/realtime"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/rooms"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/storage"
	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/votes"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })
	r.GET("/", func(ctx *gin.Context) { ctx.String(http.StatusOK, "Tic-Tac-Toe Backend is Running!") })

	corsConfig := cors.Config{
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}
	if slices.Contains(allowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsConfig))

	return r
}

func main() {
	godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("GIN_MODE") != "release" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	postgresURL, exists := os.LookupEnv("POSTGRES_URL")
	if !exists {
		logger.Fatal().Msg("missing POSTGRES_URL")
	}
	jwtKey, exists := os.LookupEnv("JWT_KEY")
	if !exists {
		logger.Fatal().Msg("missing JWT_KEY")
	}
	adminPasswordHash, exists := os.LookupEnv("ADMIN_PASSWORD_HASH")
	if !exists {
		logger.Fatal().Msg("missing ADMIN_PASSWORD_HASH")
	}

	allowedOrigins := []string{"*"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	if err := migrations.Migrate(postgresURL); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	logger.Info().Msg("migrations applied")

	repo, err := storage.NewPostgresRepo(context.Background(), postgresURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer repo.Close()

	r := CreateServer(allowedOrigins)

	adminTokenAge := 12 * time.Hour
	adminHandler := admin.NewHandler(admin.NewTokenManager(jwtKey, adminTokenAge), adminPasswordHash, adminTokenAge, logger)
	{
		adminGroup := r.Group("/api/admin")
		adminGroup.POST("/login", adminHandler.LoginHandler)
		adminGroup.POST("/logout", adminHandler.LogoutHandler)
	}

	roomHandler := rooms.NewHandler(repo, logger)
	{
		roomGroup := r.Group("/api/rooms")
		roomGroup.POST("/create", roomHandler.CreateRoomHandler)
		roomGroup.GET("", roomHandler.ListRoomsHandler)
		roomGroup.POST("/join", roomHandler.JoinRoomHandler)
		roomGroup.DELETE("/remove-player", roomHandler.RemovePlayerHandler)
		roomGroup.DELETE("/delete", adminHandler.RequireAdmin(), roomHandler.DeleteRoomHandler)
		roomGroup.POST("/start-game", roomHandler.StartGameHandler)
		roomGroup.GET("/:roomCode", roomHandler.GetRoomHandler)
	}

	voteHandler := votes.NewHandler(repo, logger)
	{
		apiGroup := r.Group("/api")
		apiGroup.GET("/vote-sessions", voteHandler.ListSessionsHandler)
		apiGroup.GET("/vote-sessions/active", voteHandler.ActiveSessionHandler)
		apiGroup.POST("/vote-sessions", adminHandler.RequireAdmin(), voteHandler.CreateSessionHandler)
		apiGroup.PATCH("/vote-sessions/:id/start", adminHandler.RequireAdmin(), voteHandler.StartSessionHandler)
		apiGroup.PATCH("/vote-sessions/:id/end", adminHandler.RequireAdmin(), voteHandler.EndSessionHandler)
		apiGroup.POST("/votes", voteHandler.CastVoteHandler)
	}

	hub := realtime.NewHub(logger)
	engine := game.NewEngine(
		game.DefaultConfig(),
		repo,
		game.NewQuestionBank(game.DefaultQuestions()),
		game.NewDirectory(),
		hub,
		game.NewTickerFactory(),
		logger,
	)
	wsHandler := realtime.NewHandler(hub, engine, allowedOrigins, logger)
	r.GET("/ws", wsHandler.ServeWS)

	logger.Info().Str("port", port).Msg("server listening")
	if err := r.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
