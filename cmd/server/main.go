package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/config"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/database"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/handlers"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/logger"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/middleware"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/notify"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/services"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/telegram"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.BotToken == "" {
		zlog.Fatal("BOT_TOKEN is required")
	}
	if len(cfg.AdminChatIDs) == 0 {
		zlog.Fatal("ADMIN_CHAT_IDS is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("database connect", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("database migrate", zap.Error(err))
	}
	zlog.Info("database ready", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	hub := ws.NewHub(zlog)
	events := make(chan services.CompletionEvent, 64)

	store := services.NewCandidateStore(db)
	scorer := services.NewScoringService()
	decider := services.NewDecisionService()
	admins := services.NewAdminList(cfg.AdminChatIDs)
	interviewSvc := services.NewInterviewService(store, scorer, decider, admins, zlog, events)
	authService := services.NewAuthService(db, cfg.JWTSecret)

	client := telegram.NewClient(cfg.BotToken)
	updateHandler := telegram.NewUpdateHandler(client, interviewSvc, zlog)

	notifier := notify.New(client, hub, cfg.AdminChatIDs, zlog, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go notifier.Run(ctx)

	authHandler := handlers.NewAuthHandler(authService)
	candidateHandler := handlers.NewCandidateHandler(db)
	wsHandler := handlers.NewWSHandler(hub, zlog)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/results", wsHandler.HandleWebSocket)

	if cfg.WebhookBaseURL != "" {
		webhook := telegram.NewWebhook(client, updateHandler, cfg.WebhookSecret, zlog)
		path, err := webhook.Register(cfg.WebhookBaseURL)
		if err != nil {
			zlog.Fatal("register webhook", zap.Error(err))
		}
		defer webhook.Unregister()
		r.POST(path, webhook.HandleUpdate)
	} else {
		poller := telegram.NewPoller(client, updateHandler, cfg.PollTimeout, zlog)
		go poller.Run(ctx)
	}

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		candidates := api.Group("/candidates")
		candidates.Use(middleware.JWTAuth(authService))
		{
			candidates.GET("", candidateHandler.ListCandidates)
			candidates.GET("/stats", candidateHandler.GetStats)
			candidates.GET("/export", candidateHandler.ExportResults)
			candidates.GET("/:id", candidateHandler.GetCandidate)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	zlog.Info("server starting", zap.String("port", cfg.ServerPort))
	serve(ctx, srv, zlog)
	zlog.Info("server stopped")
}

// serve blocks until the listener fails or ctx is cancelled, then
// drains in-flight requests before returning so main's deferred
// cleanup (webhook deregistration, log sync) still runs.
func serve(ctx context.Context, srv *http.Server, zlog *zap.Logger) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
}
