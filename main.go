package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoofix/config"
	"hoofix/handlers"
	"hoofix/middleware"
	"hoofix/routes"
	"hoofix/services/api"
	"hoofix/services/dashboard"
	"hoofix/services/notification"
	"hoofix/services/realtime"
	"hoofix/services/session"
	"hoofix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthInterval = 30 * time.Second

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	zap.ReplaceGlobals(logger)
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Credential slot.
	var creds session.CredentialStore = session.NewMemoryStore()
	var checks []utils.HealthCheck
	if config.UsesRedisCredentials() {
		rdb := utils.GetSessionCacheClient()
		redisStore := session.NewRedisStore(rdb, cfg.CredentialSlot, cfg.SessionTTL)
		if cfg.CredentialKey != "" {
			sealer, err := session.NewSealer(cfg.CredentialKey)
			if err != nil {
				logger.Sugar().Fatalf("main: credential key: %v", err)
			}
			redisStore.WithSealer(sealer)
		}
		creds = redisStore
		checks = append(checks, utils.RedisCheck("redis", rdb))
	}

	client := api.NewClient(cfg.APIBaseURL, creds, logger, api.WithTimeout(cfg.HTTPTimeout))
	checks = append(checks, utils.HealthCheck{
		Name: "backend",
		Probe: func(ctx context.Context) error {
			_, err := client.ServiceCatalog(ctx)
			return err
		},
	})

	// System push is optional; without it new service requests only show in page.
	var pushSender notification.PushSender
	if cfg.PushEnabled {
		messagingClient, err := utils.NewMessagingClient(rootCtx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Sugar().Warnf("main: system push disabled: %v", err)
		} else {
			pushSender = messagingClient
		}
	}

	manager := dashboard.NewManager(rootCtx, dashboard.ManagerConfig{
		Realtime: realtime.Config{
			URL:            cfg.RealtimeURL,
			Mode:           realtime.ParseJoinMode(cfg.RealtimeJoinMode),
			ReconnectDelay: cfg.RealtimeReconnectDelay,
		},
		Controller: dashboard.Options{
			LoginPath:    cfg.LoginPath,
			Currency:     cfg.Currency,
			CheckoutName: cfg.CheckoutName,
		},
		PushSender:      pushSender,
		PushDeviceToken: cfg.PushDeviceToken,
	}, client, logger)
	defer manager.Close()

	utils.StartHealthMonitor(rootCtx, healthInterval, checks)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := handlers.NewHandlerBundle(manager, handlers.NewHealthHandler(manager))
	routes.RegisterRoutes(router, handlerBundle)

	// Restore a session left in the credential slot by a previous run.
	if ctrl, err := manager.Current(rootCtx); err == nil {
		logger.Info("main: restored session", zap.String("identity", ctrl.Identity().ID))
	} else {
		manager.Latch().Take()
	}

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	stop()

	logger.Sugar().Info("main: server stopped gracefully")
}
