package internal

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"gadget-server/internal/config"
	"gadget-server/internal/managers"
	"gadget-server/internal/routing"
	"gadget-server/internal/utils"
)

const (
	envFile         = ".env"
	shutdownTimeout = 10 * time.Second
)

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	utils.SetupLogging(cfg.LogLevel, cfg.LogFile, cfg.ServiceName)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	databaseMgr, err := managers.ConnectDatabase(ctx, cfg)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer databaseMgr.Close()

	// Initialize mail manager
	mailMgr := managers.NewMailManager(cfg)

	// Initialize JWT manager
	jwtMgr, err := managers.NewJWTManagerFromFile(cfg.KeyPairPath, cfg.ServiceName)
	if err != nil {
		log.Fatal("Error initializing JWT manager: ", err)
	}

	// Initialize media manager
	mediaMgr, err := managers.NewMediaManager(ctx, cfg)
	if err != nil {
		log.Fatal("Error initializing media manager: ", err)
	}

	// Initialize token manager and sweep expired tokens until shutdown
	tokenMgr := managers.NewTokenManager(databaseMgr.Tokens(), mailMgr, cfg)
	go tokenMgr.SweepExpired(ctx, cfg.TokenSweepInterval)

	// Initialize router
	r := routing.InitRouter(cfg, databaseMgr, mailMgr, jwtMgr, mediaMgr, tokenMgr)
	log.Info("Initialized router")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server: ", err)
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server: ", err)
	}
}
