package main

import (
	"context"
	"embed"
	"fmt"

	"guardianearth/internal/cmd/cloudinary"
	"guardianearth/internal/cmd/mailer"
	"guardianearth/internal/cmd/stripe"
	"guardianearth/internal/cmd/users"
	"guardianearth/internal/config"
	"guardianearth/internal/repository/postgres"
	handlers "guardianearth/internal/transport/http"
	"guardianearth/internal/transport/ws"
	"guardianearth/internal/usecase/service"
	db "guardianearth/utils/connector"
	log "guardianearth/utils/logger"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Errorf("Failed to load config: %v", err))
	}

	logger := log.NewLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()

	dbConn, err := db.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
	}

	defer func() {
		if dbConn != nil {
			dbConn.Close()
			logger.Info("Database connection closed")
		}
	}()

	if err := db.MigratePostgres(ctx, dbConn, logger, migrations); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	rdb := db.InitRedis(cfg, logger)
	defer rdb.Close()

	gateway := stripe.New(cfg)
	storage := cloudinary.New(cfg)
	notifier := mailer.New(cfg)
	directory := users.New(cfg)

	hub := ws.NewHub(logger)
	go hub.Run()

	repo := postgres.NewPaymentRepository(dbConn, rdb, logger)
	svc := service.NewPaymentService(repo, logger, gateway, storage, notifier, directory, hub, cfg)

	paymentHandler := handlers.NewPaymentHandler(svc, logger)
	router := handlers.NewRouter(paymentHandler, hub)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info(fmt.Sprintf("Starting HTTP server on %s", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
