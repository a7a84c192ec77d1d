package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smart-farm-monitor/internal/config"
	"smart-farm-monitor/internal/control"
	"smart-farm-monitor/internal/infrastructure/database/postgres"
	"smart-farm-monitor/internal/ingestion"
	"smart-farm-monitor/internal/logger"
	"smart-farm-monitor/internal/routes"
	userUsecase "smart-farm-monitor/internal/usecase/user"
	"smart-farm-monitor/pkg/mqtt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	userRepo := postgres.NewUserRepository(db)
	farmRepo := postgres.NewFarmRepository(db)
	telemetryRepo := postgres.NewTelemetryRepository(db)
	userService := userUsecase.NewService(userRepo, farmRepo, telemetryRepo, cfg)

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := userService.MigrateLegacyPasswords(migrateCtx); err != nil {
		logger.Error("Legacy password migration failed", zap.Error(err))
	}
	migrateCancel()

	mqttClient := mqtt.NewClient(&mqtt.Config{
		BrokerURL:            cfg.MQTT.BrokerURL,
		ClientID:             cfg.MQTT.ClientID,
		Username:             cfg.MQTT.Username,
		Password:             cfg.MQTT.Password,
		CleanSession:         true,
		KeepAlive:            cfg.MQTT.KeepAlive,
		ConnectTimeout:       cfg.MQTT.ConnectTimeout,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})
	if err := mqttClient.Connect(); err != nil {
		// The REST API still serves without a broker; device control
		// reports the broker as unavailable until it reconnects.
		logger.Error("Failed to connect to MQTT broker", zap.Error(err))
	}
	defer mqttClient.Disconnect()

	stateStore := control.NewStateStore()
	bridge := control.NewBridge(stateStore, mqttClient, cfg.MQTT.ControlTopic, byte(cfg.MQTT.QoS))

	processor := ingestion.NewProcessor(
		telemetryRepo,
		cfg.Ingestion.BatchSize,
		cfg.Ingestion.WorkerCount,
		cfg.Ingestion.BufferSize,
		time.Duration(cfg.Ingestion.BatchTimeoutSeconds)*time.Second,
	)
	processor.Start()
	defer processor.Stop()

	subscriber, err := ingestion.NewSubscriber(mqttClient, processor, cfg.MQTT.SensorTopic, byte(cfg.MQTT.QoS))
	if err != nil {
		logger.Fatal("Failed to create telemetry subscriber", zap.Error(err))
	}
	if err := subscriber.Start(); err != nil {
		logger.Error("Failed to subscribe to telemetry topic", zap.Error(err))
	}
	defer subscriber.Stop()

	router := routes.SetupRoutes(cfg, db, bridge)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "5000"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
