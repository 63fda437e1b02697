package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/config"
	"github.com/fluxpos/warehouse-service/internal/auth"
	"github.com/fluxpos/warehouse-service/internal/cache"
	"github.com/fluxpos/warehouse-service/internal/database"
	"github.com/fluxpos/warehouse-service/internal/logger"

	locH "github.com/fluxpos/warehouse-service/internal/location/handler"
	locRepoPkg "github.com/fluxpos/warehouse-service/internal/location/repository"
	locUCPkg "github.com/fluxpos/warehouse-service/internal/location/usecase"

	lotH "github.com/fluxpos/warehouse-service/internal/lot/handler"
	lotRepoPkg "github.com/fluxpos/warehouse-service/internal/lot/repository"
	lotUCPkg "github.com/fluxpos/warehouse-service/internal/lot/usecase"

	serialH "github.com/fluxpos/warehouse-service/internal/serial/handler"
	serialRepoPkg "github.com/fluxpos/warehouse-service/internal/serial/repository"
	serialUCPkg "github.com/fluxpos/warehouse-service/internal/serial/usecase"

	stockH "github.com/fluxpos/warehouse-service/internal/stock/handler"
	stockRepoPkg "github.com/fluxpos/warehouse-service/internal/stock/repository"
	stockUCPkg "github.com/fluxpos/warehouse-service/internal/stock/usecase"

	resH "github.com/fluxpos/warehouse-service/internal/reservation/handler"
	resListenerPkg "github.com/fluxpos/warehouse-service/internal/reservation/listener"
	resUCPkg "github.com/fluxpos/warehouse-service/internal/reservation/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&cfg.Logger)
	defer appLogger.Sync()

	if err := database.Migrate(&cfg.Postgres); err != nil {
		appLogger.Fatal("could not apply migrations", zap.Error(err))
	}

	db, err := database.NewPostgres(&cfg.Postgres)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to postgres", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		appLogger.Warn("could not connect to redis, lot cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	reorderThreshold, err := decimal.NewFromString(cfg.Inventory.ReorderThreshold)
	if err != nil {
		appLogger.Fatal("invalid reorder threshold", zap.String("value", cfg.Inventory.ReorderThreshold))
	}

	// Repositories
	locRepo := locRepoPkg.NewPGRepository(db)
	lotRepo := lotRepoPkg.NewPGRepository(db)
	serialRepo := serialRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)

	// UseCases
	locUC := locUCPkg.NewLocationUseCase(locRepo, appLogger)
	lotUC := lotUCPkg.NewLotUseCase(lotRepo, redisClient, appLogger)
	serialUC := serialUCPkg.NewSerialUseCase(serialRepo, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, reorderThreshold, appLogger)
	resUC := resUCPkg.NewReservationUseCase(stockRepo, appLogger)

	// Sales event intake
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer reader.Close()

	salesListener := resListenerPkg.NewSalesListener(reader, resUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go salesListener.Start(ctx)

	// HTTP layer
	router := mux.NewRouter()
	router.Use(auth.Middleware)

	locH.NewLocationHandler(locUC, appLogger).RegisterRoutes(router)
	lotH.NewLotHandler(lotUC, appLogger).RegisterRoutes(router)
	serialH.NewSerialHandler(serialUC, appLogger).RegisterRoutes(router)
	stockH.NewStockHandler(stockUC, appLogger).RegisterRoutes(router)
	resH.NewReservationHandler(resUC, appLogger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLogger.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
