package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"riderDelivery/internal/config"
	"riderDelivery/internal/db"
	grpcserver "riderDelivery/internal/grpc"
	"riderDelivery/internal/httpapi"
	"riderDelivery/internal/ledger"
	"riderDelivery/internal/logging"
	"riderDelivery/internal/orders"
	"riderDelivery/internal/returns"
	"riderDelivery/internal/tracking"
	"riderDelivery/repository"
)

func main() {
	dev := flag.Bool("dev", false, "allow a built-in JWT secret (development only)")
	flag.Parse()

	load := config.Load
	if *dev {
		load = config.LoadWithDefaults
	}
	cfg, err := load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("open db", zap.Error(err), zap.String("path", cfg.Database.Path))
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Error("close db", zap.Error(err))
		}
	}()

	users := repository.NewUserRepository(d)
	riders := repository.NewRiderRepository(d)
	orderRepo := repository.NewOrderRepository(d)
	assignments := repository.NewAssignmentRepository(d)
	cod := repository.NewCODRepository(d)
	returnRepo := repository.NewReturnRepository(d)

	deps := grpcserver.Deps{
		Users:  users,
		Riders: riders,
		Orders: orders.NewService(orderRepo, assignments, riders,
			orders.Config{RadiusKm: cfg.Delivery.RadiusKm}, logger.Named("orders"), time.Now),
		Relay: tracking.NewRelay(orderRepo, assignments,
			tracking.Config{Freshness: cfg.Delivery.LocationFreshness, SpeedKmh: cfg.Delivery.RiderSpeedKmh}, logger.Named("tracking"), time.Now),
		Ledger: ledger.NewService(cod, orderRepo, riders,
			ledger.Config{BatchSize: cfg.Ledger.PayoutBatchSize}, logger.Named("ledger"), time.Now),
		Returns: returns.NewService(returnRepo, orderRepo, riders,
			returns.Config{Window: cfg.Returns.Window}, logger.Named("returns"), time.Now),
		Polling: cfg.Polling,
	}

	stopGRPC, err := grpcserver.StartGRPC(cfg, deps, logger.Named("grpc"))
	if err != nil {
		logger.Fatal("start grpc", zap.Error(err))
	}

	var httpSrv *http.Server
	if cfg.HTTP.Address != "" {
		gw := httpapi.New(users, deps.Orders, deps.Relay, deps.Returns, cfg.Polling, logger.Named("http"))
		httpSrv = &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           gw.Router(cfg.Auth.JWTSecret),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("http gateway listening", zap.String("addr", cfg.HTTP.Address))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http gateway stopped", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
	}
	if err := stopGRPC(shutdownCtx); err != nil {
		logger.Warn("grpc shutdown", zap.Error(err))
	}
}
