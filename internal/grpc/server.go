package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/internal/auth"
	"riderDelivery/internal/config"
	"riderDelivery/internal/ledger"
	"riderDelivery/internal/orders"
	"riderDelivery/internal/returns"
	"riderDelivery/internal/tracking"
	"riderDelivery/repository"
)

const healthService = "/grpc.health.v1.Health"

// Deps are the services behind the gRPC API.
type Deps struct {
	Users   repository.UserRepositoryI
	Riders  repository.RiderRepositoryI
	Orders  *orders.Service
	Relay   *tracking.Relay
	Ledger  *ledger.Service
	Returns *returns.Service
	Polling config.PollingConfig
}

// NewServer builds a gRPC server with the customer, rider and admin services and the
// standard health service. Calls are logged, then authenticated; health checks skip auth.
func NewServer(d Deps, secret string, log *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(
		NewLoggingInterceptor(log),
		auth.NewUnaryAuthInterceptor(secret, healthService),
	))
	srv := grpc.NewServer(opts...)

	deliveryv1.RegisterCustomerServiceServer(srv, &CustomerServer{Deps: d})
	deliveryv1.RegisterRiderServiceServer(srv, &RiderServer{Deps: d})
	deliveryv1.RegisterAdminServiceServer(srv, &AdminServer{Deps: d})

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range []string{
		deliveryv1.CustomerService_ServiceDesc.ServiceName,
		deliveryv1.RiderService_ServiceDesc.ServiceName,
		deliveryv1.AdminService_ServiceDesc.ServiceName,
	} {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC listens on cfg.GRPC.Address and serves in the background. The returned
// function stops the server gracefully, or forcibly once ctx ends.
func StartGRPC(cfg *config.Config, d Deps, log *zap.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}
	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := NewServer(d, cfg.Auth.JWTSecret, log)
	go func() {
		if err := srv.Serve(lis); err != nil {
			log.Error("grpc server stopped", zap.Error(err))
		}
	}()
	log.Info("grpc listening", zap.String("addr", lis.Addr().String()))

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func pollMs(d time.Duration) int64 { return d.Milliseconds() }
