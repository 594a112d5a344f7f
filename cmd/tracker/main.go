// Command tracker follows one order the way the customer app does: it polls the
// order detail and the rider's live location until the order is finished.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	deliveryv1 "riderDelivery/api/deliveryv1"
	"riderDelivery/internal/logging"
	"riderDelivery/internal/poller"
	"riderDelivery/models"
)

// grpcSource polls the CustomerService.
type grpcSource struct {
	client deliveryv1.CustomerServiceClient
}

func (s grpcSource) OrderDetail(ctx context.Context, orderID int64) (*models.OrderDetail, error) {
	resp, err := s.client.GetOrder(ctx, &deliveryv1.OrderIDRequest{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return resp.Detail, nil
}

func (s grpcSource) LiveLocation(ctx context.Context, orderID int64) (*models.LiveLocation, error) {
	resp, err := s.client.GetLiveLocation(ctx, &deliveryv1.OrderIDRequest{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return resp.Location, nil
}

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC server address")
	orderID := flag.Int64("order", 0, "order id to follow")
	token := flag.String("token", os.Getenv("TRACKER_TOKEN"), "customer bearer token (default $TRACKER_TOKEN)")
	orderEvery := flag.Duration("order-interval", 15*time.Second, "order detail poll interval")
	locationEvery := flag.Duration("location-interval", 10*time.Second, "live location poll interval; 0 disables")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, err := logging.New(*level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if *orderID <= 0 || *token == "" {
		logger.Fatal("both -order and -token are required")
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("dial", zap.Error(err), zap.String("addr", *addr))
	}
	defer conn.Close()

	c, err := poller.New(poller.Config{OrderPollInterval: *orderEvery, LocationPollInterval: *locationEvery},
		grpcSource{client: deliveryv1.NewCustomerServiceClient(conn)}, *orderID, poller.Handlers{
			Order: func(d *models.OrderDetail) {
				logger.Info("order",
					zap.Int64("order_id", d.Order.ID),
					zap.String("status", string(d.Order.DeliveryStatus)),
					zap.Bool("paid", d.Paid),
					zap.Bool("cancelable", d.Cancelable),
				)
			},
			Location: func(l *models.LiveLocation) {
				fields := []zap.Field{zap.String("state", string(l.State)), zap.String("phase", string(l.Phase))}
				if l.ETAMinutes != nil {
					fields = append(fields, zap.Int("eta_min", *l.ETAMinutes))
				}
				logger.Info("location", fields...)
			},
			Error: func(kind string, err error) {
				logger.Warn("poll failed", zap.String("kind", kind), zap.Error(err))
			},
		})
	if err != nil {
		logger.Fatal("poller", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+*token)

	if err := c.Run(ctx); err != nil {
		logger.Info("tracking stopped", zap.Error(err))
		return
	}
	if last := c.Last().Order; last != nil {
		logger.Info("order finished", zap.String("status", string(last.Order.DeliveryStatus)))
	}
}
