package grpcserver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"riderDelivery/internal/apperr"
)

const requestIDHeader = "x-request-id"

// NewLoggingInterceptor logs every unary call with a request id and converts domain
// errors to gRPC status errors. Expected outcomes (conflicts, validation) log at debug.
func NewLoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		id := incomingRequestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id))

		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", id),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			st := apperr.ToStatus(err)
			apperr.Log(log, "grpc call failed", err, append(fields, zap.String("code", apperr.Code(err).String()))...)
			return nil, st
		}
		log.Debug("grpc call", fields...)
		return resp, nil
	}
}

func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(requestIDHeader); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
