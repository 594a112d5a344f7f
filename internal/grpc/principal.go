package grpcserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"riderDelivery/internal/auth"
	"riderDelivery/models"
)

// currentCustomer resolves the calling customer's users row.
func (d Deps) currentCustomer(ctx context.Context) (*models.User, error) {
	p, err := auth.RequireCustomer(ctx)
	if err != nil {
		return nil, err
	}
	u, err := d.Users.GetByUsername(ctx, p.Name)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user: %v", err)
	}
	if u == nil {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	return u, nil
}

// currentRider resolves the calling rider's profile.
func (d Deps) currentRider(ctx context.Context) (*models.Rider, error) {
	p, err := auth.RequireRider(ctx)
	if err != nil {
		return nil, err
	}
	rd, err := d.Riders.GetByUsername(ctx, p.Name)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get rider: %v", err)
	}
	if rd == nil {
		return nil, status.Error(codes.NotFound, "rider not found")
	}
	return rd, nil
}

func (d Deps) requireAdmin(ctx context.Context) (*models.User, error) {
	_, u, err := auth.RequireAdmin(ctx, d.Users)
	return u, err
}
