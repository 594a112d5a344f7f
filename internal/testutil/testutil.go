package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/metadata"

	"riderDelivery/internal/db"
	"riderDelivery/models"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The name must be unique per test; the DB is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// GenerateJWTHS256 returns a signed JWT string with minimal claims used by the app.
func GenerateJWTHS256(t *testing.T, secret, name, kind string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"name": name,
		"kind": kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// CtxWithBearer returns a context containing gRPC metadata Authorization header with the given token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}

// OutgoingBearer attaches the token to an outgoing client call.
func OutgoingBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

// Clock is a settable time source for services under test.
type Clock struct {
	T time.Time
}

// NewClock starts a clock at a fixed UTC instant.
func NewClock() *Clock {
	return &Clock{T: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Dec parses a decimal literal or fails the test.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

// Shop and Home are fixed points about 2.2 km apart used across tests.
var (
	Shop = models.Coordinates{Lat: 41.3111, Lng: 69.2797}
	Home = models.Coordinates{Lat: 41.3311, Lng: 69.2797}
)

// NewOrder returns an unsaved order priced at total with a consistent pricing snapshot.
func NewOrder(t *testing.T, customerID int64, method models.PaymentMethod, total string) *models.Order {
	t.Helper()
	tot := Dec(t, total)
	shipping := decimal.NewFromInt(10)
	if tot.LessThan(shipping) {
		shipping = decimal.Zero
	}
	return &models.Order{
		CustomerID:           customerID,
		ItemsPrice:           tot.Sub(shipping),
		ShippingPrice:        shipping,
		ShippingExtraPrice:   decimal.Zero,
		CouponDiscountAmount: decimal.Zero,
		TotalPrice:           tot,
		PaymentMethod:        method,
		DeliverySpeed:        models.SpeedNormal,
		ShopLat:              Shop.Lat,
		ShopLng:              Shop.Lng,
		ShippingLat:          Home.Lat,
		ShippingLng:          Home.Lng,
	}
}

// Fixture holds seeded ids.
type Fixture struct {
	CustomerID int64
	AdminID    int64
	RiderID    int64
	Rider2ID   int64
}

// Seed creates a customer "alice", an admin "root" and riders "rider1"/"rider2".
func Seed(t *testing.T, d *sql.DB) Fixture {
	t.Helper()
	ctx := context.Background()
	var f Fixture
	mustExec := func(q string, args ...any) int64 {
		res, err := d.ExecContext(ctx, q, args...)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		id, _ := res.LastInsertId()
		return id
	}
	f.CustomerID = mustExec(`INSERT INTO users (username, role) VALUES ('alice', 'customer')`)
	f.AdminID = mustExec(`INSERT INTO users (username, role) VALUES ('root', 'admin')`)
	f.RiderID = mustExec(`INSERT INTO riders (username, name, village, phone, home_lat, home_lng) VALUES ('rider1', 'Bekzod Karimov', 'Chilonzor', '+998901112233', ?, ?)`, Shop.Lat, Shop.Lng)
	f.Rider2ID = mustExec(`INSERT INTO riders (username, name, village, phone, home_lat, home_lng) VALUES ('rider2', 'Dilnoza Rashidova', 'Yunusobod', '+998907778899', ?, ?)`, Shop.Lat, Shop.Lng)
	return f
}
