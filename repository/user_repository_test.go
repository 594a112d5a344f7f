package repository

import (
	"context"
	"errors"
	"testing"

	"riderDelivery/internal/testutil"
	"riderDelivery/models"
)

func TestUserRepository_AccountsAndRoles(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo")
	repo := NewUserRepository(d)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Role != models.RoleCustomer {
		t.Fatalf("unexpected created user: %+v", u)
	}
	if _, err := repo.Create(ctx, "alice", models.RoleCustomer); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("duplicate username: want ErrValidation, got %v", err)
	}
	if _, err := repo.Create(ctx, "", models.RoleCustomer); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("empty username: want ErrValidation, got %v", err)
	}

	root, err := repo.Create(ctx, "root", models.RoleAdmin)
	if err != nil || !root.IsAdmin() {
		t.Fatalf("create admin: %v %+v", err, root)
	}

	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil || byID == nil || byID.Username != "alice" {
		t.Fatalf("get by id: %v %+v", err, byID)
	}

	if err := repo.SetRole(ctx, "alice", models.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	byName, err := repo.GetByUsername(ctx, "alice")
	if err != nil || !byName.IsAdmin() {
		t.Fatalf("role not updated: %v %+v", err, byName)
	}
	if err := repo.SetRole(ctx, "nobody", models.RoleAdmin); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}

	missing, err := repo.GetByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing user, got: %+v err=%v", missing, err)
	}
}
