package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-dash/internal/domain"
)

func TestMemoryStore_Users(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := store.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, domain.User{ID: "u2", Email: "Alice@Example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := store.GetByEmail(ctx, "ALICE@EXAMPLE.COM")
	if err != nil || got.ID != "u1" {
		t.Fatalf("get by email: %+v %v", got, err)
	}
	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	user.Bio = "updated"
	if err := store.Update(ctx, user); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.GetByID(ctx, "u1")
	if got.Bio != "updated" {
		t.Fatalf("update not applied: %+v", got)
	}
	if err := store.Update(ctx, domain.User{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Favorites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, domain.Favorite{ID: "f1", UserID: "u1", Symbol: "eth"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(ctx, domain.Favorite{ID: "f2", UserID: "u1", Symbol: "ETH"}); !errors.Is(err, ErrDuplicateFavorite) {
		t.Fatalf("expected ErrDuplicateFavorite, got %v", err)
	}
	// El mismo símbolo en otro usuario no es duplicado.
	if err := store.Add(ctx, domain.Favorite{ID: "f3", UserID: "u2", Symbol: "eth"}); err != nil {
		t.Fatalf("add for other user: %v", err)
	}

	list, err := store.ListByUser(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}

	removed, err := store.Remove(ctx, "u1", "eth")
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	removed, err = store.Remove(ctx, "u1", "doesnotexist")
	if err != nil || removed {
		t.Fatalf("absent removal must be false without error, got removed=%v err=%v", removed, err)
	}
}
