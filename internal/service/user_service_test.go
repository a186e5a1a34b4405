package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"crypto-dash/internal/repository"
)

func newTestUserService() *UserService {
	store := repository.NewMemoryStore()
	limiter := NewRateLimiterWithClock(15*time.Minute, 100, time.Now)
	return NewUserService(zap.NewNop(), store, store, limiter)
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "Alice@Example.com", "Passw0rd!", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Language != "fr" || created.Timezone != "UTC" || created.Theme != "dark" {
		t.Fatalf("unexpected defaults: %+v", created)
	}
	if !created.Notifications.PriceAlerts || created.Notifications.PushNotifications {
		t.Fatalf("unexpected notification defaults: %+v", created.Notifications)
	}
	if created.Privacy.ProfileVisibility != "private" {
		t.Fatalf("unexpected privacy default: %+v", created.Privacy)
	}

	authed, err := svc.Authenticate(ctx, "alice@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != created.ID {
		t.Fatalf("expected same user id, got %q and %q", created.ID, authed.ID)
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	// La unicidad de email no distingue mayúsculas.
	if _, err := svc.Register(ctx, "ALICE@example.com", "Passw0rd!", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_RegisterGeneratesUsername(t *testing.T) {
	svc := newTestUserService()

	user, err := svc.Register(context.Background(), "bob@example.com", "Passw0rd!", "  ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.HasPrefix(user.Username, "user") || len(user.Username) != len("user0000") {
		t.Fatalf("expected generated username, got %q", user.Username)
	}
}

func TestUserService_RegisterWeakPassword(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.Register(context.Background(), "alice@example.com", "short", "")
	var policyErr *PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}
	if len(policyErr.Errors) == 0 {
		t.Fatalf("expected policy violations")
	}
}

func TestUserService_AuthenticateIndistinguishableFailures(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPw := svc.Authenticate(ctx, "alice@example.com", "WrongPw1!")
	_, unknown := svc.Authenticate(ctx, "nobody@example.com", "Passw0rd!")
	if !errors.Is(wrongPw, ErrInvalidCredentials) || !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", wrongPw, unknown)
	}
}

func TestUserService_AuthenticateRateLimited(t *testing.T) {
	store := repository.NewMemoryStore()
	limiter := NewRateLimiterWithClock(15*time.Minute, 2, time.Now)
	svc := NewUserService(zap.NewNop(), store, store, limiter)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc.Authenticate(ctx, "alice@example.com", "WrongPw1!")
	svc.Authenticate(ctx, "alice@example.com", "WrongPw1!")
	if _, err := svc.Authenticate(ctx, "alice@example.com", "Passw0rd!"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestUserService_PasswordNeverSerialized(t *testing.T) {
	svc := newTestUserService()

	user, err := svc.Register(context.Background(), "alice@example.com", "Passw0rd!", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected stored hash on domain value")
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(strings.ToLower(string(data)), "password") {
		t.Fatalf("serialized user leaks password material: %s", data)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bio := "  hodler  "
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Bio != "hodler" {
		t.Fatalf("expected trimmed bio, got %q", updated.Bio)
	}
	if !updated.UpdatedAt.After(user.UpdatedAt) && !updated.UpdatedAt.Equal(user.UpdatedAt) {
		t.Fatalf("expected refreshed updatedAt")
	}
	if updated.Username != "alice" {
		t.Fatalf("untouched fields must survive, got %+v", updated)
	}

	if _, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{}); !errors.Is(err, ErrNoUpdates) {
		t.Fatalf("expected ErrNoUpdates, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "missing", ProfileUpdate{Bio: &bio}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateSettings(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	theme := "light"
	push := true
	visibility := "public"
	updated, err := svc.UpdateSettings(ctx, user.ID, SettingsUpdate{
		Theme:             &theme,
		PushNotifications: &push,
		ProfileVisibility: &visibility,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.Theme != "light" || !updated.Notifications.PushNotifications {
		t.Fatalf("settings not applied: %+v", updated)
	}
	if updated.Privacy.ProfileVisibility != "public" {
		t.Fatalf("visibility not applied: %+v", updated.Privacy)
	}

	bad := "everyone"
	if _, err := svc.UpdateSettings(ctx, user.ID, SettingsUpdate{ProfileVisibility: &bad}); !errors.Is(err, ErrInvalidVisibility) {
		t.Fatalf("expected ErrInvalidVisibility, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.ChangePassword(ctx, user.ID, "WrongPw1!", "NewPassw0rd!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if _, err := svc.ChangePassword(ctx, user.ID, "Passw0rd!", "weak"); err == nil {
		t.Fatalf("expected weak new password to be rejected")
	}

	if _, err := svc.ChangePassword(ctx, user.ID, "Passw0rd!", "NewPassw0rd!"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice@example.com", "NewPassw0rd!"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice@example.com", "Passw0rd!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
}

func TestUserService_Favorites(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "Passw0rd!", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	fav, err := svc.AddFavorite(ctx, user.ID, "BTC", "Bitcoin")
	if err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if fav.Symbol != "btc" {
		t.Fatalf("expected normalized symbol, got %q", fav.Symbol)
	}

	// La unicidad (userId, symbol) no distingue mayúsculas.
	if _, err := svc.AddFavorite(ctx, user.ID, "btc", "Bitcoin"); !errors.Is(err, ErrFavoriteExists) {
		t.Fatalf("expected ErrFavoriteExists, got %v", err)
	}

	list, err := svc.ListFavorites(ctx, user.ID)
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if len(list) != 1 || list[0].Symbol != "btc" {
		t.Fatalf("unexpected favorites: %+v", list)
	}

	removed, err := svc.RemoveFavorite(ctx, user.ID, "BTC")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = svc.RemoveFavorite(ctx, user.ID, "doesnotexist")
	if err != nil {
		t.Fatalf("removal of absent favorite must not error: %v", err)
	}
	if removed {
		t.Fatalf("expected removed=false for absent favorite")
	}
}
