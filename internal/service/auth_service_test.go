package service

import (
	"context"
	"errors"
	"testing"

	"github.com/evalarena/arena-backend/internal/config"
)

func newAuthFixture() (AuthService, *fakeUserRepo) {
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     1,
		RefreshExpiry: 1,
	}
	repo := newFakeUserRepo()
	return NewAuthService(cfg, repo), repo
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, access, refresh, err := svc.Register(ctx, "Asha", "asha@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" || access == "" || refresh == "" {
		t.Fatalf("Register returned empty identifiers")
	}

	// Duplicate registration
	if _, _, _, err := svc.Register(ctx, "Asha", "asha@example.com", "password123"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate Register: err = %v, want ErrUserExists", err)
	}

	// Login round trip
	loggedIn, _, _, err := svc.Login(ctx, "asha@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Login returned user %s, want %s", loggedIn.ID, user.ID)
	}

	if _, _, _, err := svc.Login(ctx, "asha@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthTokenCarriesUserID(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, access, _, err := svc.Register(ctx, "Asha", "asha@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	gotID, err := svc.GetUserIDFromToken(token)
	if err != nil {
		t.Fatalf("GetUserIDFromToken failed: %v", err)
	}
	if gotID != user.ID {
		t.Errorf("token subject = %s, want %s", gotID, user.ID)
	}

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Errorf("ValidateToken accepted garbage")
	}
}

func TestAuthRefreshRotation(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	_, _, refresh, err := svc.Register(ctx, "Asha", "asha@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	access2, refresh2, err := svc.RefreshToken(ctx, refresh)
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh did not rotate the token")
	}

	// The old token is single use
	if _, _, err := svc.RefreshToken(ctx, refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("reused refresh token: err = %v, want ErrInvalidToken", err)
	}

	// Logout revokes the current token
	if err := svc.Logout(ctx, refresh2); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, _, err := svc.RefreshToken(ctx, refresh2); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh after logout: err = %v, want ErrInvalidToken", err)
	}

	if len(repo.tokens) != 0 {
		t.Errorf("%d refresh tokens left after rotation and logout, want 0", len(repo.tokens))
	}
}
