package auth

import (
	"path/filepath"
	"testing"

	"github.com/nailscodev/backend/pkg/database"
	"go.uber.org/zap"
)

func TestHMACKeyRoundTrip(t *testing.T) {
	a := New("jwt-secret", "master-secret")
	key := a.GenerateHMACKey("salon-frontend")

	userID, err := a.VerifyHMACKey(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "salon-frontend" {
		t.Errorf("Expected salon-frontend, got %s", userID)
	}

	if _, err := New("jwt-secret", "other-secret").VerifyHMACKey(key); err == nil {
		t.Errorf("Expected a key signed with another secret to be rejected")
	}
	for _, bad := range []string{"", "nodot", ".sig", "a.b.c"} {
		if _, err := a.VerifyHMACKey(bad); err == nil {
			t.Errorf("Expected %q to be rejected", bad)
		}
	}
}

func TestToken(t *testing.T) {
	a := New("jwt-secret", "master-secret")
	token, err := a.CreateToken("admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("Expected admin, got %s", claims.Username)
	}
	if _, err := New("other", "master-secret").VerifyToken(token); err == nil {
		t.Errorf("Expected a token signed with another secret to be rejected")
	}
}

func TestEnsureAdminExists(t *testing.T) {
	db, err := database.Open("", filepath.Join(t.TempDir(), "auth.db"), true)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := EnsureAdminExists(db, "owner", "s3cret", zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EnsureAdminExists(db, "other", "ignored", zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var users []database.MasterUser
	db.Find(&users)
	if len(users) != 1 || users[0].Username != "owner" {
		t.Fatalf("Expected a single owner admin, got %+v", users)
	}
	if !CheckPasswordHash("s3cret", users[0].PasswordHash) {
		t.Errorf("Expected the stored hash to match")
	}
}

func TestKeyPreview(t *testing.T) {
	if got := KeyPreview("short"); got != "****" {
		t.Errorf("Expected ****, got %s", got)
	}
	if got := KeyPreview("salon.abcdef123456"); got != "sal...3456" {
		t.Errorf("Expected sal...3456, got %s", got)
	}
}
