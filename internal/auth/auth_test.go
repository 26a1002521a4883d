package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paigong/paigong/internal/config"
)

func testManager(ttl time.Duration) *Manager {
	return NewManager(&config.JWTConfig{
		Secret: "test-secret",
		Issuer: "paigong",
		TTL:    ttl,
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("Correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager(time.Hour)
	staffID := uuid.New()
	storeID := uuid.New()

	token, err := m.Issue(staffID, storeID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.StaffID != staffID.String() {
		t.Errorf("StaffID = %s, want %s", claims.StaffID, staffID)
	}
	if claims.StoreID != storeID.String() {
		t.Errorf("StoreID = %s, want %s", claims.StoreID, storeID)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-time.Minute)

	token, err := m.Issue(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Error("Expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := testManager(time.Hour)
	other := testManager(time.Hour)
	other.secret = []byte("different-secret")

	token, err := other.Issue(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Error("Token signed with wrong secret accepted")
	}
}
