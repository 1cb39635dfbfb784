package auth

import (
	"context"
	"testing"
	"time"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
)

var testUser = domain.User{
	ID:            "5e0f7a4a-8d2c-49f4-95a8-3cbbc3f8f1a2",
	Email:         "owner@example.com",
	Role:          domain.RoleOwner,
	EmailVerified: true,
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	secret := []byte("unit-test-secret")
	iss := NewIssuer(secret, time.Hour)

	tok, err := iss.Issue(testUser, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := NewJWTVerifier(secret).Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != testUser.ID || id.Email != testUser.Email || id.Role != domain.RoleOwner || !id.EmailVerified {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerify_ExpiredIsDistinct(t *testing.T) {
	secret := []byte("unit-test-secret")
	iss := NewIssuer(secret, time.Minute)

	tok, err := iss.Issue(testUser, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = NewJWTVerifier(secret).Verify(context.Background(), tok)
	if !faults.IsKind(err, faults.KindTokenExpired) {
		t.Fatalf("expected token-expired fault, got %v", err)
	}
}

func TestVerify_GarbageAndWrongKey(t *testing.T) {
	v := NewJWTVerifier([]byte("right-key"))

	if _, err := v.Verify(context.Background(), "not-a-token"); !faults.IsKind(err, faults.KindUnauthenticated) {
		t.Fatalf("garbage token must be unauthenticated, got %v", err)
	}

	other := NewIssuer([]byte("wrong-key"), time.Hour)
	tok, err := other.Issue(testUser, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := v.Verify(context.Background(), tok); !faults.IsKind(err, faults.KindUnauthenticated) {
		t.Fatalf("wrong signature must be unauthenticated, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "hunter2hunter2" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword(h, "hunter2hunter2") {
		t.Fatalf("CheckPassword should accept the original")
	}
	if CheckPassword(h, "wrong") {
		t.Fatalf("CheckPassword should reject a wrong password")
	}
}
