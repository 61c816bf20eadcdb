package token

import (
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	s, err := Issue(secret, "user-123", "amina@example.com", "admin", time.Hour, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := Verify(s, secret, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UserID != "user-123" {
		t.Fatalf("user id mismatch: %q", got.UserID)
	}
	if got.Role != "admin" {
		t.Fatalf("role mismatch: %q", got.Role)
	}
}

func TestVerify_Expired(t *testing.T) {
	secret := "test_secret"
	now := time.Unix(1700000000, 0)

	s, err := Issue(secret, "user-123", "", "member", time.Minute, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Verify(s, secret, now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)

	s, err := Issue("secret-a", "user-123", "", "member", time.Hour, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Verify(s, "secret-b", now); err == nil {
		t.Fatalf("expected signature mismatch to fail verification")
	}
}
