package security

import (
	"bytes"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	secret := []byte("0123456789abcdef0123456789abcdef")

	session, err := DeriveKey(secret, "session", 32)
	if err != nil {
		t.Fatalf("DeriveKey(session) returned error: %v", err)
	}
	again, err := DeriveKey(secret, "session", 32)
	if err != nil {
		t.Fatalf("DeriveKey(session) returned error: %v", err)
	}
	share, err := DeriveKey(secret, "share", 32)
	if err != nil {
		t.Fatalf("DeriveKey(share) returned error: %v", err)
	}

	if len(session) != 32 {
		t.Fatalf("DeriveKey len = %d, want 32", len(session))
	}
	if !bytes.Equal(session, again) {
		t.Fatal("DeriveKey must be deterministic")
	}
	if bytes.Equal(session, share) {
		t.Fatal("DeriveKey must separate purposes")
	}
	if bytes.Equal(session, secret) {
		t.Fatal("DeriveKey must not return the secret")
	}
}

func TestDeriveKeyRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := DeriveKey(nil, "session", 32); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := DeriveKey([]byte("secret"), "session", 0); err == nil {
		t.Fatal("expected error for zero size")
	}
}
