package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCredentialStoreLifecycle(t *testing.T) {
	s := NewCredentialStore()
	if s.IsAuthenticated() {
		t.Fatalf("new store reports authenticated")
	}

	s.SetSession("bearer", "xsrf")
	if !s.IsAuthenticated() {
		t.Fatalf("store not authenticated after SetSession")
	}

	s.SetXsrf("xsrf2")
	creds, ok := s.Snapshot()
	if !ok || creds.Bearer != "bearer" || creds.Xsrf != "xsrf2" {
		t.Errorf("snapshot = %+v (valid=%v)", creds, ok)
	}

	s.Invalidate()
	if s.IsAuthenticated() {
		t.Fatalf("store authenticated after Invalidate")
	}
	creds, ok = s.Snapshot()
	if ok || creds.Bearer != "" || creds.Xsrf != "" {
		t.Errorf("tokens survived invalidation: %+v", creds)
	}
}

func TestBearerExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}

	s := NewCredentialStore()
	s.SetSession(signed, "xsrf")

	got, ok := s.BearerExpiry()
	if !ok {
		t.Fatalf("no expiry extracted from JWT bearer")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestBearerExpiryOpaqueToken(t *testing.T) {
	s := NewCredentialStore()
	s.SetSession("not-a-jwt", "xsrf")

	if _, ok := s.BearerExpiry(); ok {
		t.Errorf("opaque token reported an expiry")
	}
}
