package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewJWTStrategy_DefaultTTL(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	if strategy == nil {
		t.Fatal("expected strategy instance")
	}
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestNewJWTStrategy_CustomTTL(t *testing.T) {
	ttl := 2 * time.Hour
	strategy := NewJWTStrategy("secret", Options{TTL: ttl})
	if strategy.ttl != ttl {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestJWTStrategy_IssueAndParse(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	userID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestJWTStrategy_ParseGarbage(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	if _, err := strategy.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_ParseForeignSecret(t *testing.T) {
	issuerStrategy := NewJWTStrategy("other", Options{TTL: time.Minute})
	token, err := issuerStrategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	strategy := NewJWTStrategy("secret", Options{})
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_ParseExpired(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: time.Minute})
	strategy.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := strategy.IssueToken(10)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	strategy.now = time.Now
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_RejectsOtherAlgorithms(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "10",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_ParseInvalidSubject(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTStrategy_Name(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	if strategy.Name() != "jwt" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}
