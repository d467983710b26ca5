package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-please-rotate"

func TestTokens_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := NewTokens(testSecret, 30*time.Minute)

	signed, issued, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if issued.ID == "" {
		t.Error("issued token should carry a jti")
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.Subject)
	}
	if claims.ID != issued.ID {
		t.Errorf("expected jti %s, got %s", issued.ID, claims.ID)
	}
}

func TestTokens_Expired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens(testSecret, -1*time.Minute)

	signed, _, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := tokens.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	t.Parallel()

	signed, _, err := NewTokens(testSecret, time.Minute).Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	other := NewTokens("a-different-secret", time.Minute)
	if _, err := other.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokens_Malformed(t *testing.T) {
	t.Parallel()

	tokens := NewTokens(testSecret, time.Minute)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestTokens_MissingSubject(t *testing.T) {
	t.Parallel()

	// Hand-sign a token without a subject claim. It must be rejected as
	// invalid rather than treated as anonymous.
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-no-subject",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tokens := NewTokens(testSecret, time.Minute)
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestTokens_MissingExpiry(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-123",
			ID:      "jti-no-exp",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tokens := NewTokens(testSecret, time.Minute)
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestTokens_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	tokens := NewTokens(testSecret, time.Minute)
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
