package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func testSecret() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func newCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Secret: testSecret(), DefaultTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return c
}

func TestNewCodecValidation(t *testing.T) {
	if _, err := NewCodec(Config{DefaultTTL: time.Hour}); err == nil {
		t.Fatal("expected missing secret to be rejected")
	}
	if _, err := NewCodec(Config{Secret: testSecret()}); err == nil {
		t.Fatal("expected zero TTL to be rejected")
	}
	if _, err := NewCodec(Config{Secret: testSecret(), DefaultTTL: time.Hour, Leeway: 5 * time.Minute}); err == nil {
		t.Fatal("expected oversized leeway to be rejected")
	}
}

func TestIssueAndVerify(t *testing.T) {
	codec := newCodec(t)

	encoded, payload, err := codec.Issue(map[string]any{"sub": "U1", "aud": "session"}, 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if strings.Count(encoded, ".") != 2 {
		t.Fatalf("expected three-part token, got %q", encoded)
	}
	if payload.Subject != "U1" || payload.Audience != "session" {
		t.Fatalf("unexpected issue payload: %+v", payload)
	}
	if payload.ExpiresAt.Before(payload.IssuedAt) {
		t.Fatalf("expiry %v before issue %v", payload.ExpiresAt, payload.IssuedAt)
	}

	claims, err := codec.Verify(encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "U1" {
		t.Fatalf("sub = %q, want U1", claims.Subject)
	}
	if claims.Audience != "session" {
		t.Fatalf("aud = %q, want session", claims.Audience)
	}
	if claims.NotBefore.IsZero() || claims.IssuedAt.IsZero() {
		t.Fatalf("expected injected iat/nbf, got %+v", claims)
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := newCodec(t)

	encoded, _, err := codec.Issue(map[string]any{"sub": "U1"}, -10*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec.Verify(encoded)
	var verification *VerificationError
	if !errors.As(err, &verification) {
		t.Fatalf("expected VerificationError, got %v", err)
	}
	if verification.Reason != ReasonExpired {
		t.Fatalf("reason = %q, want expired", verification.Reason)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	codec := newCodec(t)
	other, err := NewCodec(Config{Secret: []byte("ffffffffffffffffffffffffffffffff"), DefaultTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}

	encoded, _, err := other.Issue(map[string]any{"sub": "U1"}, 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec.Verify(encoded)
	var verification *VerificationError
	if !errors.As(err, &verification) {
		t.Fatalf("expected VerificationError, got %v", err)
	}
	if verification.Reason != ReasonInvalid {
		t.Fatalf("reason = %q, want invalid", verification.Reason)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	codec := newCodec(t)

	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, gjwt.MapClaims{
		"sub": "U1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	encoded, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = codec.Verify(encoded)
	var verification *VerificationError
	if !errors.As(err, &verification) {
		t.Fatalf("expected VerificationError, got %v", err)
	}
	if verification.Reason != ReasonInvalid {
		t.Fatalf("alg=none must collapse to invalid, got %q", verification.Reason)
	}
}

func TestVerifyNotYetValidCollapsesToInvalid(t *testing.T) {
	codec := newCodec(t)

	future := time.Now().Add(time.Hour)
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "U1",
		"nbf": future.Unix(),
		"exp": future.Add(time.Hour).Unix(),
	})
	encoded, err := tok.SignedString(testSecret())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = codec.Verify(encoded)
	var verification *VerificationError
	if !errors.As(err, &verification) {
		t.Fatalf("expected VerificationError, got %v", err)
	}
	if verification.Reason != ReasonInvalid {
		t.Fatalf("reason = %q, want invalid", verification.Reason)
	}
	if verification.Detail != "token not yet valid" {
		t.Fatalf("detail = %q, want token not yet valid", verification.Detail)
	}
}

func TestDecodeWithoutVerification(t *testing.T) {
	codec := newCodec(t)
	other, err := NewCodec(Config{Secret: []byte("ffffffffffffffffffffffffffffffff"), DefaultTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}

	// Signed with a different secret: Verify rejects it, Decode does not.
	encoded, _, err := other.Issue(map[string]any{"sub": "U1", "email": "a@x.com"}, 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if claims.Subject != "U1" || claims.Email != "a@x.com" {
		t.Fatalf("unexpected decoded claims: %+v", claims)
	}
}

func TestDecodeMalformed(t *testing.T) {
	codec := newCodec(t)

	if _, err := codec.Decode("not-a-token"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
