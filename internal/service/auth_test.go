package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alnotes/alnotes/internal/model"
)

func TestAuthServiceJWTRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", false, time.Hour)

	identity := &model.Identity{ID: "amara@example.com", Name: "Amara"}
	token, err := svc.GenerateJWT(identity)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	got, err := svc.VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if got.ID != identity.ID || got.Name != identity.Name {
		t.Errorf("VerifyJWT returned %+v, expected %+v", got, identity)
	}
	if got.AccessToken != "" {
		t.Error("provider access token leaked into the session token")
	}
}

func TestAuthServiceVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewAuthService("secret-a", false, time.Hour)
	verifier := NewAuthService("secret-b", false, time.Hour)

	token, err := signer.GenerateJWT(&model.Identity{ID: "amara@example.com"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := verifier.VerifyJWT(token); err == nil {
		t.Fatal("VerifyJWT accepted a token signed with a different secret")
	}
}

func TestAuthServiceVerifyRejectsTampering(t *testing.T) {
	svc := NewAuthService("test-secret", false, time.Hour)

	token, err := svc.GenerateJWT(&model.Identity{ID: "amara@example.com"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + ".eyJzdWIiOiJldmlsQGV4YW1wbGUuY29tIn0." + parts[2]

	if _, err := svc.VerifyJWT(tampered); err == nil {
		t.Fatal("VerifyJWT accepted a tampered payload")
	}
}

func TestAuthServiceVerifyRejectsExpired(t *testing.T) {
	svc := NewAuthService("test-secret", false, -time.Minute)

	token, err := svc.GenerateJWT(&model.Identity{ID: "amara@example.com"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := svc.VerifyJWT(token); err == nil {
		t.Fatal("VerifyJWT accepted an expired token")
	}
}

// Tokens signed with "none" must never verify, whatever the claims say.
func TestAuthServiceVerifyRejectsUnsignedAlg(t *testing.T) {
	svc := NewAuthService("test-secret", false, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "evil@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	if _, err := svc.VerifyJWT(token); err == nil {
		t.Fatal("VerifyJWT accepted an unsigned token")
	}
}

func TestAuthServiceVerifyRejectsMissingSubject(t *testing.T) {
	svc := NewAuthService("test-secret", false, time.Hour)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := anonymous.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := svc.VerifyJWT(token); err == nil {
		t.Fatal("VerifyJWT accepted a token without a subject")
	}
}

func TestAuthServiceCookieFlags(t *testing.T) {
	svc := NewAuthService("test-secret", true, time.Hour)

	rec := httptest.NewRecorder()
	svc.SetJWTCookie(rec, "token-value", time.Now().Add(time.Hour))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("SetJWTCookie set %d cookies, expected 1", len(cookies))
	}

	cookie := cookies[0]
	if cookie.Name != "auth_token" {
		t.Errorf("cookie name = %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if !cookie.Secure {
		t.Error("session cookie is not Secure in production")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie SameSite = %v, expected Lax", cookie.SameSite)
	}
}

func TestAuthServiceClearCookie(t *testing.T) {
	svc := NewAuthService("test-secret", false, time.Hour)

	rec := httptest.NewRecorder()
	svc.ClearJWTCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("ClearJWTCookie set %d cookies, expected 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Value != "" {
		t.Errorf("cleared cookie still has value %q", cookie.Value)
	}
	if !cookie.Expires.Before(time.Now()) {
		t.Error("cleared cookie does not expire in the past")
	}
}
