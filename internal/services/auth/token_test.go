package auth

import (
	"errors"
	"testing"
	"time"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/config"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
)

func testService(secret string, ttlHours int) *Service {
	return NewService(nil, config.AuthConfig{
		JWTSecret:     secret,
		TokenTTLHours: ttlHours,
	}, logger.New("auth-test"))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testService("test-secret", 1)
	user := &models.User{
		ID:       "user-1",
		Username: "budi",
		Role:     models.RoleKasir,
	}

	token, err := svc.issueToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", claims.UserID)
	}
	if claims.Username != "budi" {
		t.Errorf("username = %q, want budi", claims.Username)
	}
	if claims.Role != models.RoleKasir {
		t.Errorf("role = %q, want kasir", claims.Role)
	}
	if claims.ExpiresAt <= time.Now().Unix() {
		t.Error("token must expire in the future")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := testService("secret-a", 1)
	verifier := testService("secret-b", 1)

	token, err := issuer.issueToken(&models.User{ID: "u", Username: "x", Role: models.RoleStaff})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.ParseToken(token); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	svc := testService("secret", 1)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ParseToken(token); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("ParseToken(%q) err = %v, want ErrInvalidCredentials", token, err)
		}
	}
}

func TestParseToken_Expired(t *testing.T) {
	svc := testService("secret", -1)

	token, err := svc.issueToken(&models.User{ID: "u", Username: "x", Role: models.RoleStaff})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := svc.ParseToken(token); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}
