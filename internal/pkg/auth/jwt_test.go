package auth

import (
	"testing"
	"time"

	"github.com/sylo-hq/sylo-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Sylo Backend"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-for-hs256",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(42, 7, "jdoe", "manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken error: %v", err)
	}
	if claims.UserID != 42 || claims.BusinessID != 7 {
		t.Fatalf("unexpected identity claims: user=%d business=%d", claims.UserID, claims.BusinessID)
	}
	if claims.Username != "jdoe" || claims.Role != "manager" {
		t.Fatalf("unexpected profile claims: username=%s role=%s", claims.Username, claims.Role)
	}
	if claims.TokenType != "access" {
		t.Fatalf("expected access token type, got %s", claims.TokenType)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	refresh, err := m.GenerateRefreshToken(42, 7, "jdoe")
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	if _, err := m.ValidateAccessToken(refresh); err == nil {
		t.Fatal("refresh token should be rejected as access token")
	}
	if _, err := m.ValidateRefreshToken(refresh); err != nil {
		t.Fatalf("ValidateRefreshToken error: %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager(testConfig())
	token, err := m.GenerateAccessToken(1, 1, "jdoe", "owner")
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	other := testConfig()
	other.JWT.Secret = "another-secret-key-that-is-also-long-enough"
	if _, err := NewJWTManager(other).ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret should be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := []struct {
		header   string
		expected string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", ""},
		{"abc.def.ghi", ""},
		{"", ""},
		{"Bearer ", ""},
	}
	for _, tc := range cases {
		if got := ExtractTokenFromHeader(tc.header); got != tc.expected {
			t.Errorf("ExtractTokenFromHeader(%q) expected %q, got %q", tc.header, tc.expected, got)
		}
	}
}
