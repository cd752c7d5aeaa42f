package auth

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"good password", "Secret123", true},
		{"too short", "Ab1", false},
		{"too long", strings.Repeat("Aa1", 50), false},
		{"no uppercase", "secret123", false},
		{"no lowercase", "SECRET123", false},
		{"no number", "SecretWord", false},
		{"default seed password shape", "Sylo@12345", true},
	}
	for _, tc := range cases {
		err := p.ValidatePassword(tc.password)
		if tc.valid && err != nil {
			t.Errorf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "Secret123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := p.VerifyPassword("Secret123", hash); err != nil {
		t.Fatalf("VerifyPassword should accept the original password: %v", err)
	}
	if err := p.VerifyPassword("Wrong123", hash); err == nil {
		t.Fatal("VerifyPassword should reject a wrong password")
	}
}

func TestHashPasswordRejectsWeakPassword(t *testing.T) {
	p := NewPasswordManager(testConfig())
	if _, err := p.HashPassword("weak"); err == nil {
		t.Fatal("weak password should not be hashed")
	}
}
