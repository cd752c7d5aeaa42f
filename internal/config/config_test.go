package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_SLICE", "a,b,c")

	if got := getEnv("TEST_STRING", "fallback"); got != "value" {
		t.Errorf("getEnv expected value, got %s", got)
	}
	if got := getEnv("TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv expected fallback, got %s", got)
	}

	if got := getEnvAsInt("TEST_INT", 1); got != 42 {
		t.Errorf("getEnvAsInt expected 42, got %d", got)
	}
	if got := getEnvAsInt("TEST_INT_BAD", 1); got != 1 {
		t.Errorf("getEnvAsInt expected fallback on parse failure, got %d", got)
	}

	if got := getEnvAsBool("TEST_BOOL", false); !got {
		t.Error("getEnvAsBool expected true")
	}
	if got := getEnvAsBool("TEST_MISSING", true); !got {
		t.Error("getEnvAsBool expected fallback true")
	}

	if got := getEnvAsDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("getEnvAsDuration expected 90s, got %s", got)
	}

	got := getEnvAsSlice("TEST_SLICE", nil)
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("getEnvAsSlice expected [a b c], got %v", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Database: DatabaseConfig{Host: "localhost", Name: "sylo_db", User: "sylo_user"},
			Redis:    RedisConfig{Host: "localhost"},
			Server:   ServerConfig{Port: "8080"},
			Users:    UsersConfig{MaxPerBusiness: 10},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config should pass: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db name", func(c *Config) { c.Database.Name = "" }},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }},
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"zero user limit", func(c *Config) { c.Users.MaxPerBusiness = 0 }},
	}
	for _, tc := range cases {
		cfg := valid()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("development environment misclassified")
	}
	cfg.App.Environment = "production"
	if cfg.IsDevelopment() || !cfg.IsProduction() {
		t.Error("production environment misclassified")
	}
}
