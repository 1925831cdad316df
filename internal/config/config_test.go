package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %s", cfg.GeminiModel)
	}
	if !cfg.AutoCategorize {
		t.Error("AutoCategorize should default to true")
	}
	if cfg.TokenExpiry != 7*24*time.Hour {
		t.Errorf("TokenExpiry = %v", cfg.TokenExpiry)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUTO_CATEGORIZE", "false")
	t.Setenv("TOKEN_EXPIRY", "1h")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.AutoCategorize {
		t.Error("AutoCategorize should be false")
	}
	if cfg.TokenExpiry != time.Hour {
		t.Errorf("TokenExpiry = %v, want 1h", cfg.TokenExpiry)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Port:         "8080",
		SQLiteDBPath: "test.db",
		JWTSecret:    "a-long-enough-secret",
		TokenExpiry:  time.Hour,
		GeminiModel:  "gemini-2.5-flash",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	badPort := *valid
	badPort.Port = "http"
	if err := badPort.Validate(); err == nil {
		t.Error("non-numeric port accepted")
	}

	noSecret := *valid
	noSecret.JWTSecret = ""
	if err := noSecret.Validate(); err == nil {
		t.Error("empty JWT secret accepted")
	}

	badAMQP := *valid
	badAMQP.AMQPURL = "http://localhost"
	if err := badAMQP.Validate(); err == nil {
		t.Error("non-amqp URL accepted")
	}
}
