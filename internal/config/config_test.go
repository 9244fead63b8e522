package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  AppConfig
		wantErr string
		check   func(t *testing.T, c *AppConfig)
	}{
		{
			name:   "empty configuration",
			config: AppConfig{},
			check: func(t *testing.T, c *AppConfig) {
				if c.JWTAlgorithm != "" {
					t.Errorf("Expected no algorithm without auth scheme, got %s", c.JWTAlgorithm)
				}
			},
		},
		{
			name:   "bearer scheme gets default algorithm",
			config: AppConfig{AuthScheme: AuthSchemeJWTBearer, JWTSecret: "secret"},
			check: func(t *testing.T, c *AppConfig) {
				if c.JWTAlgorithm != DefaultJWTAlgorithm {
					t.Errorf("Expected algorithm %s, got %s", DefaultJWTAlgorithm, c.JWTAlgorithm)
				}
				if c.TokenDuration != DefaultTokenDuration {
					t.Errorf("Expected token duration %v, got %v", DefaultTokenDuration, c.TokenDuration)
				}
			},
		},
		{
			name:    "bearer scheme without secret",
			config:  AppConfig{AuthScheme: AuthSchemeJWTBearer},
			wantErr: "JWT_SECRET cannot be empty",
		},
		{
			name:    "unknown auth scheme",
			config:  AppConfig{AuthScheme: "BASIC"},
			wantErr: "AUTH_SCHEME must be one of",
		},
		{
			name:    "unsupported algorithm",
			config:  AppConfig{AuthScheme: AuthSchemeJWTBearer, JWTSecret: "secret", JWTAlgorithm: "RS256"},
			wantErr: "JWT_ALGORITHM must be one of",
		},
		{
			name:    "cors without origin",
			config:  AppConfig{AllowCORS: true},
			wantErr: "CORS_ORIGIN cannot be empty",
		},
		{
			name:    "cors with empty origin list",
			config:  AppConfig{AllowCORS: true, CORSOrigin: []string{}},
			wantErr: "CORS_ORIGIN cannot be empty",
		},
		{
			name:    "cors with blank origin",
			config:  AppConfig{AllowCORS: true, CORSOrigin: []string{""}},
			wantErr: "cannot contain empty values",
		},
		{
			name:   "cors with origin",
			config: AppConfig{AllowCORS: true, CORSOrigin: []string{"*"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.config
			err := c.Validate()

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
				}
				if !errors.Is(err, ErrConfig) {
					t.Errorf("Expected ErrConfig, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, &c)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("AUTH_SCHEME", "")
		t.Setenv("ALLOW_CORS", "")
		t.Setenv("LOG_LEVEL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Expected log level info, got %s", cfg.LogLevel)
		}
		if cfg.App.BearerEnabled() {
			t.Error("Expected bearer scheme to be disabled")
		}
	})

	t.Run("bearer and cors from environment", func(t *testing.T) {
		t.Setenv("AUTH_SCHEME", "JWT_BEARER")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("JWT_EXPIRY_HOURS", "2")
		t.Setenv("ALLOW_CORS", "true")
		t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example")
		t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !cfg.App.BearerEnabled() {
			t.Error("Expected bearer scheme to be enabled")
		}
		if cfg.App.TokenDuration != 2*time.Hour {
			t.Errorf("Expected token duration 2h, got %v", cfg.App.TokenDuration)
		}
		if len(cfg.App.CORSOrigin) != 2 || cfg.App.CORSOrigin[1] != "https://b.example" {
			t.Errorf("Unexpected CORS origins: %v", cfg.App.CORSOrigin)
		}
		if !cfg.App.CORSAllowCredentials {
			t.Error("Expected CORS credentials to be allowed")
		}
	})

	t.Run("bearer without secret fails", func(t *testing.T) {
		t.Setenv("AUTH_SCHEME", "JWT_BEARER")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("ALLOW_CORS", "")

		if _, err := Load(); !errors.Is(err, ErrConfig) {
			t.Errorf("Expected ErrConfig, got %v", err)
		}
	})
}

func TestSplitList(t *testing.T) {
	got := splitList(" a , ,b,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Unexpected list: %v", got)
	}
	if splitList("") != nil {
		t.Error("Expected nil for empty input")
	}
}
