package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "zero parallelism",
			mutate: func(cfg *Config) {
				cfg.Parallelism = 0
			},
			wantErr: "parallelism",
		},
		{
			name: "negative cache size",
			mutate: func(cfg *Config) {
				cfg.PageCacheSize = -1
			},
			wantErr: "cache size",
		},
		{
			name: "unknown format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Parallelism != 1 {
		t.Fatalf("default parallelism = %d, want 1", cfg.Parallelism)
	}
	if cfg.UserAgent != FirefoxUserAgent {
		t.Fatalf("default user agent = %q", cfg.UserAgent)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("REVIEWERS_TEST_INT", " 4 ")
	value, ok, err := EnvInt("REVIEWERS_TEST_INT")
	if err != nil || !ok || value != 4 {
		t.Fatalf("EnvInt = %d, %v, %v; want 4, true, nil", value, ok, err)
	}

	t.Setenv("REVIEWERS_TEST_INT", "four")
	if _, _, err := EnvInt("REVIEWERS_TEST_INT"); err == nil {
		t.Fatalf("expected parse error")
	}

	if _, ok, err := EnvInt("REVIEWERS_TEST_UNSET"); ok || err != nil {
		t.Fatalf("unset variable should report ok=false, got ok=%v err=%v", ok, err)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("REVIEWERS_TEST_TIMEOUT", "1500ms")
	value, ok, err := EnvDuration("REVIEWERS_TEST_TIMEOUT")
	if err != nil || !ok || value != 1500*time.Millisecond {
		t.Fatalf("EnvDuration = %v, %v, %v", value, ok, err)
	}
}

func TestEnvStringBlank(t *testing.T) {
	t.Setenv("REVIEWERS_TEST_FORMAT", "   ")
	if _, ok := EnvString("REVIEWERS_TEST_FORMAT"); ok {
		t.Fatalf("blank variable should report ok=false")
	}
}
