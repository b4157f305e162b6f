package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "MONGO_URI", "MONGODB_URI", "DATABASE_NAME", "MONGO_TIMEOUT", "JWT_SECRET",
		"B2_APPLICATION_KEY_ID", "B2_KEY_ID", "BACKBLAZE_KEY_ID",
		"B2_APPLICATION_KEY", "B2_APP_KEY", "BACKBLAZE_APP_KEY",
		"B2_BUCKET_NAME", "B2_BUCKET", "BACKBLAZE_BUCKET",
		"MAX_THUMBNAIL_SIZE", "STATS_REFRESH_INTERVAL", "ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "a-very-long-test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" || cfg.DatabaseName != "trungminh" || cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.MongoTimeout != 10*time.Second || cfg.StatsRefreshInterval != time.Minute {
		t.Errorf("durations = %v / %v", cfg.MongoTimeout, cfg.StatsRefreshInterval)
	}
	if cfg.MaxThumbnailSize != 5*1024*1024 {
		t.Errorf("MaxThumbnailSize = %d", cfg.MaxThumbnailSize)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.B2Enabled() {
		t.Error("B2Enabled() = true without credentials")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("B2_KEY_ID", "key-id")
	t.Setenv("B2_APPLICATION_KEY", "app-key")
	t.Setenv("BACKBLAZE_BUCKET", "thumbnails")
	t.Setenv("ALLOWED_ORIGINS", " https://trungminh.example , ,https://admin.trungminh.example")
	t.Setenv("STATS_REFRESH_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if !cfg.B2Enabled() || cfg.B2BucketName != "thumbnails" {
		t.Errorf("B2 config = %q/%q/%q", cfg.B2ApplicationKeyID, cfg.B2ApplicationKey, cfg.B2BucketName)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.trungminh.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.StatsRefreshInterval != 30*time.Second {
		t.Errorf("StatsRefreshInterval = %v", cfg.StatsRefreshInterval)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "missing required environment variables: [JWT_SECRET]"},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "MONGO_TIMEOUT": "soon"}, "MONGO_TIMEOUT"},
		{"bad size", map[string]string{"JWT_SECRET": "s", "MAX_THUMBNAIL_SIZE": "big"}, "MAX_THUMBNAIL_SIZE"},
		{"non-positive size", map[string]string{"JWT_SECRET": "s", "MAX_THUMBNAIL_SIZE": "0"}, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestMasking(t *testing.T) {
	if got := maskSecret(""); got != "[NOT SET]" {
		t.Errorf("maskSecret(empty) = %q", got)
	}
	if got := maskSecret("short"); got != "[HIDDEN]" {
		t.Errorf("maskSecret(short) = %q", got)
	}
	if got := maskSecret("0123456789abcdef"); got != "0123***cdef" {
		t.Errorf("maskSecret(long) = %q", got)
	}
	if got := maskConnectionString("mongodb://user:pass@db:27017"); got != "[CREDENTIALS_HIDDEN]@db:27017" {
		t.Errorf("maskConnectionString() = %q", got)
	}
}
