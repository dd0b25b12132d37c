package config

import (
	"testing"

	"github.com/naomijub/s3ql/pkg/s3store"
)

func TestStorage(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://localhost:4566")
	t.Setenv(EnvRegion, "")
	t.Setenv(EnvAccessKey, "test")
	t.Setenv(EnvSecretAccessKey, "secret")
	t.Setenv(EnvSessionToken, "")
	t.Setenv(EnvPathStyle, "")

	cfg, err := Storage()
	if err != nil {
		t.Fatalf("Storage: %v", err)
	}
	if cfg.Endpoint != "http://localhost:4566" || cfg.AccessKey != "test" || cfg.SecretAccessKey != "secret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Region != s3store.DefaultRegion {
		t.Fatalf("expected default region got %q", cfg.Region)
	}
	if !cfg.UsePathStyle {
		t.Fatalf("expected path style with a custom endpoint")
	}
}

func TestStoragePathStyle(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvSecretAccessKey, "")

	t.Setenv(EnvPathStyle, "true")
	cfg, err := Storage()
	if err != nil {
		t.Fatalf("Storage: %v", err)
	}
	if !cfg.UsePathStyle {
		t.Fatalf("expected path style")
	}

	t.Setenv(EnvPathStyle, "maybe")
	if _, err := Storage(); err == nil {
		t.Fatalf("expected error for invalid %s", EnvPathStyle)
	}
}
