package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.ValkeyAddr() != "localhost:6379" {
		t.Errorf("ValkeyAddr() = %q", cfg.ValkeyAddr())
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("DATA_DIR", "/var/lib/inkpress")
	t.Setenv("ADMIN_EMAIL", "owner@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "9999" || cfg.DataDir != "/var/lib/inkpress" || cfg.AdminEmail != "owner@example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadProductionRequiresPasswordHash(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail in production without ADMIN_PASSWORD_HASH")
	}

	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() should be false in production")
	}
}
