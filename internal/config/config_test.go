package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	_ = os.Unsetenv("SCRIBE_BUILD_TARGET")
	_ = os.Unsetenv("SCRIBE_TRANSCRIPT_WINDOW")
	_ = os.Unsetenv("SCRIBE_CONTEXT_CHAR_BUDGET")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.BuildTarget != "local" || cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected default target config: %+v", cfg)
	}
	if cfg.TranscriptWindow != 3 || cfg.ContextCharBudget != 8000 {
		t.Fatalf("unexpected default policy config: %+v", cfg)
	}
	if cfg.GenerateTimeoutSeconds != 90 {
		t.Fatalf("unexpected default generate timeout: %d", cfg.GenerateTimeoutSeconds)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("SCRIBE_TRANSCRIPT_WINDOW", "5")
	defer func() { _ = os.Unsetenv("SCRIBE_TRANSCRIPT_WINDOW") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.TranscriptWindow != 5 {
		t.Fatalf("transcript window env override failed, got %d", cfg.TranscriptWindow)
	}
}

func TestResolveDefaults_PostgresRequiresDSN(t *testing.T) {
	cfg := &Config{BuildTarget: "cloud-dev", DBDriver: "auto"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for cloud-dev without DSN")
	}

	cfg = &Config{BuildTarget: "cloud-dev", DBDriver: "auto", PostgresDSN: "postgres://x", TranscriptWindow: 3, ContextCharBudget: 8000}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected derived postgres driver, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaults_RejectsUnknownTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "mainframe"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown build target")
	}
}
