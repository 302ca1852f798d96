package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validCfg returns a fully-valid Config for mutation testing.
func validCfg() *Config {
	return &Config{
		Project: ProjectConfig{ConfigFile: "foliant.yml", SrcDir: "src"},
		Meta: MetaConfig{
			Filename:       "meta.yml",
			Workers:        4,
			SkipCodeFences: false,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Summary: SummaryConfig{MinWords: 20, MaxTokens: 256, InputBudget: 1500},
	}
}

func TestUAT_Validate_WorkersZero(t *testing.T) {
	cfg := validCfg()
	cfg.Meta.Workers = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for Workers = 0")
	}
	if !strings.Contains(err.Error(), "meta.workers") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUAT_Validate_EmptyMetaFilename(t *testing.T) {
	cfg := validCfg()
	cfg.Meta.Filename = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty meta.filename")
	}
}

func TestUAT_Validate_EmptyProjectFile(t *testing.T) {
	cfg := validCfg()
	cfg.Project.ConfigFile = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty project.config_file")
	}
}

func TestUAT_Validate_UnknownLogFormat(t *testing.T) {
	cfg := validCfg()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for logging.format = xml")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUAT_Validate_NegativeMinWords(t *testing.T) {
	cfg := validCfg()
	cfg.Summary.MinWords = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for MinWords = -1")
	}
}

func TestUAT_Validate_ZeroMaxTokens(t *testing.T) {
	cfg := validCfg()
	cfg.Summary.MaxTokens = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for MaxTokens = 0")
	}
	if !strings.Contains(err.Error(), "max_tokens") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUAT_Validate_ZeroInputBudget(t *testing.T) {
	cfg := validCfg()
	cfg.Summary.InputBudget = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for InputBudget = 0")
	}
}

func TestUAT_Validate_ValidConfigPasses(t *testing.T) {
	cfg := validCfg()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config should pass, got: %v", err)
	}
}

func TestUAT_MaskSecrets(t *testing.T) {
	c := ClaudeConfig{APIKey: "sk-ant-1234567890abcd", Model: "m"}
	if s := c.String(); strings.Contains(s, "1234567890") {
		t.Fatalf("api key leaked: %s", s)
	}
	g := GraphConfig{URI: "neo4j://db", Password: "short"}
	if s := g.String(); !strings.Contains(s, "Password:***") {
		t.Fatalf("password not masked: %s", s)
	}
}

func TestUAT_LoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Meta.Filename != "meta.yml" || cfg.Project.ConfigFile != "foliant.yml" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Meta.Workers != DefaultWorkers {
		t.Fatalf("workers = %d, want %d", cfg.Meta.Workers, DefaultWorkers)
	}
	if cfg.Meta.SkipCodeFences {
		t.Fatal("skip_code_fences should default to false so headings follow the plain line rule")
	}
	if len(cfg.Meta.Seeds) != 0 {
		t.Fatalf("unexpected default seeds: %v", cfg.Meta.Seeds)
	}
}

func TestUAT_LoadSeedsFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	raw := "meta:\n  seeds:\n    author: \"Written by {value}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Meta.Seeds["author"]; got != "Written by {value}" {
		t.Fatalf("seeds[author] = %q", got)
	}
}

func TestUAT_LoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DOCMETA_API_AUTH_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.AuthToken != "secret" {
		t.Fatalf("auth token = %q", cfg.API.AuthToken)
	}
}
