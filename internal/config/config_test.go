package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("RETURNS_SERVER__PORT")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("storage type = %q, want sqlite", cfg.Storage.Type)
	}
	if cfg.OpenAI.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", cfg.OpenAI.Model)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RETURNS_SERVER__PORT", "9000")
	t.Setenv("RETURNS_STORAGE__TYPE", "memory")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("storage type = %q, want memory", cfg.Storage.Type)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 4000
openai:
  model: gpt-4o
evaluator:
  timeout: 10s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("RETURNS_SERVER__PORT", "5000")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	// Env wins over file; file wins over defaults.
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want env override 5000", cfg.Server.Port)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("model = %q, want file value gpt-4o", cfg.OpenAI.Model)
	}
	if got := cfg.Evaluator.TimeoutDuration(); got != 10*time.Second {
		t.Errorf("evaluator timeout = %v, want 10s", got)
	}
}

func TestEvaluatorConfig_TimeoutDuration_Invalid(t *testing.T) {
	c := EvaluatorConfig{Timeout: "soon"}
	if got := c.TimeoutDuration(); got != 0 {
		t.Errorf("TimeoutDuration() = %v, want 0 for invalid input", got)
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple substitution", "${TEST_API_KEY}", "sk-test"},
		{"substitution in string", "prefix-${TEST_API_KEY}-suffix", "prefix-sk-test-suffix"},
		{"no substitution", "plain-string", "plain-string"},
		{"unset variable", "${NOT_SET_ANYWHERE}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteEnvVars(tt.input); got != tt.want {
				t.Errorf("substituteEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
