package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL || cfg.API.TimeoutSec != DefaultTimeoutSec {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Threshold() != 0.7 || !cfg.RAG() || cfg.Search.OnFailure != "retain" {
		t.Errorf("search = %+v", cfg.Search)
	}
}

func TestParse_ExplicitZeroes(t *testing.T) {
	cfg, err := Parse([]byte("search:\n  similarity_threshold: 0\n  use_rag: false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threshold() != 0 {
		t.Errorf("threshold = %g, want explicit 0 kept", cfg.Threshold())
	}
	if cfg.RAG() {
		t.Error("use_rag: false must be kept")
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("KBSEARCH_TEST_URL", "https://kb.example.com")

	data := []byte(`
api:
  base_url: ${KBSEARCH_TEST_URL}
  api_key: ${KBSEARCH_TEST_UNSET:-fallback}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "https://kb.example.com" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.APIKey != "fallback" {
		t.Errorf("api_key = %q", cfg.API.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"relative url", "api:\n  base_url: localhost:8000\n", "api.base_url"},
		{"ftp url", "api:\n  base_url: ftp://host\n", "api.base_url"},
		{"threshold high", "search:\n  similarity_threshold: 1.5\n", "similarity_threshold"},
		{"threshold negative", "search:\n  similarity_threshold: -0.1\n", "similarity_threshold"},
		{"bad policy", "search:\n  on_failure: drop\n", `search.on_failure must be "retain" or "clear", got "drop"`},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"ok", "api:\n  base_url: https://kb.example.com/\nsearch:\n  on_failure: clear\nlogging:\n  level: debug\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	if err := os.WriteFile(path, []byte("api:\n  timeout_sec: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.TimeoutSec != 5 {
		t.Errorf("timeout_sec = %d", cfg.API.TimeoutSec)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing file must fail")
	}
}

func TestLoad_MissingEnvFileUsesDefaults(t *testing.T) {
	cfg, err := Load("no-such-env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
}
