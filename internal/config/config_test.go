package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tapps.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
separator: ";"
fillin: "NA"
header: false
displayast: true
cast_error: keep
plugin_dir: /opt/tapps/plugins
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Separator != ";" || cfg.Header || !cfg.DisplayAST || cfg.CastError != "keep" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FillInValue() != "NA" {
		t.Errorf("fill-in = %v", cfg.FillInValue())
	}
	// untouched keys keep defaults
	if cfg.Newline != "\n" || cfg.Prompt != Default().Prompt {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: red\n"},
		{"bad policy", "cast_error: ignore\n"},
		{"empty separator", "separator: \"\"\n"},
		{"bad yaml", "separator: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FillInValue() != nil || !cfg.Header {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
