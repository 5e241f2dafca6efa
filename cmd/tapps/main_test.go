package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/internal/config"
	"github.com/vegasq/tapps/shell"
)

func TestNewEnvironment(t *testing.T) {
	fill := "NA"
	cfg := config.Default()
	cfg.Separator = ";"
	cfg.FillIn = &fill
	cfg.CastError = "keep"
	cfg.DisplayAST = true

	env, err := newEnvironment(cfg)
	if err != nil {
		t.Fatalf("newEnvironment() error = %v", err)
	}
	if env.Separator != ";" || env.FillIn != "NA" || env.CastPolicy != frame.PolicyKeep || !env.DisplayAST {
		t.Errorf("env = %+v", env)
	}

	cfg.CastError = "explode"
	if _, err := newEnvironment(cfg); err == nil {
		t.Error("expected error for an unknown cast policy")
	}
}

func TestNewSession_Plugins(t *testing.T) {
	cfg := config.Default()
	cfg.PluginDir = filepath.Join(t.TempDir(), "missing")

	s, err := newSession(cfg)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	if got := s.Plugins.Names(); len(got) != 2 {
		t.Errorf("plugins = %v, want the built-ins", got)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "STI.csv"), []byte("Date,Open\nL1,40\nL2,100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "analysis.tapps")
	content := strings.Join([]string{
		"# load and filter",
		"load csv STI.csv as STI",
		"cast Open in STI as nonalpha",
		"select from STI as A where Open > 50",
		"save dataframe A as csv a.csv",
	}, "\n")
	if err := os.WriteFile(script, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := newSession(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	s.Env.Cwd = dir
	var out, errOut bytes.Buffer
	in := shell.New(s, shell.WithOutput(&out, &errOut))

	if err := runScript(in, script, nil); err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected diagnostics: %s", errOut.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "label,Open\nL2,100\n" {
		t.Errorf("a.csv = %q", data)
	}

	// stdin
	in = shell.New(s, shell.WithOutput(&out, &errOut))
	if err := runScript(in, "-", strings.NewReader("delete dataframe A\n")); err != nil {
		t.Fatal(err)
	}
	if s.Frames.Has("A") {
		t.Error("statement from stdin did not run")
	}
}

func TestHistoryPath(t *testing.T) {
	if got := historyPath("/tmp/h"); got != "/tmp/h" {
		t.Errorf("got %s", got)
	}
	if got := historyPath(""); got != "" && filepath.Base(got) != defaultHistoryFile {
		t.Errorf("got %s", got)
	}
}

func TestRunScript_Example(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("..", "..", "testdata"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := newSession(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	s.Env.Cwd = dir
	var out, errOut bytes.Buffer
	in := shell.New(s, shell.WithOutput(&out, &errOut))

	if err := runScript(in, filepath.Join(dir, "example.tapps"), nil); err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", errOut.String())
	}

	up, _ := s.Frames.Get("UP")
	if got := up.Labels(); len(got) != 3 {
		t.Errorf("UP labels = %v, want 3 closes above 3230", got)
	}
	big, _ := s.Frames.Get("BIG")
	if got := big.Labels(); len(got) != 2 {
		t.Errorf("BIG labels = %v", got)
	}
	summary, ok := s.Frames.Get("SUMMARY")
	if !ok {
		t.Fatal("SUMMARY not registered")
	}
	if v, _ := summary.Value("Volume", "count"); v != int64(5) {
		t.Errorf("Volume count = %#v", v)
	}
}
