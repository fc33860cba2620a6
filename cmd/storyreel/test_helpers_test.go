package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyreel/internal/brief"
	"storyreel/internal/config"
	"storyreel/internal/pipeline"
	"storyreel/internal/scenario"
	"storyreel/internal/testsupport"
)

var errSentinel = errors.New("provider exploded")

type stubGenerator struct {
	document *scenario.Document
	err      error
	calls    int
	lastRaw  brief.RawInput
}

func (s *stubGenerator) Generate(_ context.Context, raw brief.RawInput) (*pipeline.Result, error) {
	s.calls++
	s.lastRaw = raw
	if s.err != nil {
		return nil, s.err
	}
	assembled, err := brief.Assemble(raw)
	if err != nil {
		return nil, err
	}
	return &pipeline.Result{
		RunID:    "test-run",
		Brief:    assembled,
		Document: s.document,
	}, nil
}

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("STORYREEL_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, base)

	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path, base string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[provider]
api_key = "test"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, generator documentGenerator, args []string) (string, string, error) {
	t.Helper()
	cmd, cctx := newRootCommandWithContext()
	if generator != nil {
		cctx.newGenerator = func(*config.Config, *slog.Logger) (documentGenerator, error) {
			return generator, nil
		}
	}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seedHistory(t *testing.T, env *cliTestEnv, prompt string) string {
	t.Helper()
	cfg, _, _, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	entry := testsupport.NewEntry(t, store, prompt)
	return entry.ID
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
