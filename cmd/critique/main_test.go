package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"critique/internal/api"
	"critique/internal/config"
	"critique/internal/preprocess"
	"critique/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	configPath := filepath.Join(base, "critique.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
database = %q
lock_path = %q

[pipeline]
detector = "rule"

[batch]
workers = 1
chunk_size = 2
`, cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.Database, cfg.Paths.LockPath)
	testsupport.WriteFile(t, path, content)
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const catalogDoc = `
[[work]]
id = "tt0109830"
title = "Forrest Gump"
year = 1994

[[name]]
id = "nm0000158"
name = "Tom Hanks"

[[principal]]
work_id = "tt0109830"
name_id = "nm0000158"
category = "actor"
character = '["Forrest Gump"]'
`

const reviewsDoc = `
[[review]]
work_id = "tt0109830"
text = "Great movie!"

[[review]]
work_id = "tt0109830"
text = "Boring. Far too long."
`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(env.baseDir, "init", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestConfigShowRedactsToken(t *testing.T) {
	env := setupCLITestEnv(t)
	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	testsupport.WriteFile(t, env.configPath, string(content)+"\n[api]\ntoken = \"hunter2\"\n")

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "hunter2") {
		t.Fatalf("token leaked: %s", out)
	}
	requireContains(t, out, "rule")
}

func TestNormalizeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{"argument", []string{"normalize", "ﬁne film"}, ""},
		{"stdin", []string{"normalize"}, "ﬁne film\n"},
		{"dash", []string{"normalize", "-"}, "ﬁne film"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args, env.configPath, tt.stdin)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if got := strings.TrimSpace(out); got != "fine film" {
				t.Fatalf("normalize = %q", got)
			}
		})
	}

	if _, _, err := runCLI(t, []string{"normalize", "--form", "NFX", "x"}, env.configPath, ""); err == nil {
		t.Fatal("expected unknown form to fail")
	}
}

func TestImportAndInspect(t *testing.T) {
	env := setupCLITestEnv(t)
	catalogPath := filepath.Join(env.baseDir, "catalog.toml")
	reviewsPath := filepath.Join(env.baseDir, "reviews.toml")
	denyPath := filepath.Join(env.baseDir, "deny.txt")
	testsupport.WriteFile(t, catalogPath, catalogDoc)
	testsupport.WriteFile(t, reviewsPath, reviewsDoc)
	testsupport.WriteFile(t, denyPath, "name\nHope\nFargo\n")

	out, _, err := runCLI(t, []string{"catalog", "import", catalogPath}, env.configPath, "")
	if err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	requireContains(t, out, "Imported 1 works")

	out, _, err = runCLI(t, []string{"catalog", "denylist", denyPath}, env.configPath, "")
	if err != nil {
		t.Fatalf("catalog denylist: %v", err)
	}
	requireContains(t, out, "Denylisted 2 names")

	out, _, err = runCLI(t, []string{"reviews", "import", reviewsPath}, env.configPath, "")
	if err != nil {
		t.Fatalf("reviews import: %v", err)
	}
	requireContains(t, out, "Queued 2 reviews")

	out, _, err = runCLI(t, []string{"stats", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats api.StatsDTO
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Works != 1 || stats.Names != 1 || stats.Denylisted != 2 || stats.Reviews["pending"] != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	out, _, err = runCLI(t, []string{"reviews", "show", "1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("reviews show: %v", err)
	}
	requireContains(t, out, "Review 1 (pending)")

	out, _, err = runCLI(t, []string{"sentences"}, env.configPath, "")
	if err != nil {
		t.Fatalf("sentences: %v", err)
	}
	requireContains(t, out, "No pending sentences")

	out, _, err = runCLI(t, []string{"reviews", "retry"}, env.configPath, "")
	if err != nil {
		t.Fatalf("reviews retry: %v", err)
	}
	requireContains(t, out, "Requeued 0 failed reviews")
}

func TestCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing catalog file", []string{"catalog", "import", filepath.Join(env.baseDir, "nope.toml")}},
		{"bad review id", []string{"reviews", "show", "abc"}},
		{"unknown review", []string{"reviews", "show", "42"}},
		{"denylist without path", []string{"catalog", "denylist"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, tt.args, env.configPath, ""); err == nil {
				t.Fatalf("%v: expected error", tt.args)
			}
		})
	}
}

func TestPreprocessCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	reviewsPath := filepath.Join(env.baseDir, "reviews.toml")
	testsupport.WriteFile(t, reviewsPath, reviewsDoc)
	if _, _, err := runCLI(t, []string{"reviews", "import", reviewsPath}, env.configPath, ""); err != nil {
		t.Fatalf("reviews import: %v", err)
	}

	out, _, err := runCLI(t, []string{"preprocess", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	var summary preprocess.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary %q: %v", out, err)
	}
	if summary.Reviews != 2 || summary.Processed != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	out, _, err = runCLI(t, []string{"sentences", "--mark-analyzed"}, env.configPath, "")
	if err != nil {
		t.Fatalf("sentences: %v", err)
	}
	requireContains(t, out, "Great movie!")
	requireContains(t, out, "Marked 2 sentences analyzed")
}
