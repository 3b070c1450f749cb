package main

import (
	"strings"
	"testing"
)

func TestPlugins_List(t *testing.T) {
	rules := t.TempDir()
	writeFile(t, rules, "very.go", veryRule)
	cfg := writeConfig(t, rules, "")

	code, stdout, stderr := execute(t, "plugins", "list", "--config", cfg, "--format", "csv")
	if code != 0 {
		t.Fatalf("exit code = %d (stderr: %s)", code, stderr)
	}
	want := "plugin,hooks,message\nvery.go,validateSentence,\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestPlugins_Lint(t *testing.T) {
	rules := t.TempDir()
	writeFile(t, rules, "very.go", veryRule)
	writeFile(t, rules, "broken.go", "package main\n\nfunc validateSentence(\n")
	cfg := writeConfig(t, t.TempDir(), "")

	code, stdout, stderr := execute(t, "plugins", "lint", "--config", cfg, "--dir", rules)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "very.go") || !strings.Contains(stdout, "broken.go") {
		t.Errorf("stdout = %q, want both scripts", stdout)
	}
	if !strings.Contains(stderr, "1 of 2 scripts") {
		t.Errorf("stderr = %q, want failure summary", stderr)
	}
}

func TestPlugins_LintEmptyDirectory(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "")

	code, stdout, _ := execute(t, "plugins", "lint", "--config", cfg)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if strings.TrimSpace(stdout) != "FILE  STATUS  ERROR" {
		t.Errorf("stdout = %q, want header only", stdout)
	}
}
