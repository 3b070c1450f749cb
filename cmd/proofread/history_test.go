package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistory_RecordsChecks(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "validators:\n  - name: TerminalPunctuation\n")
	store := filepath.Join(t.TempDir(), "history.db")
	input := writeFile(t, t.TempDir(), "notes.txt", "Hello world\n\nSecond paragraph\n")

	if code, _, stderr := execute(t, "check", "--config", cfg, "--store-path", store, input); code != 1 {
		t.Fatalf("check exit code = %d, want 1 (stderr: %s)", code, stderr)
	}

	code, stdout, stderr := execute(t, "history", "--config", cfg, "--store-path", store, "--format", "json")
	if code != 0 {
		t.Fatalf("history exit code = %d (stderr: %s)", code, stderr)
	}
	var runs []map[string]string
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, stdout)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0]["findings"] != "2" || runs[0]["finished"] == "" {
		t.Errorf("run = %v", runs[0])
	}

	code, stdout, stderr = execute(t, "history", "show", runs[0]["id"], "--config", cfg, "--store-path", store, "--format", "csv")
	if code != 0 {
		t.Fatalf("history show exit code = %d (stderr: %s)", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 || lines[0] != "file,line,validator,message" {
		t.Errorf("history show output:\n%s", stdout)
	}

	code, stdout, _ = execute(t, "history", "prune", "--older-than", "1ns", "--config", cfg, "--store-path", store)
	if code != 0 || !strings.Contains(stdout, "Pruned 1 runs") {
		t.Errorf("prune exit code = %d, output = %q", code, stdout)
	}
}

func TestHistory_PruneRejectsNonPositive(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "")
	store := filepath.Join(t.TempDir(), "history.db")

	if code, _, _ := execute(t, "history", "prune", "--older-than", "0s", "--config", cfg, "--store-path", store); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
