package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"scribe-hq/proofread/pkg/config"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "B.")
	writeFile(t, dir, "a.txt", "A.")
	writeFile(t, dir, "nested/c.yaml", "documents: []")
	writeFile(t, dir, "image.png", "x")
	writeFile(t, dir, ".cache/d.txt", "hidden")
	single := writeFile(t, t.TempDir(), "single.go", "not filtered when named")

	got, err := expandInputs([]string{dir, single})
	if err != nil {
		t.Fatalf("expandInputs() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "nested", "c.yaml"),
		single,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandInputs() = %v, want %v", got, want)
	}

	if _, err := expandInputs([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expandInputs(missing) error = nil, want error")
	}
}

func TestWatchSession_Run(t *testing.T) {
	rules := t.TempDir()
	docs := t.TempDir()
	writeFile(t, docs, "notes.txt", "Hello world\n")

	cfg := config.NewDefaultConfig()
	cfg.Scripts.Directory = rules
	cfg.Validators = []config.ValidatorConfig{{Name: "TerminalPunctuation"}}
	cfg.Output.Store = config.StoreConfig{
		Enabled: true,
		Driver:  "sqlite",
		Path:    filepath.Join(t.TempDir(), "history.db"),
	}

	var out bytes.Buffer
	session, err := newWatchSession(cfg, []string{docs}, &out, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("newWatchSession() error = %v", err)
	}
	defer session.close()

	ctx := context.Background()
	if err := session.run(ctx, "test"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "notes.txt") {
		t.Errorf("output = %q, want finding for notes.txt", out.String())
	}

	status := session.checker.CheckLiveness(ctx)
	if status.LastRun == nil || status.LastRun.Findings != 1 {
		t.Errorf("LastRun = %+v, want 1 finding", status.LastRun)
	}

	ready := session.checker.CheckReadiness(ctx)
	if ready.Status != "ready" {
		t.Errorf("readiness = %+v, want ready", ready)
	}

	paths := session.watchPaths()
	if len(paths) != 2 || paths[1] != rules {
		t.Errorf("watchPaths() = %v, want inputs plus %s", paths, rules)
	}

	runs, err := session.store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs = %d, want 1", len(runs))
	}
}

func TestWatchSession_RunRecordsFailure(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Scripts.Directory = t.TempDir()
	cfg.Validators = []config.ValidatorConfig{{Name: "Spellcheck"}}

	session, err := newWatchSession(cfg, []string{t.TempDir()}, &bytes.Buffer{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("newWatchSession() error = %v", err)
	}
	defer session.close()

	if err := session.run(context.Background(), "test"); err == nil {
		t.Fatal("run() error = nil, want registration error")
	}
	status := session.checker.CheckLiveness(context.Background())
	if status.LastRun == nil || status.LastRun.Error == "" {
		t.Errorf("LastRun = %+v, want recorded error", status.LastRun)
	}
}

func TestScriptDirs(t *testing.T) {
	scriptEntry := func(path string) config.ValidatorConfig {
		vc := config.ValidatorConfig{Name: "Script"}
		if path != "" {
			vc.Properties = map[string]string{"script-path": path}
		}
		return vc
	}

	tests := []struct {
		name       string
		validators []config.ValidatorConfig
		git        bool
		want       []string
	}{
		{"no script validator", []config.ValidatorConfig{{Name: "SentenceLength"}}, false, []string{"rules-dir"}},
		{"default directory", []config.ValidatorConfig{scriptEntry("")}, false, []string{"rules-dir"}},
		{"script-path override", []config.ValidatorConfig{scriptEntry("custom")}, false, []string{"custom"}},
		{"several entries", []config.ValidatorConfig{scriptEntry("custom"), scriptEntry(""), scriptEntry("custom")}, false, []string{"custom", "rules-dir"}},
		{"git checkout", []config.ValidatorConfig{scriptEntry("")}, true, nil},
		{"git with override", []config.ValidatorConfig{scriptEntry(""), scriptEntry("local")}, true, []string{"local"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.Scripts.Directory = "rules-dir"
			cfg.Scripts.Git.Enabled = tt.git
			cfg.Validators = tt.validators

			if got := scriptDirs(cfg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("scriptDirs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatchSession_ReadinessUsesScriptPath(t *testing.T) {
	override := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Scripts.Directory = filepath.Join(t.TempDir(), "missing")
	cfg.Validators = []config.ValidatorConfig{{
		Name:       "Script",
		Properties: map[string]string{"script-path": override},
	}}

	session, err := newWatchSession(cfg, []string{t.TempDir()}, &bytes.Buffer{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("newWatchSession() error = %v", err)
	}
	defer session.close()

	ready := session.checker.CheckReadiness(context.Background())
	if ready.Status != "ready" {
		t.Errorf("readiness = %+v, want ready for the script-path directory", ready)
	}
	if paths := session.watchPaths(); paths[len(paths)-1] != override {
		t.Errorf("watchPaths() = %v, want %s watched", paths, override)
	}

	cfg.Validators[0].Properties["script-path"] = filepath.Join(override, "gone")
	if ready := session.checker.CheckReadiness(context.Background()); ready.Status != "degraded" {
		t.Errorf("readiness = %s, want degraded for a missing script-path directory", ready.Status)
	}
}
