package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// resetFlags restores every command flag variable between runs of the
// shared command tree.
func resetFlags() {
	cfgFile = defaultConfigFile
	verbose = false
	checkFlags.format = ""
	checkFlags.lang = ""
	checkFlags.store = false
	checkFlags.storePath = ""
	checkFlags.validators = nil
	checkFlags.scriptDir = ""
	checkFlags.strict = false
	pluginsFlags.dir = ""
	pluginsFlags.format = "text"
	historyFlags.storePath = ""
	historyFlags.driver = ""
	historyFlags.limit = 20
	historyFlags.format = "text"
	historyFlags.olderThan = 30 * 24 * time.Hour
	watchFlags.format = ""
	watchFlags.schedule = ""
	watchFlags.debounce = 0
	watchFlags.listen = ""
}

// execute runs the command line and returns the exit code and outputs.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeConfig writes a configuration whose script directory is rules.
func writeConfig(t *testing.T, rules, body string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "proofread.yaml", "scripts:\n  directory: "+rules+"\n"+body)
}
