package distributor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/telemetry/logging"
)

func openStore(t *testing.T, driver string) *Store {
	t.Helper()
	s, err := NewStore(&config.StoreConfig{
		Driver: driver,
		Path:   filepath.Join(t.TempDir(), "nested", "history.db"),
	}, nil)
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") {
			t.Skipf("driver %s requires cgo", driver)
		}
		t.Fatalf("NewStore(%s) error = %v", driver, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordsRuns(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverSQLite3} {
		t.Run(driver, func(t *testing.T) {
			s := openStore(t, driver)
			ctx := context.Background()

			run(t, s, findings())
			firstRun := s.RunID()
			if firstRun == "" {
				t.Fatal("RunID() empty after run")
			}

			run(t, s, nil)
			if s.RunID() == firstRun {
				t.Error("second run reused the run ID")
			}

			runs, err := s.Runs(ctx, 10)
			if err != nil {
				t.Fatalf("Runs() error = %v", err)
			}
			if len(runs) != 2 {
				t.Fatalf("Runs() = %d runs, want 2", len(runs))
			}
			if runs[1].ID != firstRun || runs[1].Findings != 2 || runs[1].FinishedAt.IsZero() {
				t.Errorf("first run = %+v", runs[1])
			}
			if runs[0].Findings != 0 {
				t.Errorf("second run findings = %d, want 0", runs[0].Findings)
			}

			got, err := s.Findings(ctx, firstRun)
			if err != nil {
				t.Fatalf("Findings() error = %v", err)
			}
			want := findings()
			if len(got) != len(want) {
				t.Fatalf("Findings() = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].String() != want[i].String() || got[i].ValidatorName != want[i].ValidatorName {
					t.Errorf("finding %d = %+v, want %+v", i, got[i], want[i])
				}
			}
			if got[0].StartPosition != nil {
				t.Error("finding without position read back with one")
			}
			if got[1].EndPosition == nil || *got[1].EndPosition != *want[1].EndPosition {
				t.Errorf("end position = %v, want %v", got[1].EndPosition, want[1].EndPosition)
			}
		})
	}
}

func TestStore_Prune(t *testing.T) {
	s := openStore(t, DriverSQLite)
	ctx := context.Background()

	run(t, s, findings())
	old := s.RunID()

	n, err := s.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}

	runs, _ := s.Runs(ctx, 10)
	if len(runs) != 0 {
		t.Errorf("runs after prune = %v", runs)
	}
	got, _ := s.Findings(ctx, old)
	if len(got) != 0 {
		t.Errorf("findings after prune = %d", len(got))
	}
}

func TestStore_ResultOutsideRun(t *testing.T) {
	s := openStore(t, DriverSQLite)

	err := s.FlushResult(context.Background(), findings()[0])
	if !errors.Is(err, ErrNoRun) {
		t.Errorf("FlushResult() error = %v, want ErrNoRun", err)
	}
	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Operation != "insert_finding" {
		t.Errorf("error = %#v, want StoreError", err)
	}
}

func TestNewStore_UnsupportedDriver(t *testing.T) {
	_, err := NewStore(&config.StoreConfig{Driver: "postgres", Path: filepath.Join(t.TempDir(), "x.db")}, nil)
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("error = %v, want StoreError", err)
	}
}

func TestStore_RunIDFromContext(t *testing.T) {
	s := openStore(t, DriverSQLite)
	ctx := logging.WithRunID(context.Background(), "run-42")

	if err := s.FlushHeader(ctx); err != nil {
		t.Fatalf("FlushHeader() error = %v", err)
	}
	if err := s.FlushFooter(ctx); err != nil {
		t.Fatalf("FlushFooter() error = %v", err)
	}
	if s.RunID() != "run-42" {
		t.Errorf("RunID() = %q, want run-42", s.RunID())
	}
}
