package distributor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/telemetry/logging"
	"scribe-hq/proofread/pkg/validation"
)

// SQL driver names accepted by the store.
const (
	DriverSQLite  = "sqlite"  // modernc.org/sqlite, pure Go
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3, cgo
)

// ErrNoRun is returned by the store when a finding arrives outside a run.
var ErrNoRun = errors.New("no run in progress")

// Run is one recorded validation run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Findings   int
}

// Store persists every run and its findings in SQLite. It is a Distributor:
// FlushHeader opens a run, FlushResult records a finding and FlushFooter
// closes the run with its finding count.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger

	mu       sync.Mutex
	runID    string
	seq      int
	findings int
}

// NewStore opens (creating when needed) the history database described by
// cfg and applies the schema.
func NewStore(cfg *config.StoreConfig, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = &config.StoreConfig{}
	}
	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultStoreDriver
	}
	if driver != DriverSQLite && driver != DriverSQLite3 {
		return nil, newStoreError(driver, "open", fmt.Errorf("unsupported driver %q", driver))
	}
	path := cfg.Path
	if path == "" {
		path = config.DefaultStorePath
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = config.DefaultStoreBusyTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "distributor.store")

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, newStoreError(driver, "mkdir", err)
			}
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, newStoreError(driver, "open", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, driver: driver, logger: logger}
	if err := s.initialize(busyTimeout); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("history store initialized", "driver", driver, "path", path)
	return s, nil
}

// initialize sets pragmas, creates the schema and checks its version.
func (s *Store) initialize(busyTimeout time.Duration) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds()),
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return newStoreError(s.driver, "pragma", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return newStoreError(s.driver, "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return newStoreError(s.driver, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return newStoreError(s.driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStoreError(s.driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Driver returns the SQL driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// RunID returns the identifier of the run in progress, or of the last
// finished run.
func (s *Store) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FlushHeader starts a new run. The run takes the run ID carried by ctx,
// or a fresh UUID when there is none.
func (s *Store) FlushHeader(ctx context.Context) error {
	runID := logging.GetRunID(ctx)
	if runID == "" {
		runID = uuid.New().String()
	}
	if _, err := s.db.ExecContext(ctx, insertRun, runID, time.Now().UnixNano()); err != nil {
		return newStoreError(s.driver, "insert_run", err)
	}

	s.mu.Lock()
	s.runID = runID
	s.seq = 0
	s.findings = 0
	s.mu.Unlock()
	return nil
}

// FlushResult records one finding of the current run.
func (s *Store) FlushResult(ctx context.Context, verr *validation.ValidationError) error {
	s.mu.Lock()
	runID := s.runID
	seq := s.seq
	s.seq++
	s.mu.Unlock()

	if runID == "" {
		return newStoreError(s.driver, "insert_finding", ErrNoRun)
	}

	startLine, startOffset := nullablePosition(verr.StartPosition)
	endLine, endOffset := nullablePosition(verr.EndPosition)
	_, err := s.db.ExecContext(ctx, insertFinding,
		runID, seq, verr.FileName, verr.LineNumber, verr.ValidatorName, verr.Message,
		startLine, startOffset, endLine, endOffset,
	)
	if err != nil {
		return newStoreError(s.driver, "insert_finding", err)
	}

	s.mu.Lock()
	s.findings++
	s.mu.Unlock()
	return nil
}

// FlushFooter marks the current run finished.
func (s *Store) FlushFooter(ctx context.Context) error {
	s.mu.Lock()
	runID := s.runID
	findings := s.findings
	s.mu.Unlock()

	if runID == "" {
		return newStoreError(s.driver, "finish_run", ErrNoRun)
	}
	if _, err := s.db.ExecContext(ctx, finishRun, time.Now().UnixNano(), findings, runID); err != nil {
		return newStoreError(s.driver, "finish_run", err)
	}

	s.logger.Debug("run recorded", "run_id", runID, "findings", findings)
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRuns, limit)
	if err != nil {
		return nil, newStoreError(s.driver, "select_runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.Findings); err != nil {
			return nil, newStoreError(s.driver, "scan_run", err)
		}
		run.StartedAt = time.Unix(0, started)
		if finished.Valid {
			run.FinishedAt = time.Unix(0, finished.Int64)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, newStoreError(s.driver, "select_runs", err)
	}
	return runs, nil
}

// Findings returns the findings of a run in the order they were produced.
func (s *Store) Findings(ctx context.Context, runID string) ([]*validation.ValidationError, error) {
	rows, err := s.db.QueryContext(ctx, selectFindings, runID)
	if err != nil {
		return nil, newStoreError(s.driver, "select_findings", err)
	}
	defer rows.Close()

	var findings []*validation.ValidationError
	for rows.Next() {
		var f validation.ValidationError
		var startLine, startOffset, endLine, endOffset sql.NullInt64
		if err := rows.Scan(&f.FileName, &f.LineNumber, &f.ValidatorName, &f.Message,
			&startLine, &startOffset, &endLine, &endOffset); err != nil {
			return nil, newStoreError(s.driver, "scan_finding", err)
		}
		f.StartPosition = position(startLine, startOffset)
		f.EndPosition = position(endLine, endOffset)
		findings = append(findings, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, newStoreError(s.driver, "select_findings", err)
	}
	return findings, nil
}

// Prune deletes runs started before cutoff along with their findings and
// returns the number of runs removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newStoreError(s.driver, "prune", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteFindingsBefore, cutoff.UnixNano()); err != nil {
		return 0, newStoreError(s.driver, "prune_findings", err)
	}
	res, err := tx.ExecContext(ctx, deleteRunsBefore, cutoff.UnixNano())
	if err != nil {
		return 0, newStoreError(s.driver, "prune_runs", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, newStoreError(s.driver, "prune", err)
	}

	n, _ := res.RowsAffected()
	s.logger.Info("pruned history", "runs", n, "cutoff", cutoff)
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullablePosition(pos *model.LineOffset) (any, any) {
	if pos == nil {
		return nil, nil
	}
	return pos.Line, pos.Offset
}

func position(line, offset sql.NullInt64) *model.LineOffset {
	if !line.Valid {
		return nil
	}
	return &model.LineOffset{Line: int(line.Int64), Offset: int(offset.Int64)}
}
