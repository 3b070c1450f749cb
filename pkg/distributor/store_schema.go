package distributor

// SchemaVersion is the current history database schema version.
const SchemaVersion = 1

// Schema creates the history tables. Timestamps are Unix nanoseconds so
// both SQLite drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    finished_at INTEGER,
    findings INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS findings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    validator TEXT NOT NULL,
    message TEXT NOT NULL,
    start_line INTEGER,
    start_offset INTEGER,
    end_line INTEGER,
    end_offset INTEGER
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id, seq);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const (
	insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	getSchemaVersion    = `SELECT MAX(version) FROM schema_version`

	insertRun = `INSERT INTO runs (id, started_at) VALUES (?, ?)`
	finishRun = `UPDATE runs SET finished_at = ?, findings = ? WHERE id = ?`

	insertFinding = `
		INSERT INTO findings (
			run_id, seq, file, line, validator, message,
			start_line, start_offset, end_line, end_offset
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRuns = `
		SELECT id, started_at, finished_at, findings
		FROM runs ORDER BY started_at DESC LIMIT ?`

	selectFindings = `
		SELECT file, line, validator, message,
			start_line, start_offset, end_line, end_offset
		FROM findings WHERE run_id = ? ORDER BY seq`

	deleteFindingsBefore = `DELETE FROM findings WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`
	deleteRunsBefore     = `DELETE FROM runs WHERE started_at < ?`
)
