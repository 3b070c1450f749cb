// Package distributor delivers findings to their destinations while a
// validation run is in progress.
//
// A Distributor is notified once when a run starts (FlushHeader), once per
// finding (FlushResult) and once when the run ends (FlushFooter). The
// package provides:
//
//   - Plain: "file:line: message" lines
//   - JSON: a single JSON array written at the end of the run
//   - CSV: one row per finding
//   - Multi: fan-out to several distributors
//   - Store: SQLite history of runs and findings, on either the pure Go
//     driver ("sqlite") or the cgo driver ("sqlite3")
package distributor
