// Package health serves liveness, readiness and version endpoints for
// long-running watch sessions.
//
// Readiness runs registered component checks concurrently, each bounded
// by the checker timeout. Liveness also reports the most recent
// validation run recorded with RecordRun.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("scripts", func(ctx context.Context) error {
//	    _, err := os.Stat(dir)
//	    return err
//	})
//	health.Register(mux, checker, version, commit, buildTime)
package health
