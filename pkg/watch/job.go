package watch

import (
	"context"
	"sync"
)

// ReasonStartup is the Job reason used for the first run of a session.
const ReasonStartup = "startup"

// Job re-runs validation. reason describes the trigger ("startup", "change",
// "schedule").
type Job func(ctx context.Context, reason string) error

// Serialize returns a Job that never runs concurrently with itself. File
// changes and scheduled runs may fire together; the second caller waits.
func Serialize(job Job) Job {
	var mu sync.Mutex
	return func(ctx context.Context, reason string) error {
		mu.Lock()
		defer mu.Unlock()
		return job(ctx, reason)
	}
}
