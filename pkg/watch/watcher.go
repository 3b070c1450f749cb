package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReasonChange is the Job reason used for file changes.
const ReasonChange = "change"

// FileWatcherConfig contains configuration for the file watcher.
type FileWatcherConfig struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively.
	Paths []string

	// DebounceInterval is the quiet period after the last change before
	// the job runs (default: 200ms)
	DebounceInterval time.Duration

	// Extensions restricts events to these file extensions; empty watches
	// every file
	Extensions []string

	// SkipHidden ignores files and directories starting with "."
	SkipHidden bool
}

// FileWatcher re-runs a job when watched documents or rule scripts change.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   FileWatcherConfig
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	changed map[string]struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(config FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if len(config.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "watch"),
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		changed:  make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changed returns the paths changed since the last job run, sorted.
// It is meant to be called from inside the job.
func (fw *FileWatcher) Changed() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.changedLocked()
}

func (fw *FileWatcher) changedLocked() []string {
	paths := make([]string, 0, len(fw.changed))
	for p := range fw.changed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Watch blocks until ctx is cancelled or Stop is called, running job after
// every burst of relevant changes. Job errors are logged and watching
// continues.
func (fw *FileWatcher) Watch(ctx context.Context, job Job) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	for _, path := range fw.config.Paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
	}

	fw.logger.Info("file watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// New directories are watched as they appear
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !fw.hidden(event.Name) {
					if err := fw.addDirectory(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

			fw.mu.Lock()
			fw.changed[event.Name] = struct{}{}
			fw.mu.Unlock()

			fw.debounce.Trigger(func() {
				fw.run(ctx, job)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) run(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	fw.mu.Lock()
	changed := fw.changedLocked()
	fw.mu.Unlock()

	fw.logger.Info("change detected, re-running validation", "files", changed)
	err := job(ctx, ReasonChange)

	fw.mu.Lock()
	for _, p := range changed {
		delete(fw.changed, p)
	}
	fw.mu.Unlock()

	if err != nil {
		fw.logger.Error("validation run failed", "error", err)
	}
}

// Stop stops the file watcher and waits for Watch to return.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if running {
		close(fw.stopCh)
		<-fw.doneCh
	}

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addPath adds a file or directory to the watcher.
func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	// Editors replace files on save; watching the parent keeps the watch alive
	return fw.watcher.Add(filepath.Dir(path))
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.hidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) hidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// shouldProcessEvent determines if an event should trigger a run.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if fw.hidden(event.Name) {
		return false
	}
	if len(fw.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, valid := range fw.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
