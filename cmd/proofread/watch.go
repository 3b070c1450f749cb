package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scribe-hq/proofread/pkg/cli"
	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/distributor"
	"scribe-hq/proofread/pkg/proofread"
	"scribe-hq/proofread/pkg/script"
	"scribe-hq/proofread/pkg/telemetry/health"
	"scribe-hq/proofread/pkg/telemetry/logging"
	"scribe-hq/proofread/pkg/telemetry/metrics"
	"scribe-hq/proofread/pkg/telemetry/tracing"
	"scribe-hq/proofread/pkg/watch"
)

// inputExtensions are the document files picked up from watched directories.
var inputExtensions = []string{".txt", ".md", ".yaml", ".yml"}

var watchFlags struct {
	format   string
	schedule string
	debounce time.Duration
	listen   string
}

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-run validation when documents or rule scripts change",
	Long: `Validate documents, then keep watching them and the rule script
directory. Every burst of changes triggers a new run; a cron schedule can
trigger runs as well, e.g. to pick up rule scripts pulled from git.

Directories are searched recursively for .txt, .md, .yaml and .yml files.
Rule scripts that did not change are not read again between runs.

When a listen address is configured, Prometheus metrics and the /health,
/ready and /version endpoints are served.

Examples:
  # Watch a docs directory
  proofread watch docs/

  # Also re-run every 10 minutes and serve metrics
  proofread watch --schedule "*/10 * * * *" --listen :9090 docs/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "", "output format: plain, json, csv (overrides config)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron schedule for periodic runs (overrides config)")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period after a change (overrides config)")
	watchCmd.Flags().StringVar(&watchFlags.listen, "listen", "", "metrics and health listen address (overrides config)")
}

// watchSession holds everything shared by the runs of one watch command.
type watchSession struct {
	cfg       *config.Config
	paths     []string
	logger    *slog.Logger
	loader    *script.Loader
	out       distributor.Distributor
	store     *distributor.Store
	collector *metrics.Collector
	tracer    *tracing.Tracer
	checker   *health.Checker
}

func newWatchSession(cfg *config.Config, paths []string, w io.Writer, logger *slog.Logger) (*watchSession, error) {
	out, store, err := proofread.OpenDistributor(&cfg.Output, w, logger)
	if err != nil {
		return nil, err
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	s := &watchSession{
		cfg:       cfg,
		paths:     paths,
		logger:    logger,
		loader:    script.NewLoader(script.DefaultLoaderConfig(), script.NewFileCache(), logger),
		out:       out,
		store:     store,
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:    tracer,
		checker:   health.New(0),
	}

	s.checker.RegisterCheck("scripts", func(ctx context.Context) error {
		for _, dir := range scriptDirs(cfg) {
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
		}
		return nil
	})
	if store != nil {
		s.checker.RegisterCheck("store", store.Ping)
	}
	return s, nil
}

// run performs one validation run. The pipeline is rebuilt every time so
// configuration-driven plugin sets see added and removed scripts.
func (s *watchSession) run(ctx context.Context, reason string) error {
	ctx = logging.WithRunID(ctx, uuid.New().String())
	start := time.Now()

	findings, err := s.check(ctx)
	s.checker.RecordRun(findings, err)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "validation run finished",
		"reason", reason,
		"findings", findings,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *watchSession) check(ctx context.Context) (int, error) {
	p, err := proofread.Build(ctx, s.cfg, proofread.Options{
		Logger:      s.logger,
		Distributor: s.out,
		Metrics:     s.collector,
		Tracer:      s.tracer,
		Loader:      s.loader,
	})
	if err != nil {
		return 0, err
	}

	inputs, err := expandInputs(s.paths)
	if err != nil {
		return 0, err
	}
	docs, err := proofread.LoadInputs(inputs...)
	if err != nil {
		return 0, err
	}

	findings, err := p.Check(ctx, docs)
	return len(findings), err
}

// watchPaths returns the inputs plus the local script directory.
func (s *watchSession) watchPaths() []string {
	paths := append([]string(nil), s.paths...)
	for _, dir := range scriptDirs(s.cfg) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	return paths
}

// scriptDirs lists the local plugin directories the Script validator entries
// load from. Entries without script-path read the git checkout when a git
// source is enabled; it is synchronised by every run and not listed.
func scriptDirs(cfg *config.Config) []string {
	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	configured := false
	for _, vc := range cfg.Validators {
		if vc.Name != script.ValidatorName {
			continue
		}
		configured = true
		if cfg.Scripts.Git.Enabled && vc.StringProperty(script.PathProperty, "") == "" {
			continue
		}
		add(script.Directory(vc, cfg.Scripts.Directory))
	}
	if !configured && !cfg.Scripts.Git.Enabled {
		add(script.Directory(config.ValidatorConfig{}, cfg.Scripts.Directory))
	}
	return dirs
}

// serve exposes metrics and health endpoints until ctx is done.
func (s *watchSession) serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Telemetry.Metrics.Path, s.collector.Handler())
	health.Register(mux, s.checker, Version, GitCommit, BuildDate)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("serving metrics and health", "address", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *watchSession) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Telemetry.Tracing.Timeout)
	defer cancel()
	if err := s.tracer.Shutdown(ctx); err != nil {
		s.logger.Warn("failed to flush traces", "error", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("failed to close findings store", "error", err)
		}
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchFlags.format != "" {
		cfg.Output.Format = watchFlags.format
	}
	if watchFlags.schedule != "" {
		cfg.Watch.Schedule = watchFlags.schedule
	}
	if watchFlags.debounce > 0 {
		cfg.Watch.Debounce = watchFlags.debounce
	}
	if watchFlags.listen != "" {
		cfg.Telemetry.Metrics.ListenAddress = watchFlags.listen
		cfg.Telemetry.Metrics.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	session, err := newWatchSession(cfg, args, cmd.OutOrStdout(), logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer session.close()

	if addr := cfg.Telemetry.Metrics.ListenAddress; addr != "" {
		go func() {
			if err := session.serve(ctx, addr); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	job := watch.Serialize(session.run)
	if err := job(ctx, watch.ReasonStartup); err != nil {
		logger.Error("validation run failed", "error", err)
	}

	scheduler := watch.NewScheduler(cfg.Watch.Schedule, job, logger)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer scheduler.Stop()

	watcher, err := watch.NewFileWatcher(watch.FileWatcherConfig{
		Paths:            session.watchPaths(),
		DebounceInterval: cfg.Watch.Debounce,
		SkipHidden:       true,
	}, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	if err := watcher.Watch(ctx, job); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// expandInputs replaces every directory in paths by the document files it
// contains, in lexical order. Hidden entries are skipped.
func expandInputs(paths []string) ([]string, error) {
	var inputs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != path && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && isInput(p) {
				inputs = append(inputs, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

func isInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range inputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
