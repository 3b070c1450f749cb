package proofread

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"scribe-hq/proofread/pkg/config"
	"scribe-hq/proofread/pkg/distributor"
	"scribe-hq/proofread/pkg/messages"
	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/parser"
	"scribe-hq/proofread/pkg/pipeline"
	"scribe-hq/proofread/pkg/script"
	scriptgit "scribe-hq/proofread/pkg/script/git"
	"scribe-hq/proofread/pkg/telemetry/metrics"
	"scribe-hq/proofread/pkg/telemetry/tracing"
	"scribe-hq/proofread/pkg/validation"
	"scribe-hq/proofread/pkg/validation/builtin"
)

// Options carries the collaborators of a pipeline built by Build.
// Every field is optional.
type Options struct {
	// Logger is the base logger; nil means slog.Default()
	Logger *slog.Logger

	// Distributor receives findings; nil discards them
	Distributor distributor.Distributor

	// Metrics records run, phase, finding and plugin metrics
	Metrics *metrics.Collector

	// Tracer creates run spans; nil disables tracing
	Tracer *tracing.Tracer

	// Loader is reused across builds so unchanged plugin files are not
	// read again. Nil creates a fresh loader.
	Loader *script.Loader
}

// NewRegistry returns a registry holding every built-in validator and the
// Script validator backed by loader. scriptDir is the plugin directory used
// when a Script entry has no script-path property.
func NewRegistry(loader *script.Loader, scriptDir string, strict bool) (*validation.Registry, error) {
	reg := validation.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		return nil, err
	}
	if err := reg.Register(script.Factory(loader, scriptDir, strict)); err != nil {
		return nil, err
	}
	return reg, nil
}

// Build resolves the validators named by cfg and returns a pipeline ready
// to check collections. When cfg enables a git script source the
// repository is synchronised first and its script directory replaces
// cfg.Scripts.Directory.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*pipeline.Pipeline, error) {
	if cfg == nil {
		return nil, &validation.RegistrationError{Message: "validator configuration is missing"}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loader := opts.Loader
	if loader == nil {
		loader = script.NewLoader(script.DefaultLoaderConfig(), script.NewFileCache(), logger)
	}
	if opts.Metrics != nil {
		loader.SetRecorder(opts.Metrics)
	}

	scriptDir := cfg.Scripts.Directory
	if cfg.Scripts.Git.Enabled {
		dir, err := SyncScripts(ctx, &cfg.Scripts.Git, loader, logger)
		if err != nil {
			return nil, err
		}
		scriptDir = dir
	}

	bundle, err := messages.New(cfg.Lang)
	if err != nil {
		return nil, &validation.RegistrationError{Message: "failed to load messages", Cause: err}
	}

	reg, err := NewRegistry(loader, scriptDir, cfg.Scripts.Strict)
	if err != nil {
		return nil, err
	}

	buckets, err := reg.Build(cfg, &validation.Environment{
		Logger:   logger,
		Messages: bundle,
	})
	if err != nil {
		return nil, err
	}

	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithDistributor(opts.Distributor),
		pipeline.WithTracer(opts.Tracer),
	}
	if opts.Metrics != nil {
		pipeOpts = append(pipeOpts, pipeline.WithMetrics(opts.Metrics))
	}
	return pipeline.New(buckets, pipeOpts...)
}

// SyncScripts clones or pulls the script repository described by cfg and
// returns the directory holding its scripts. Changed scripts are evicted
// from the loader cache.
func SyncScripts(ctx context.Context, cfg *config.GitConfig, loader *script.Loader, logger *slog.Logger) (string, error) {
	src, err := scriptgit.NewSource(cfg, script.Suffix, logger)
	if err != nil {
		return "", &validation.RegistrationError{Validator: script.ValidatorName, Message: "invalid script repository", Cause: err}
	}
	result, err := src.Sync(ctx)
	if err != nil {
		return "", &validation.RegistrationError{Validator: script.ValidatorName, Message: "failed to synchronise script repository", Cause: err}
	}
	if loader != nil {
		root := cfg.LocalPath
		if root == "" {
			root = config.DefaultGitLocalPath
		}
		// git reports paths relative to the repository root
		for _, rel := range result.ChangedScripts {
			loader.Cache().Invalidate(filepath.Join(root, filepath.FromSlash(rel)))
		}
	}
	return src.ScriptDir(), nil
}

// OpenDistributor returns the distributor selected by cfg.Output writing to
// w. When the history store is enabled the store is returned as well and
// receives every notification; the caller closes it.
func OpenDistributor(cfg *config.OutputConfig, w io.Writer, logger *slog.Logger) (distributor.Distributor, *distributor.Store, error) {
	out, err := distributor.New(cfg.Format, w)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Store.Enabled {
		return out, nil, nil
	}
	store, err := distributor.NewStore(&cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	return distributor.NewMulti(out, store), store, nil
}

// LoadInputs reads every path into one collection. YAML files hold
// serialized collections; anything else is parsed as plain text.
func LoadInputs(paths ...string) (*model.DocumentCollection, error) {
	collection := model.NewDocumentCollection()
	for _, path := range paths {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			loaded, err := model.LoadCollection(path)
			if err != nil {
				return nil, err
			}
			collection.Documents = append(collection.Documents, loaded.Documents...)
		default:
			doc, err := parser.ParseFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %q: %w", path, err)
			}
			collection.Documents = append(collection.Documents, doc)
		}
	}
	return collection, nil
}
