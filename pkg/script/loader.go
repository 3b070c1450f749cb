package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	// DefaultDirectory is the plugin directory used when none is configured.
	DefaultDirectory = "rules"

	// PathProperty is the Script validator property overriding the directory.
	PathProperty = "script-path"

	// Suffix is the file suffix of plugin files.
	Suffix = ".go"
)

// LoaderConfig contains configuration for loading plugin files.
type LoaderConfig struct {
	// Suffix selects plugin files (default: ".go")
	Suffix string

	// MaxFileSize is the maximum plugin file size in bytes (default: 1MB)
	MaxFileSize int64

	// SkipHidden skips files starting with "." (default: true)
	SkipHidden bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Suffix:      Suffix,
		MaxFileSize: 1024 * 1024,
		SkipHidden:  true,
	}
}

// Recorder receives plugin outcomes, typically for metrics.
type Recorder interface {
	// RecordPluginLoad is called once per plugin file; err is nil on success.
	RecordPluginLoad(plugin string, err error)

	// RecordHookError is called when a hook fails at run time.
	RecordHookError(plugin, hook string)
}

type nopRecorder struct{}

func (nopRecorder) RecordPluginLoad(string, error)  {}
func (nopRecorder) RecordHookError(string, string) {}

type compiledEntry struct {
	content string
	plugin  *Plugin
}

// Loader discovers and compiles plugins. File content comes from a FileCache
// and compiled plugins are reused while their file content is unchanged, so
// repeated loads of an unchanged directory neither read nor recompile files.
type Loader struct {
	config   *LoaderConfig
	cache    *FileCache
	logger   *slog.Logger
	recorder Recorder

	mu       sync.Mutex
	compiled map[string]compiledEntry
}

// NewLoader creates a loader. A nil config uses DefaultLoaderConfig, a nil
// cache creates a private one and a nil logger uses slog.Default().
func NewLoader(config *LoaderConfig, cache *FileCache, logger *slog.Logger) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	if cache == nil {
		cache = NewFileCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		config:   config,
		cache:    cache,
		logger:   logger.With("component", "script"),
		recorder: nopRecorder{},
		compiled: make(map[string]compiledEntry),
	}
}

// SetRecorder installs r to receive plugin outcomes.
func (l *Loader) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	l.recorder = r
}

// Cache returns the file cache used by the loader.
func (l *Loader) Cache() *FileCache {
	return l.cache
}

// Load compiles every plugin file in dir. An empty dir means
// DefaultDirectory. A missing directory is created and yields no plugins.
//
// Directory failures are returned as *IOError with no plugins. Failures of
// individual files are collected in an *ErrorList returned together with the
// plugins that did load.
func (l *Loader) Load(dir string) ([]*Plugin, error) {
	if dir == "" {
		dir = DefaultDirectory
	}

	paths, err := l.discover(dir)
	if err != nil {
		return nil, err
	}

	var plugins []*Plugin
	errList := &ErrorList{}

	for _, path := range paths {
		plugin, err := l.LoadFile(path)
		name := filepath.Base(path)
		l.recorder.RecordPluginLoad(name, err)
		if err != nil {
			l.logger.Error("failed to load plugin",
				"plugin", name,
				"path", path,
				"error", err,
			)
			errList.Add(err)
			continue
		}
		plugins = append(plugins, plugin)
	}

	l.logger.Debug("plugins loaded",
		"directory", dir,
		"loaded", len(plugins),
		"failed", len(errList.Errors),
	)

	if errList.HasErrors() {
		return plugins, errList
	}
	return plugins, nil
}

// LoadFile compiles a single plugin file.
func (l *Loader) LoadFile(path string) (*Plugin, error) {
	name := filepath.Base(path)

	src, err := l.cache.Load(path)
	if err != nil {
		return nil, &IOError{FilePath: path, Message: "cannot read file", Cause: err}
	}
	if l.config.MaxFileSize > 0 && int64(len(src)) > l.config.MaxFileSize {
		return nil, &IOError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", len(src), l.config.MaxFileSize),
		}
	}
	if !utf8.ValidString(src) {
		return nil, &LoadError{Plugin: name, FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.compiled[key]; ok && entry.content == src {
		return entry.plugin, nil
	}

	plugin, err := Compile(name, path, src)
	if err != nil {
		delete(l.compiled, key)
		return nil, err
	}
	l.compiled[key] = compiledEntry{content: src, plugin: plugin}
	return plugin, nil
}

// discover lists the plugin files of dir in name order, creating dir when
// it does not exist.
func (l *Loader) discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IOError{FilePath: dir, Message: "failed to create plugin directory", Cause: err}
		}
		l.logger.Info("created plugin directory", "directory", dir)
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{FilePath: dir, Message: "failed to access plugin directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &IOError{FilePath: dir, Message: "not a directory"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{FilePath: dir, Message: "failed to list plugin directory", Cause: err}
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if l.config.SkipHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, l.config.Suffix) || strings.HasSuffix(name, "_test.go") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
