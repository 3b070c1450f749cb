package metrics

import (
	"sync"
	"time"

	"scribe-hq/proofread/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// otherLabel replaces label values once the cardinality limit is reached.
const otherLabel = "other"

// Collector is the main orchestrator for all Prometheus metrics in proofread.
// It manages metric registration and provides a unified interface for
// recording metrics from the pipeline and the plugin loader.
//
// Validator and plugin names are user controlled, so label values pass
// through a CardinalityLimiter.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationMetrics *ValidationMetrics
	pluginMetrics     *PluginMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "proofread",
//		Subsystem: "validation",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.validationMetrics = NewValidationMetrics(cfg, registry)
	c.pluginMetrics = NewPluginMetrics(cfg, registry)

	return c
}

// RecordRun records a completed validation run.
func (c *Collector) RecordRun(documents, findings int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordRun(documents, findings, duration)
}

// RecordPhase records the duration of one pipeline phase
// ("document", "section", "sentence").
func (c *Collector) RecordPhase(phase string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordPhase(phase, duration)
}

// RecordFinding records one finding produced by validator.
func (c *Collector) RecordFinding(validator, granularity string) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordFinding(c.limit("finding", validator), granularity)
}

// RecordPluginLoad records the outcome of loading one plugin file.
func (c *Collector) RecordPluginLoad(plugin string, err error) {
	if !c.config.Enabled {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.pluginMetrics.RecordLoad(c.limit("plugin", plugin), result)
}

// RecordHookError records a plugin hook failure.
func (c *Collector) RecordHookError(plugin, hook string) {
	if !c.config.Enabled {
		return
	}
	c.pluginMetrics.RecordHookError(c.limit("plugin", plugin), hook)
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) limit(kind, value string) string {
	if !c.cardinalityLimiter.Allow(kind + ":" + value) {
		return otherLabel
	}
	return value
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
