package metrics

import (
	"scribe-hq/proofread/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PluginMetrics tracks rule-script plugins.
//
// Metrics:
//   - proofread_validation_plugin_loads_total: Plugin loads by plugin and result
//   - proofread_validation_plugin_hook_errors_total: Hook failures by plugin and hook
type PluginMetrics struct {
	loadsTotal      *prometheus.CounterVec
	hookErrorsTotal *prometheus.CounterVec
}

// NewPluginMetrics creates and registers plugin metrics with the provided registry.
func NewPluginMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PluginMetrics {
	pm := &PluginMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "plugin_loads_total",
				Help:      "Total number of plugin loads by result",
			},
			[]string{"plugin", "result"},
		),

		hookErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "plugin_hook_errors_total",
				Help:      "Total number of plugin hook failures",
			},
			[]string{"plugin", "hook"},
		),
	}

	registry.MustRegister(pm.loadsTotal, pm.hookErrorsTotal)

	return pm
}

// RecordLoad records a plugin load.
func (pm *PluginMetrics) RecordLoad(plugin, result string) {
	pm.loadsTotal.WithLabelValues(plugin, result).Inc()
}

// RecordHookError records a hook failure.
func (pm *PluginMetrics) RecordHookError(plugin, hook string) {
	pm.hookErrorsTotal.WithLabelValues(plugin, hook).Inc()
}
