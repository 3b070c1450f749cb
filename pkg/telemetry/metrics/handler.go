package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scrapeLimit bounds concurrent scrapes of a watch session.
const scrapeLimit = 4

// Handler serves the collector registry in the Prometheus text format.
// Collection errors are logged and the remaining metrics are still served.
// Scrapes themselves are counted in promhttp_metric_handler_requests_total.
func (c *Collector) Handler() http.Handler {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorLog:            scrapeLogger{slog.Default()},
		ErrorHandling:       promhttp.ContinueOnError,
		MaxRequestsInFlight: scrapeLimit,
	})
	return promhttp.InstrumentMetricHandler(c.registry, h)
}

// scrapeLogger adapts slog to promhttp.Logger.
type scrapeLogger struct {
	logger *slog.Logger
}

func (l scrapeLogger) Println(v ...any) {
	l.logger.Error("metrics scrape failed", "component", "metrics", "error", v)
}
