package ingest

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// Metrics counts package outcomes. A nil *Metrics records nothing.
type Metrics struct {
	reg      *prometheus.Registry
	Outcomes *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Assets   prometheus.Counter
	Duration prometheus.Histogram
}

// NewMetrics returns metrics registered on a fresh registry
func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "acquisition_ingest_packages_total",
		Help: "Packages processed, by outcome and format.",
	}, []string{"outcome", "format"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "acquisition_ingest_failures_total",
		Help: "Failed packages, by error kind.",
	}, []string{"kind"})
	assets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "acquisition_ingest_asset_failures_total",
		Help: "Quicklook or thumbnail derivations that failed.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "acquisition_ingest_duration_seconds",
		Help:    "Time to process one package.",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(outcomes, failures, assets, duration)
	return &Metrics{
		reg:      r,
		Outcomes: outcomes,
		Failures: failures,
		Assets:   assets,
		Duration: duration,
	}
}

// Observe records the outcome of one item
func (m *Metrics) Observe(item Item, elapsed time.Duration) {
	if m == nil {
		return
	}
	format := string(item.Detection.Format)
	if format == "" {
		format = "unknown"
	}
	m.Outcomes.WithLabelValues(item.Outcome(), format).Inc()
	if item.Err != nil {
		m.Failures.WithLabelValues(kindLabel(item.Err)).Inc()
	}
	m.Assets.Add(float64(len(item.AssetErrs)))
	m.Duration.Observe(elapsed.Seconds())
}

// Gather exposes the registry, mostly for tests
func (m *Metrics) Gather() prometheus.Gatherer {
	return m.reg
}

// WriteTextfile writes the metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.reg), "write metrics to %s", path)
}

func kindLabel(err error) string {
	switch model.ErrorKind(err) {
	case model.ErrUnknownFormat:
		return "unknown_format"
	case model.ErrEmptyPackage:
		return "empty_package"
	case model.ErrMalformedMetadata:
		return "malformed_metadata"
	case model.ErrAssetDerivation:
		return "asset_derivation"
	case model.ErrCatalogWrite:
		return "catalog_write"
	}
	return "other"
}
