package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

// ColonyMetricsCollector handles population and tick loop metrics
type ColonyMetricsCollector struct {
	// Population gauges, reset every tick
	unitsByBuild *prometheus.GaugeVec
	unitsByJob   *prometheus.GaugeVec

	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	spawnsTotal   *prometheus.CounterVec
	driveFailures *prometheus.CounterVec
	skippedUnits  prometheus.Counter
}

// NewColonyMetricsCollector creates a new colony metrics collector
func NewColonyMetricsCollector() *ColonyMetricsCollector {
	return &ColonyMetricsCollector{
		unitsByBuild: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units_total",
				Help:      "Number of live units by build profile",
			},
			[]string{"build"},
		),

		unitsByJob: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units_by_job_total",
				Help:      "Number of live units by current job",
			},
			[]string{"job"},
		),

		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of completed ticks",
			},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Tick processing duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),

		spawnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "spawn_requests_total",
				Help:      "Total number of spawn requests by build and outcome",
			},
			[]string{"build", "outcome"},
		),

		driveFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "drive_failures_total",
				Help:      "Total number of failed job drive steps by job",
			},
			[]string{"job"},
		),

		skippedUnits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "skipped_units_total",
				Help:      "Total number of units skipped because their state could not be read",
			},
		),
	}
}

// Register registers all colony metrics with the Prometheus registry
func (c *ColonyMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.unitsByBuild,
		c.unitsByJob,
		c.ticksTotal,
		c.tickDuration,
		c.spawnsTotal,
		c.driveFailures,
		c.skippedUnits,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordTickCompleted records the tick duration and refreshes population gauges
func (c *ColonyMetricsCollector) RecordTickCompleted(
	durationSeconds float64,
	byBuild map[catalog.BuildProfile]int,
	byJob map[job.Kind]int,
	skipped int,
) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(durationSeconds)

	// Builds that died out must drop to zero rather than keep their last value
	c.unitsByBuild.Reset()
	for _, b := range catalog.AllProfiles {
		c.unitsByBuild.WithLabelValues(string(b)).Set(float64(byBuild[b]))
	}

	c.unitsByJob.Reset()
	for _, k := range job.AllKinds {
		c.unitsByJob.WithLabelValues(string(k)).Set(float64(byJob[k]))
	}
}

// RecordSpawnRequest counts a spawn request by build and outcome
func (c *ColonyMetricsCollector) RecordSpawnRequest(build catalog.BuildProfile, outcome shared.OutcomeCode) {
	c.spawnsTotal.WithLabelValues(string(build), outcome.Name()).Inc()
}

// RecordDriveFailure counts a failed drive step
func (c *ColonyMetricsCollector) RecordDriveFailure(kind job.Kind) {
	c.driveFailures.WithLabelValues(string(kind)).Inc()
}

// RecordSkippedUnit counts a unit skipped for the tick
func (c *ColonyMetricsCollector) RecordSkippedUnit() {
	c.skippedUnits.Inc()
}
