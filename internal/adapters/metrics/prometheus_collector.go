package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

const (
	// Namespace for all metrics
	namespace = "colonybot"
	// Subsystem for tick loop metrics
	subsystem = "colony"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton colony metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector ColonyMetricsRecorder
)

// ColonyMetricsRecorder defines the interface for recording tick loop events
type ColonyMetricsRecorder interface {
	RecordTickCompleted(durationSeconds float64, byBuild map[catalog.BuildProfile]int, byJob map[job.Kind]int, skipped int)
	RecordSpawnRequest(build catalog.BuildProfile, outcome shared.OutcomeCode)
	RecordDriveFailure(kind job.Kind)
	RecordSkippedUnit()
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector
func SetGlobalCollector(collector ColonyMetricsRecorder) {
	globalCollector = collector
}

// RecordTickCompleted records the end of a tick globally
func RecordTickCompleted(durationSeconds float64, byBuild map[catalog.BuildProfile]int, byJob map[job.Kind]int, skipped int) {
	if globalCollector != nil {
		globalCollector.RecordTickCompleted(durationSeconds, byBuild, byJob, skipped)
	}
}

// RecordSpawnRequest records a spawn request and its outcome globally
func RecordSpawnRequest(build catalog.BuildProfile, outcome shared.OutcomeCode) {
	if globalCollector != nil {
		globalCollector.RecordSpawnRequest(build, outcome)
	}
}

// RecordDriveFailure records a failed drive step globally
func RecordDriveFailure(kind job.Kind) {
	if globalCollector != nil {
		globalCollector.RecordDriveFailure(kind)
	}
}

// RecordSkippedUnit records a unit skipped for an unreadable state globally
func RecordSkippedUnit() {
	if globalCollector != nil {
		globalCollector.RecordSkippedUnit()
	}
}
