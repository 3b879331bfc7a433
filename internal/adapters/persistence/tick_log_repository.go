package persistence

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

// TickLogRepository manages tick log persistence
type TickLogRepository interface {
	// Log writes a log entry to the database with deduplication
	Log(ctx context.Context, runID string, tick uint64, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves logs for a run with optional filtering
	GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]TickLogEntry, error)

	// ListRuns returns the known run ids, most recent first
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// TickLogEntry represents a log entry
type TickLogEntry struct {
	ID        int
	RunID     string
	Tick      uint64
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// RunSummary describes one run found in the log table
type RunSummary struct {
	RunID    string
	Entries  int
	LastTick uint64
	LastID   int
}

// GormTickLogRepository is a GORM-based implementation
type GormTickLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// Deduplication cache
	dedupCache   map[string]time.Time // key: runID|tick|message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormTickLogRepository creates a new tick log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormTickLogRepository(db *gorm.DB, clock shared.Clock) *GormTickLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormTickLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000, // Max cache entries before cleanup
	}
}

// Log writes a log entry with time-windowed deduplication
func (r *GormTickLogRepository) Log(ctx context.Context, runID string, tick uint64, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	// Only repeats within the same tick are merged; every tick keeps its own entry
	cacheKey := runID + "|" + strconv.FormatUint(tick, 10) + "|" + message

	r.dedupMu.Lock()

	if lastLogged, exists := r.dedupCache[cacheKey]; exists {
		if now.Sub(lastLogged) < r.dedupWindow {
			// Duplicate within window, skip logging
			r.dedupMu.Unlock()
			return nil
		}
	}

	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache()
	}

	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	// Metadata is optional; an unmarshalable map is stored empty
	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	logEntry := &TickLogModel{
		RunID:     runID,
		Tick:      tick,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}

	return r.db.WithContext(ctx).Create(logEntry).Error
}

// cleanupDedupCache removes old entries from the deduplication cache
// Must be called while holding dedupMu lock
func (r *GormTickLogRepository) cleanupDedupCache() {
	cutoff := r.clock.Now().Add(-r.dedupWindow)

	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs for a run with pagination support
func (r *GormTickLogRepository) GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]TickLogEntry, error) {
	var models []TickLogModel

	query := r.db.WithContext(ctx).Where("run_id = ?", runID)

	if level != nil {
		query = query.Where("level = ?", *level)
	}

	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}

	query = query.Order("timestamp DESC").Order("id DESC").Limit(limit).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]TickLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}

		entries[i] = TickLogEntry{
			ID:        model.ID,
			RunID:     model.RunID,
			Tick:      model.Tick,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}

	return entries, nil
}

// ListRuns returns the runs recorded in the log table, most recent first
func (r *GormTickLogRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	var rows []RunSummary

	err := r.db.WithContext(ctx).
		Model(&TickLogModel{}).
		Select("run_id, COUNT(*) AS entries, MAX(tick) AS last_tick, MAX(id) AS last_id").
		Group("run_id").
		Order("last_id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// RunLogger adapts the repository to logging.ColonyLogger for one run.
// The tick is taken from the "tick" metadata key when present.
type RunLogger struct {
	repo  TickLogRepository
	runID string
}

// NewRunLogger creates a logger that writes entries of one run
func NewRunLogger(repo TickLogRepository, runID string) *RunLogger {
	return &RunLogger{repo: repo, runID: runID}
}

// Log persists the entry; persistence errors are swallowed
func (l *RunLogger) Log(level, message string, metadata map[string]interface{}) {
	var tick uint64
	if v, ok := metadata["tick"].(uint64); ok {
		tick = v
	}
	_ = l.repo.Log(context.Background(), l.runID, tick, message, level, metadata)
}

// RunID returns the run this logger writes to
func (l *RunLogger) RunID() string {
	return l.runID
}
