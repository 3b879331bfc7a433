package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/colonybot-go/internal/domain/job"
	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
	"github.com/andrescamacho/colonybot-go/internal/domain/unit"
)

// StoredUnitState is a unit state together with its bookkeeping columns
type StoredUnitState struct {
	UnitID string
	State  *unit.UnitState
	Model  UnitStateModel
	Err    error
}

// GormUnitStateRepository implements unit.StateRepository using GORM
type GormUnitStateRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormUnitStateRepository creates a new unit state repository
// If clock is nil, uses RealClock
func NewGormUnitStateRepository(db *gorm.DB, clock shared.Clock) *GormUnitStateRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormUnitStateRepository{db: db, clock: clock}
}

// Load retrieves the stored state of a unit
func (r *GormUnitStateRepository) Load(ctx context.Context, unitID string) (*unit.UnitState, error) {
	var model UnitStateModel
	result := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, unit.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load unit state: %w", result.Error)
	}

	return r.modelToState(&model)
}

// Store upserts the state of a unit
func (r *GormUnitStateRepository) Store(ctx context.Context, unitID string, state *unit.UnitState) error {
	model, err := r.stateToModel(unitID, state)
	if err != nil {
		return shared.NewStateEncodeError(unitID, err)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"build", "job", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to store unit state: %w", result.Error)
	}

	return nil
}

// Delete removes the stored state of a unit that no longer exists
func (r *GormUnitStateRepository) Delete(ctx context.Context, unitID string) error {
	result := r.db.WithContext(ctx).Where("unit_id = ?", unitID).Delete(&UnitStateModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete unit state: %w", result.Error)
	}
	return nil
}

// DeleteAll removes every stored state and returns how many were removed
func (r *GormUnitStateRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&UnitStateModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear unit states: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListAll retrieves every stored state ordered by unit id. Records that
// cannot be decoded are returned with Err set instead of being dropped.
func (r *GormUnitStateRepository) ListAll(ctx context.Context) ([]StoredUnitState, error) {
	var models []UnitStateModel
	result := r.db.WithContext(ctx).Order("unit_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list unit states: %w", result.Error)
	}

	states := make([]StoredUnitState, 0, len(models))
	for _, model := range models {
		state, err := r.modelToState(&model)
		states = append(states, StoredUnitState{
			UnitID: model.UnitID,
			State:  state,
			Model:  model,
			Err:    err,
		})
	}

	return states, nil
}

func (r *GormUnitStateRepository) stateToModel(unitID string, state *unit.UnitState) (*UnitStateModel, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}

	data := state.ToData()
	jobJSON, err := json.Marshal(data.Job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	return &UnitStateModel{
		UnitID:    unitID,
		Build:     data.Build,
		Job:       string(jobJSON),
		UpdatedAt: r.clock.Now(),
	}, nil
}

func (r *GormUnitStateRepository) modelToState(model *UnitStateModel) (*unit.UnitState, error) {
	var jobData job.Data
	if model.Job != "" {
		if err := json.Unmarshal([]byte(model.Job), &jobData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job: %w", err)
		}
	}

	state, err := unit.FromData(&unit.Data{Build: model.Build, Job: jobData})
	if err != nil {
		return nil, fmt.Errorf("failed to decode unit state: %w", err)
	}

	return state, nil
}
