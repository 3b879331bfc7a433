package persistence

import (
	"time"
)

// UnitStateModel represents the unit_states table
type UnitStateModel struct {
	UnitID    string    `gorm:"column:unit_id;primaryKey;not null"`
	Build     string    `gorm:"column:build;not null"`
	Job       string    `gorm:"column:job;type:text"` // JSON as text
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (UnitStateModel) TableName() string {
	return "unit_states"
}

// TickLogModel represents the tick_logs table
type TickLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index"`
	Tick      uint64    `gorm:"column:tick"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;default:INFO"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (TickLogModel) TableName() string {
	return "tick_logs"
}

// AllModels lists every model the schema migration must create
func AllModels() []interface{} {
	return []interface{}{
		&UnitStateModel{},
		&TickLogModel{},
	}
}
