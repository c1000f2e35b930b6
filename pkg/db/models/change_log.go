package models

import "time"

// ChangeLogEntry is one append-only audit row. The same shape backs the
// client_changes, employee_changes and inventory_changes tables, so callers
// must always address it through an explicit Table() clause.
type ChangeLogEntry struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID    int64     `gorm:"column:entity_id;not null"`
	ActorID     int64     `gorm:"column:actor_id;not null"`
	Description string    `gorm:"column:description;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
