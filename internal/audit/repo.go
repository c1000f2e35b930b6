package audit

import (
	"context"
	"fmt"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	"gorm.io/gorm"
)

// Repository appends and reads audit rows. Each ChangeKind has its own table
// with an identical shape, so every statement carries an explicit Table().
type Repository struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one entry into the kind's change table. Rows are never
// updated or deleted afterwards.
func (r *Repository) Append(ctx context.Context, kind enums.ChangeKind, entry *models.ChangeLogEntry) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown change kind %q", kind)
	}
	return r.db.WithContext(ctx).Table(kind.Table()).Create(entry).Error
}

// ListByEntity returns the history for one entity, oldest first.
func (r *Repository) ListByEntity(ctx context.Context, kind enums.ChangeKind, entityID int64) ([]models.ChangeLogEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown change kind %q", kind)
	}
	var entries []models.ChangeLogEntry
	err := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
