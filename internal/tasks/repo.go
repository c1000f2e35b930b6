package tasks

import (
	"context"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	"gorm.io/gorm"
)

// Repository manages persistence for task rows and their reservations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new task row.
func (r *Repository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID loads the task without associations.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks, optionally narrowed to one start date.
func (r *Repository) List(ctx context.Context, startDate *string) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Order("start_date ASC, id ASC")
	if startDate != nil && *startDate != "" {
		q = q.Where("start_date = ?", *startDate)
	}
	var rows []models.Task
	err := q.Find(&rows).Error
	return rows, err
}

// Update saves the full task row.
func (r *Repository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// UpdateStatus flips only the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.TaskStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes the task row itself. Links and reservations are cleared by
// the service beforehand, inside the same transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}

// DistinctDates returns every distinct start date that has at least one task.
func (r *Repository) DistinctDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Distinct("start_date").
		Where("start_date IS NOT NULL").
		Order("start_date ASC").
		Pluck("start_date", &dates).Error
	return dates, err
}

// ListReservations returns the raw reservation rows held by a task.
func (r *Repository) ListReservations(ctx context.Context, taskID int64) ([]models.TaskInventory, error) {
	var rows []models.TaskInventory
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("inventory_id ASC").
		Find(&rows).Error
	return rows, err
}

// DeleteReservations drops all reservation rows of a task. Stock must have
// been released first or the conservation invariant breaks.
func (r *Repository) DeleteReservations(ctx context.Context, taskID int64) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&models.TaskInventory{}).Error
}

// ListReservationDetails joins reservations with the item catalog for reads.
func (r *Repository) ListReservationDetails(ctx context.Context, taskID int64) ([]ReservationDTO, error) {
	var rows []ReservationDTO
	err := r.db.WithContext(ctx).
		Table("task_inventory ti").
		Select("ti.inventory_id, i.name, i.measure, ti.quantity").
		Joins("JOIN inventory i ON i.id = ti.inventory_id").
		Where("ti.task_id = ?", taskID).
		Order("ti.inventory_id ASC").
		Scan(&rows).Error
	return rows, err
}
