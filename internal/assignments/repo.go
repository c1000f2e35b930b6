package assignments

import (
	"context"
	"fmt"

	"github.com/Teffi0/server/pkg/db/models"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"gorm.io/gorm"
)

// Repository maintains the many-to-many links between a task and its
// employees and services. Replacements are wholesale: the previous link set
// is deleted and the new one inserted, which makes repeated calls with the
// same set idempotent.
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

// ReplaceEmployees swaps the task's employee set and refreshes the
// denormalized count on the task row. Every id must reference an existing
// employee; otherwise the call fails listing the unknown ids and nothing
// changes.
func (r *Repository) ReplaceEmployees(ctx context.Context, taskID int64, employeeIDs []int64) error {
	employeeIDs = dedupe(employeeIDs)
	if missing, err := r.missingIDs(ctx, &models.Employee{}, employeeIDs); err != nil {
		return fmt.Errorf("check employees exist: %w", err)
	} else if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "one or more employee ids do not exist").
			WithDetails(map[string]any{"missing_ids": missing})
	}

	tx := r.db.WithContext(ctx)
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskEmployee{}).Error; err != nil {
		return fmt.Errorf("clear employee links for task %d: %w", taskID, err)
	}

	if len(employeeIDs) > 0 {
		links := make([]models.TaskEmployee, 0, len(employeeIDs))
		for _, id := range employeeIDs {
			links = append(links, models.TaskEmployee{TaskID: taskID, EmployeeID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("insert employee links for task %d: %w", taskID, err)
		}
	}

	return r.recountEmployees(ctx, taskID)
}

// ReplaceServices swaps the task's service set. Services carry no
// denormalized counter, so no recount happens.
func (r *Repository) ReplaceServices(ctx context.Context, taskID int64, serviceIDs []int64) error {
	serviceIDs = dedupe(serviceIDs)
	if missing, err := r.missingIDs(ctx, &models.Service{}, serviceIDs); err != nil {
		return fmt.Errorf("check services exist: %w", err)
	} else if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "one or more service ids do not exist").
			WithDetails(map[string]any{"missing_ids": missing})
	}

	tx := r.db.WithContext(ctx)
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskService{}).Error; err != nil {
		return fmt.Errorf("clear service links for task %d: %w", taskID, err)
	}

	if len(serviceIDs) == 0 {
		return nil
	}
	links := make([]models.TaskService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		links = append(links, models.TaskService{TaskID: taskID, ServiceID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("insert service links for task %d: %w", taskID, err)
	}
	return nil
}

// ListParticipants returns the employees linked to a task.
func (r *Repository) ListParticipants(ctx context.Context, taskID int64) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Joins("JOIN task_employees te ON te.employee_id = employees.id").
		Where("te.task_id = ?", taskID).
		Order("employees.id ASC").
		Find(&employees).Error
	return employees, err
}

// ListServices returns the catalog services linked to a task.
func (r *Repository) ListServices(ctx context.Context, taskID int64) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Joins("JOIN task_services ts ON ts.service_id = services.id").
		Where("ts.task_id = ?", taskID).
		Order("services.id ASC").
		Find(&services).Error
	return services, err
}

// DeleteAllForTask removes every link row of the task, used by cascade
// delete. The denormalized count dies with the task row.
func (r *Repository) DeleteAllForTask(ctx context.Context, taskID int64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskEmployee{}).Error; err != nil {
		return fmt.Errorf("delete employee links for task %d: %w", taskID, err)
	}
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskService{}).Error; err != nil {
		return fmt.Errorf("delete service links for task %d: %w", taskID, err)
	}
	return nil
}

// recountEmployees recomputes the employees column for exactly one task from
// its link rows, inside the same transaction as the link change.
func (r *Repository) recountEmployees(ctx context.Context, taskID int64) error {
	tx := r.db.WithContext(ctx)
	var count int64
	if err := tx.Model(&models.TaskEmployee{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		return fmt.Errorf("count employee links for task %d: %w", taskID, err)
	}
	if err := tx.Model(&models.Task{}).Where("id = ?", taskID).Update("employees", count).Error; err != nil {
		return fmt.Errorf("store employee count for task %d: %w", taskID, err)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingIDs returns the requested ids that have no row in the model's table.
func (r *Repository) missingIDs(ctx context.Context, model any, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
