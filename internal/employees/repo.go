package employees

import (
	"context"

	"github.com/Teffi0/server/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages the employee and responsible rosters.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all employees ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Employee, error) {
	var rows []models.Employee
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&rows).Error
	return rows, err
}

// FindByID loads one employee.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create inserts an employee row.
func (r *Repository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// Update saves the full employee row.
func (r *Repository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Delete removes an employee row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{}).Error
}

// CountAssignments reports how many task links reference the employee.
func (r *Repository) CountAssignments(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskEmployee{}).
		Where("employee_id = ?", id).
		Count(&count).Error
	return count, err
}

// ListResponsibles returns the roster of people who may own a task.
func (r *Repository) ListResponsibles(ctx context.Context) ([]models.Responsible, error) {
	var rows []models.Responsible
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&rows).Error
	return rows, err
}
