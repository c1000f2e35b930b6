package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/Teffi0/server/pkg/db"
	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
)

type auditRecorder interface {
	RecordAsync(ctx context.Context, kind enums.ChangeKind, entityID, actorID int64, description string)
}

// EmployeeDTO is the wire shape for employee and responsible reads.
type EmployeeDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// Service manages the employee roster.
type Service struct {
	repo  *Repository
	audit auditRecorder
}

// NewService builds the employees service.
func NewService(repo *Repository, audit auditRecorder) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employees repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{repo: repo, audit: audit}, nil
}

// List returns all employees.
func (s *Service) List(ctx context.Context) ([]EmployeeDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	dtos := make([]EmployeeDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, EmployeeDTO{ID: row.ID, FullName: row.FullName})
	}
	return dtos, nil
}

// Create adds an employee.
func (s *Service) Create(ctx context.Context, fullName string, actorID int64) (int64, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields: full_name")
	}
	employee := models.Employee{FullName: fullName}
	if err := s.repo.Create(ctx, &employee); err != nil {
		return 0, fmt.Errorf("create employee: %w", err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindEmployee, employee.ID, actorID,
		fmt.Sprintf("created employee %q", fullName))
	return employee.ID, nil
}

// Update renames an employee.
func (s *Service) Update(ctx context.Context, id int64, fullName string, actorID int64) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields: full_name")
	}
	employee, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	previous := employee.FullName
	employee.FullName = fullName
	if err := s.repo.Update(ctx, employee); err != nil {
		return fmt.Errorf("update employee %d: %w", id, err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindEmployee, id, actorID,
		fmt.Sprintf("renamed employee %q -> %q", previous, fullName))
	return nil
}

// Delete removes an employee. Employees still linked to tasks stay put so the
// participant lists remain truthful.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	assigned, err := s.repo.CountAssignments(ctx, id)
	if err != nil {
		return fmt.Errorf("count assignments of employee %d: %w", id, err)
	}
	if assigned > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("employee %d is assigned to %d task(s)", id, assigned))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindEmployee, id, actorID, "deleted employee")
	return nil
}

// Responsibles returns the roster of people who may own a task.
func (s *Service) Responsibles(ctx context.Context) ([]EmployeeDTO, error) {
	rows, err := s.repo.ListResponsibles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list responsibles: %w", err)
	}
	dtos := make([]EmployeeDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, EmployeeDTO{ID: row.ID, FullName: row.FullName})
	}
	return dtos, nil
}

func (s *Service) load(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("employee %d not found", id))
		}
		return nil, fmt.Errorf("load employee %d: %w", id, err)
	}
	return employee, nil
}
