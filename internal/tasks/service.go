package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/Teffi0/server/internal/assignments"
	"github.com/Teffi0/server/internal/inventory"
	"github.com/Teffi0/server/pkg/db"
	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"github.com/Teffi0/server/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type auditRecorder interface {
	RecordAsync(ctx context.Context, kind enums.ChangeKind, entityID, actorID int64, description string)
}

type photoStore interface {
	Remove(ctx context.Context, taskID int64) error
}

// Service is the task lifecycle controller. Every mutation that touches the
// task row together with its links or reservations runs as one transaction,
// so a failed step leaves no partial state behind.
type Service struct {
	tx     txRunner
	repo   *Repository
	links  *assignments.Repository
	audit  auditRecorder
	photos photoStore
	logg   *logger.Logger
}

// NewService builds the task service. The photo store may be nil when photo
// cleanup is handled elsewhere.
func NewService(tx txRunner, repo *Repository, links *assignments.Repository, audit auditRecorder, photos photoStore, logg *logger.Logger) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("task repository required")
	}
	if links == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{tx: tx, repo: repo, links: links, audit: audit, photos: photos, logg: logg}, nil
}

// Create inserts a task and its initial links in one transaction. Drafts may
// be nearly empty; any other status requires the full business field set.
func (s *Service) Create(ctx context.Context, input TaskInput) (int64, error) {
	if err := validateInput(input); err != nil {
		return 0, err
	}

	task := taskFromInput(input)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, task); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		linkRepo := s.links.WithTx(tx)
		if len(input.Employees) > 0 {
			if err := linkRepo.ReplaceEmployees(ctx, task.ID, input.Employees); err != nil {
				return err
			}
		}
		if len(input.Services) > 0 {
			if err := linkRepo.ReplaceServices(ctx, task.ID, input.Services); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.audit.RecordAsync(ctx, enums.ChangeKindClient, task.ID, input.ActorID,
		fmt.Sprintf("created task %d (%s)", task.ID, task.Status))
	return task.ID, nil
}

// Get returns one task.
func (s *Service) Get(ctx context.Context, id int64) (*TaskDTO, error) {
	task, err := s.loadTask(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*task)
	return &dto, nil
}

// List returns tasks ordered by start date, optionally filtered to one date.
func (s *Service) List(ctx context.Context, startDate *string) ([]TaskDTO, error) {
	rows, err := s.repo.List(ctx, startDate)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	dtos := make([]TaskDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}

// Dates returns every distinct start date with at least one task, for the
// calendar view.
func (s *Service) Dates(ctx context.Context) ([]string, error) {
	dates, err := s.repo.DistinctDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list task dates: %w", err)
	}
	return dates, nil
}

// UpdateFull overwrites all business fields and, when link sets are provided,
// replaces them wholesale. One transaction; a failed link replacement rolls
// the field changes back too.
func (s *Service) UpdateFull(ctx context.Context, id int64, input TaskInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		task, err := s.loadTask(ctx, repo, id)
		if err != nil {
			return err
		}

		applyInput(task, input)
		if err := repo.Update(ctx, task); err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}

		linkRepo := s.links.WithTx(tx)
		if input.Employees != nil {
			if err := linkRepo.ReplaceEmployees(ctx, id, input.Employees); err != nil {
				return err
			}
		}
		if input.Services != nil {
			if err := linkRepo.ReplaceServices(ctx, id, input.Services); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, input.ActorID,
		fmt.Sprintf("edited task %d", id))
	return nil
}

// UpdateStatus flips only the status column. Legacy labels are accepted on
// the wire; the canonical value is what gets stored.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string, actorID int64) error {
	status, ok := enums.ParseTaskStatus(rawStatus)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown task status %q", rawStatus))
	}

	if _, err := s.loadTask(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status of task %d: %w", id, err)
	}

	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID,
		fmt.Sprintf("task %d status set to %s", id, status))
	return nil
}

// Complete consumes the reported inventory usage and marks the task
// completed, atomically. A failed stock draw leaves the task untouched.
// Completing without any usage is rejected: the report is what closes the
// task.
func (s *Service) Complete(ctx context.Context, id int64, usage []InventoryUsage, actorID int64) error {
	usage = aggregateUsage(usage)
	if len(usage) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no inventory usage provided")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadTask(ctx, repo, id); err != nil {
			return err
		}
		for _, u := range usage {
			err := inventory.Reserve(ctx, tx, inventory.ReservationRequest{
				TaskID:      id,
				InventoryID: u.InventoryID,
				Quantity:    u.Quantity,
			})
			if err != nil {
				return err
			}
		}
		if err := repo.UpdateStatus(ctx, id, enums.TaskStatusCompleted); err != nil {
			return fmt.Errorf("mark task %d completed: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, u := range usage {
		s.audit.RecordAsync(ctx, enums.ChangeKindInventory, u.InventoryID, actorID,
			fmt.Sprintf("task %d consumed %d", id, u.Quantity))
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID,
		fmt.Sprintf("task %d completed", id))
	return nil
}

// ReplaceInventory swaps the task's stock draws: existing reservations are
// restored to the shelf first, then the new set is consumed. Order matters,
// a new draw may reuse the stock just returned.
func (s *Service) ReplaceInventory(ctx context.Context, id int64, usage []InventoryUsage, actorID int64) error {
	usage = aggregateUsage(usage)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadTask(ctx, repo, id); err != nil {
			return err
		}

		if err := s.releaseAll(ctx, tx, repo, id); err != nil {
			return err
		}
		for _, u := range usage {
			err := inventory.Reserve(ctx, tx, inventory.ReservationRequest{
				TaskID:      id,
				InventoryID: u.InventoryID,
				Quantity:    u.Quantity,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID,
		fmt.Sprintf("task %d inventory replaced (%d item(s))", id, len(usage)))
	return nil
}

// AttachEmployees replaces the task's employee set.
func (s *Service) AttachEmployees(ctx context.Context, id int64, employeeIDs []int64, actorID int64) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.loadTask(ctx, s.repo.WithTx(tx), id); err != nil {
			return err
		}
		return s.links.WithTx(tx).ReplaceEmployees(ctx, id, employeeIDs)
	})
	if err != nil {
		return err
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID,
		fmt.Sprintf("task %d employees replaced (%d linked)", id, len(employeeIDs)))
	return nil
}

// AttachServices replaces the task's service set.
func (s *Service) AttachServices(ctx context.Context, id int64, serviceIDs []int64, actorID int64) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.loadTask(ctx, s.repo.WithTx(tx), id); err != nil {
			return err
		}
		return s.links.WithTx(tx).ReplaceServices(ctx, id, serviceIDs)
	})
	if err != nil {
		return err
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID,
		fmt.Sprintf("task %d services replaced (%d linked)", id, len(serviceIDs)))
	return nil
}

// Delete restores reserved stock, removes the task with all its links and
// reservations in one transaction, then cleans up photos on disk. Photo
// cleanup runs after commit and is best-effort: a crash between the two can
// leave orphaned files, never inconsistent rows.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadTask(ctx, repo, id); err != nil {
			return err
		}
		if err := s.releaseAll(ctx, tx, repo, id); err != nil {
			return err
		}
		if err := s.links.WithTx(tx).DeleteAllForTask(ctx, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.photos != nil {
		if err := s.photos.Remove(ctx, id); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithTaskID(ctx, id), "task.photos_cleanup_failed", err)
		}
	}

	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID,
		fmt.Sprintf("deleted task %d", id))
	return nil
}

// Participants returns the employees linked to a task.
func (s *Service) Participants(ctx context.Context, id int64) ([]ParticipantDTO, error) {
	employees, err := s.links.ListParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list participants of task %d: %w", id, err)
	}
	dtos := make([]ParticipantDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, ParticipantDTO{ID: e.ID, FullName: e.FullName})
	}
	return dtos, nil
}

// ServicesOf returns the catalog services linked to a task.
func (s *Service) ServicesOf(ctx context.Context, id int64) ([]ServiceDTO, error) {
	services, err := s.links.ListServices(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list services of task %d: %w", id, err)
	}
	dtos := make([]ServiceDTO, 0, len(services))
	for _, svc := range services {
		dtos = append(dtos, ServiceDTO{ID: svc.ID, Name: svc.Name})
	}
	return dtos, nil
}

// InventoryOf returns the stock draws held by a task.
func (s *Service) InventoryOf(ctx context.Context, id int64) ([]ReservationDTO, error) {
	rows, err := s.repo.ListReservationDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list inventory of task %d: %w", id, err)
	}
	return rows, nil
}

// releaseAll puts every reserved quantity back on the shelf and drops the
// reservation rows, on the caller's transaction.
func (s *Service) releaseAll(ctx context.Context, tx *gorm.DB, repo *Repository, taskID int64) error {
	reservations, err := repo.ListReservations(ctx, taskID)
	if err != nil {
		return fmt.Errorf("list reservations of task %d: %w", taskID, err)
	}
	for _, res := range reservations {
		// Draws against a drained item record zero taken; nothing to put back.
		if res.Quantity <= 0 {
			continue
		}
		if err := inventory.Release(ctx, tx, res.InventoryID, res.Quantity); err != nil {
			return err
		}
	}
	return repo.DeleteReservations(ctx, taskID)
}

func (s *Service) loadTask(ctx context.Context, repo *Repository, id int64) (*models.Task, error) {
	task, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("task %d not found", id))
		}
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	return task, nil
}

func taskFromInput(input TaskInput) *models.Task {
	task := &models.Task{Status: input.Status}
	applyInput(task, input)
	return task
}

func applyInput(task *models.Task, input TaskInput) {
	task.Status = input.Status
	task.Service = input.Service
	task.Payment = input.Payment
	task.Cost = input.Cost
	task.StartDate = input.StartDate
	task.EndDate = input.EndDate
	task.StartTime = input.StartTime
	task.EndTime = input.EndTime
	task.Responsible = input.Responsible
	task.ClientName = input.ClientName
	task.ClientAddress = input.ClientAddress
	task.ClientPhone = input.ClientPhone
	task.Description = input.Description
}

// validateInput enforces the status-dependent field contract: drafts may be
// sparse, every other status carries the full business field set.
func validateInput(input TaskInput) error {
	if !input.Status.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown task status %q", string(input.Status)))
	}
	if !input.Status.RequiresBusinessFields() {
		return nil
	}

	missing := []string{}
	requireString := func(name string, value *string) {
		if value == nil || strings.TrimSpace(*value) == "" {
			missing = append(missing, name)
		}
	}
	requireString("service", input.Service)
	requireString("payment", input.Payment)
	requireString("start_date", input.StartDate)
	requireString("start_time", input.StartTime)
	requireString("responsible", input.Responsible)
	requireString("fullname_client", input.ClientName)
	requireString("address_client", input.ClientAddress)
	requireString("phone", input.ClientPhone)
	requireString("description", input.Description)
	if input.Cost == nil {
		missing = append(missing, "cost")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// aggregateUsage merges duplicate item ids so one reservation row is written
// per item. Non-positive quantities pass through and get rejected by the
// ledger.
func aggregateUsage(usage []InventoryUsage) []InventoryUsage {
	if len(usage) < 2 {
		return usage
	}
	index := make(map[int64]int, len(usage))
	out := make([]InventoryUsage, 0, len(usage))
	for _, u := range usage {
		if pos, ok := index[u.InventoryID]; ok {
			out[pos].Quantity += u.Quantity
			continue
		}
		index[u.InventoryID] = len(out)
		out = append(out, u)
	}
	return out
}
