package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Teffi0/server/api/middleware"
	"github.com/Teffi0/server/api/responses"
	"github.com/Teffi0/server/api/validators"
	"github.com/Teffi0/server/internal/tasks"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"github.com/Teffi0/server/pkg/logger"
)

// TaskService is the surface the task controllers depend on.
type TaskService interface {
	Create(ctx context.Context, input tasks.TaskInput) (int64, error)
	Get(ctx context.Context, id int64) (*tasks.TaskDTO, error)
	List(ctx context.Context, startDate *string) ([]tasks.TaskDTO, error)
	Dates(ctx context.Context) ([]string, error)
	UpdateFull(ctx context.Context, id int64, input tasks.TaskInput) error
	UpdateStatus(ctx context.Context, id int64, rawStatus string, actorID int64) error
	Complete(ctx context.Context, id int64, usage []tasks.InventoryUsage, actorID int64) error
	ReplaceInventory(ctx context.Context, id int64, usage []tasks.InventoryUsage, actorID int64) error
	AttachEmployees(ctx context.Context, id int64, employeeIDs []int64, actorID int64) error
	AttachServices(ctx context.Context, id int64, serviceIDs []int64, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
	Participants(ctx context.Context, id int64) ([]tasks.ParticipantDTO, error)
	ServicesOf(ctx context.Context, id int64) ([]tasks.ServiceDTO, error)
	InventoryOf(ctx context.Context, id int64) ([]tasks.ReservationDTO, error)
}

type taskWriteRequest struct {
	Status        string           `json:"status" validate:"required"`
	Service       *string          `json:"service"`
	Payment       *string          `json:"payment"`
	Cost          *decimal.Decimal `json:"cost"`
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	StartTime     *string          `json:"start_time"`
	EndTime       *string          `json:"end_time"`
	Responsible   *string          `json:"responsible"`
	ClientName    *string          `json:"fullname_client"`
	ClientAddress *string          `json:"address_client"`
	ClientPhone   *string          `json:"phone"`
	Description   *string          `json:"description"`
	Employees     []int64          `json:"employees"`
	Services      []int64          `json:"services"`
}

func (p taskWriteRequest) toInput(actorID int64) (tasks.TaskInput, error) {
	status, ok := enums.ParseTaskStatus(strings.TrimSpace(p.Status))
	if !ok {
		return tasks.TaskInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown task status "+p.Status)
	}
	return tasks.TaskInput{
		Status:        status,
		Service:       p.Service,
		Payment:       p.Payment,
		Cost:          p.Cost,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		Responsible:   p.Responsible,
		ClientName:    p.ClientName,
		ClientAddress: p.ClientAddress,
		ClientPhone:   p.ClientPhone,
		Description:   p.Description,
		Employees:     p.Employees,
		Services:      p.Services,
		ActorID:       actorID,
	}, nil
}

// TaskCreate handles POST /tasks.
func TaskCreate(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload taskWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taskID, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"task_id": taskID})
	}
}

// TaskList handles GET /tasks with an optional start_date filter.
func TaskList(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var startDate *string
		if v := strings.TrimSpace(r.URL.Query().Get("start_date")); v != "" {
			startDate = &v
		}
		list, err := svc.List(r.Context(), startDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TaskDetail handles GET /tasks/{id}.
func TaskDetail(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		task, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

// TaskUpdate handles PUT /tasks/{id}.
func TaskUpdate(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload taskWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput(middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateFull(r.Context(), id, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"task_id": id})
	}
}

type taskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskUpdateStatus handles PUT /tasks/{id}/status.
func TaskUpdateStatus(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload taskStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if err := svc.UpdateStatus(r.Context(), id, strings.TrimSpace(payload.Status), actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"task_id": id})
	}
}

type taskUsageRequest struct {
	Inventory []tasks.InventoryUsage `json:"inventory"`
}

// TaskComplete handles PUT /tasks/{id}/complete.
func TaskComplete(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload taskUsageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if err := svc.Complete(r.Context(), id, payload.Inventory, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"task_id": id})
	}
}

// TaskReplaceInventory handles PUT /tasks/{id}/inventory.
func TaskReplaceInventory(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload taskUsageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if err := svc.ReplaceInventory(r.Context(), id, payload.Inventory, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"task_id": id})
	}
}

type taskEmployeesRequest struct {
	Employees []int64 `json:"employees" validate:"required"`
}

// TaskAttachEmployees handles POST /tasks/{id}/employees.
func TaskAttachEmployees(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload taskEmployeesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if err := svc.AttachEmployees(r.Context(), id, payload.Employees, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"task_id": id})
	}
}

type taskServicesRequest struct {
	Services []int64 `json:"services" validate:"required"`
}

// TaskAttachServices handles POST /tasks/{id}/services.
func TaskAttachServices(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload taskServicesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if err := svc.AttachServices(r.Context(), id, payload.Services, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"task_id": id})
	}
}

// TaskDelete handles DELETE /tasks/{id}.
func TaskDelete(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID := middleware.ActorIDFromContext(r.Context())
		if err := svc.Delete(r.Context(), id, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// TaskDates handles GET /task-dates.
func TaskDates(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := svc.Dates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dates)
	}
}

// TaskParticipants handles GET /task-participants/{id} and
// GET /tasks/{id}/employees.
func TaskParticipants(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		participants, err := svc.Participants(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, participants)
	}
}

// TaskServices handles GET /tasks/{id}/services.
func TaskServices(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		services, err := svc.ServicesOf(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, services)
	}
}

// TaskInventory handles GET /tasks/{id}/inventory.
func TaskInventory(svc TaskService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reservations, err := svc.InventoryOf(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservations)
	}
}
