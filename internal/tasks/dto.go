package tasks

import (
	"time"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	"github.com/shopspring/decimal"
)

// TaskInput carries every business field a task can hold. Used for both
// create and full update; nil means "not provided".
type TaskInput struct {
	Status        enums.TaskStatus
	Service       *string
	Payment       *string
	Cost          *decimal.Decimal
	StartDate     *string
	EndDate       *string
	StartTime     *string
	EndTime       *string
	Responsible   *string
	ClientName    *string
	ClientAddress *string
	ClientPhone   *string
	Description   *string

	// Employees/Services nil leaves the link sets untouched; an empty,
	// non-nil slice clears them.
	Employees []int64
	Services  []int64

	ActorID int64
}

// InventoryUsage names one stock draw for complete/replace-inventory.
type InventoryUsage struct {
	InventoryID int64 `json:"inventory_id"`
	Quantity    int   `json:"quantity"`
}

// TaskDTO is the wire shape for task reads, keeping the column names the
// mobile clients already bind to.
type TaskDTO struct {
	ID            int64            `json:"id"`
	Status        enums.TaskStatus `json:"status"`
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
	EmployeeCount int              `json:"employees"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ParticipantDTO is one employee attached to a task.
type ParticipantDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// ServiceDTO is one catalog service attached to a task.
type ServiceDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"service_name"`
}

// ReservationDTO is one stock draw held by a task.
type ReservationDTO struct {
	InventoryID int64  `json:"inventory_id"`
	Name        string `json:"name"`
	Measure     string `json:"measure"`
	Quantity    int    `json:"quantity"`
}

func toDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:            task.ID,
		Status:        task.Status,
		Service:       task.Service,
		Payment:       task.Payment,
		Cost:          task.Cost,
		StartDate:     task.StartDate,
		EndDate:       task.EndDate,
		StartTime:     task.StartTime,
		EndTime:       task.EndTime,
		Responsible:   task.Responsible,
		ClientName:    task.ClientName,
		ClientAddress: task.ClientAddress,
		ClientPhone:   task.ClientPhone,
		Description:   task.Description,
		EmployeeCount: task.EmployeeCount,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}
