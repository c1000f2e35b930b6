package models

import (
	"time"

	"github.com/Teffi0/server/pkg/enums"
	"github.com/shopspring/decimal"
)

// Task is a scheduled work order. Business fields are nullable because drafts
// may be created with nothing but a status; validation for non-draft statuses
// lives in the task service.
type Task struct {
	ID            int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Status        enums.TaskStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	Service       *string          `gorm:"column:service"`
	Payment       *string          `gorm:"column:payment"`
	Cost          *decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`
	StartDate     *string          `gorm:"column:start_date;type:date"`
	EndDate       *string          `gorm:"column:end_date;type:date"`
	StartTime     *string          `gorm:"column:start_time"`
	EndTime       *string          `gorm:"column:end_time"`
	Responsible   *string          `gorm:"column:responsible"`
	ClientName    *string          `gorm:"column:fullname_client"`
	ClientAddress *string          `gorm:"column:address_client"`
	ClientPhone   *string          `gorm:"column:phone"`
	Description   *string          `gorm:"column:description"`

	// EmployeeCount mirrors the number of task_employees rows for this task.
	// It is recomputed inside the same transaction as any link change.
	EmployeeCount int `gorm:"column:employees;not null;default:0"`

	EmployeeLinks []TaskEmployee  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	ServiceLinks  []TaskService   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Reservations  []TaskInventory `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string { return "tasks" }
