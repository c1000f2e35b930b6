package models

// TaskEmployee links a task to a participating employee.
type TaskEmployee struct {
	TaskID     int64 `gorm:"column:task_id;primaryKey"`
	EmployeeID int64 `gorm:"column:employee_id;primaryKey"`
}

func (TaskEmployee) TableName() string { return "task_employees" }

// TaskService links a task to a catalog service performed on it.
type TaskService struct {
	TaskID    int64 `gorm:"column:task_id;primaryKey"`
	ServiceID int64 `gorm:"column:service_id;primaryKey"`
}

func (TaskService) TableName() string { return "task_services" }

// TaskInventory records stock committed to a task. Every row is paired with a
// matching decrement on the inventory table; releasing the row restores it.
type TaskInventory struct {
	TaskID      int64 `gorm:"column:task_id;primaryKey"`
	InventoryID int64 `gorm:"column:inventory_id;primaryKey"`
	Quantity    int   `gorm:"column:quantity;not null"`
}

func (TaskInventory) TableName() string { return "task_inventory" }
