package models

import "time"

// Employee is a field worker who can be attached to tasks.
type Employee struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FullName  string    `gorm:"column:full_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string { return "employees" }

// Responsible is a person who can own a task. Kept as its own roster because
// responsibles are not necessarily employees.
type Responsible struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	FullName string `gorm:"column:full_name;not null"`
}

func (Responsible) TableName() string { return "responsibles" }
