package models

import "time"

// Client is a customer record. Email, source and comment only arrive through
// the lead-capture form; the regular CRUD path leaves them empty.
type Client struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FullName    string    `gorm:"column:full_name;not null"`
	PhoneNumber string    `gorm:"column:phone_number;not null"`
	Address     *string   `gorm:"column:address"`
	Email       *string   `gorm:"column:email"`
	Source      *string   `gorm:"column:source"`
	Comment     *string   `gorm:"column:comment"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Client) TableName() string { return "clients" }
