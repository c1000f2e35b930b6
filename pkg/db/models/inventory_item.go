package models

import "time"

// InventoryItem tracks free stock for a consumable item. Quantity never goes
// below zero; decrements are floored by the ledger.
type InventoryItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Measure   string    `gorm:"column:measure;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryItem) TableName() string { return "inventory" }
