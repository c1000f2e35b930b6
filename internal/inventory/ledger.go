package inventory

import (
	"context"
	"fmt"

	"github.com/Teffi0/server/pkg/db"
	"github.com/Teffi0/server/pkg/db/models"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRequest asks the ledger to commit stock to a task.
type ReservationRequest struct {
	TaskID      int64
	InventoryID int64
	Quantity    int
}

// Reserve decrements free stock and writes the matching reservation row, all
// on the caller's transaction. The decrement is floored at zero: reserving
// more than is available drains the item rather than going negative. The
// reservation records what was actually taken, not what was asked for, so
// releasing it later puts back exactly that amount and stock is conserved.
func Reserve(ctx context.Context, tx *gorm.DB, req ReservationRequest) error {
	if req.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
	}

	item, err := lockItem(ctx, tx, req.InventoryID)
	if err != nil {
		return err
	}

	taken := req.Quantity
	if taken > item.Quantity {
		taken = item.Quantity
	}

	if err := tx.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Update("quantity", item.Quantity-taken).Error; err != nil {
		return fmt.Errorf("decrement inventory %d: %w", item.ID, err)
	}

	reservation := models.TaskInventory{
		TaskID:      req.TaskID,
		InventoryID: req.InventoryID,
		Quantity:    taken,
	}
	if err := tx.WithContext(ctx).Create(&reservation).Error; err != nil {
		if db.IsUniqueViolation(err, "task_inventory") {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("task %d already holds a reservation for item %d", req.TaskID, req.InventoryID))
		}
		return fmt.Errorf("insert reservation (task=%d item=%d): %w", req.TaskID, req.InventoryID, err)
	}
	return nil
}

// Release returns previously reserved stock to the item. It must run in the
// same transaction as the reservation-row delete that motivates it.
func Release(ctx context.Context, tx *gorm.DB, inventoryID int64, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release quantity must be positive")
	}

	item, err := lockItem(ctx, tx, inventoryID)
	if err != nil {
		return err
	}

	if err := tx.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Update("quantity", item.Quantity+quantity).Error; err != nil {
		return fmt.Errorf("increment inventory %d: %w", item.ID, err)
	}
	return nil
}

// lockItem reads the inventory row for update. Postgres takes a row lock so
// concurrent reserve/release on the same item serialize; sqlite (used by the
// test suite) has a single writer and needs no lock clause.
func lockItem(ctx context.Context, tx *gorm.DB, id int64) (*models.InventoryItem, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.InventoryItem
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory item %d not found", id))
		}
		return nil, fmt.Errorf("load inventory %d: %w", id, err)
	}
	return &item, nil
}
