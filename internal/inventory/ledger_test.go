package inventory

import (
	"context"
	"testing"

	"github.com/Teffi0/server/pkg/db/models"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestReserveDecrementsAndRecords(t *testing.T) {
	t.Parallel()

	db := newLedgerTestDB(t)
	ctx := context.Background()
	item := models.InventoryItem{Name: "cable", Measure: "m", Quantity: 10}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return Reserve(ctx, tx, ReservationRequest{TaskID: 1, InventoryID: item.ID, Quantity: 4})
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	var reloaded models.InventoryItem
	if err := db.First(&reloaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if reloaded.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", reloaded.Quantity)
	}

	var reservation models.TaskInventory
	if err := db.First(&reservation, "task_id = ? AND inventory_id = ?", 1, item.ID).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if reservation.Quantity != 4 {
		t.Fatalf("expected reservation quantity 4, got %d", reservation.Quantity)
	}
}

func TestReserveFloorsAtZero(t *testing.T) {
	t.Parallel()

	db := newLedgerTestDB(t)
	ctx := context.Background()
	item := models.InventoryItem{Name: "screws", Measure: "pcs", Quantity: 3}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return Reserve(ctx, tx, ReservationRequest{TaskID: 7, InventoryID: item.ID, Quantity: 5})
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	var reloaded models.InventoryItem
	if err := db.First(&reloaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if reloaded.Quantity != 0 {
		t.Fatalf("expected drained stock, got %d", reloaded.Quantity)
	}

	var reservation models.TaskInventory
	if err := db.First(&reservation, "task_id = ?", 7).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if reservation.Quantity != 3 {
		t.Fatalf("reservation must record the taken amount, got %d", reservation.Quantity)
	}
}

func TestFlooredReserveThenReleaseConservesStock(t *testing.T) {
	t.Parallel()

	db := newLedgerTestDB(t)
	ctx := context.Background()
	item := models.InventoryItem{Name: "clamps", Measure: "pcs", Quantity: 2}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return Reserve(ctx, tx, ReservationRequest{TaskID: 9, InventoryID: item.ID, Quantity: 5})
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	var reservation models.TaskInventory
	if err := db.First(&reservation, "task_id = ?", 9).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return Release(ctx, tx, item.ID, reservation.Quantity)
	})
	if err != nil {
		t.Fatalf("release: %v", err)
	}

	var reloaded models.InventoryItem
	if err := db.First(&reloaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("release must restore the baseline, got %d", reloaded.Quantity)
	}
}

func TestReserveValidation(t *testing.T) {
	t.Parallel()

	db := newLedgerTestDB(t)
	ctx := context.Background()

	err := Reserve(ctx, db, ReservationRequest{TaskID: 1, InventoryID: 1, Quantity: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = Reserve(ctx, db, ReservationRequest{TaskID: 1, InventoryID: 999, Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	t.Parallel()

	db := newLedgerTestDB(t)
	ctx := context.Background()
	item := models.InventoryItem{Name: "tape", Measure: "pcs", Quantity: 2}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return Release(ctx, tx, item.ID, 3)
	})
	if err != nil {
		t.Fatalf("release: %v", err)
	}

	var reloaded models.InventoryItem
	if err := db.First(&reloaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if reloaded.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", reloaded.Quantity)
	}
}

func newLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryItem{}, &models.TaskInventory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
