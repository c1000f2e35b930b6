package inventory

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type auditStub struct {
	mu      sync.Mutex
	entries []string
}

func (a *auditStub) RecordAsync(_ context.Context, kind enums.ChangeKind, entityID, actorID int64, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, string(kind)+": "+description)
}

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryItem{}, &models.TaskInventory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestServiceCreateAndList(t *testing.T) {
	t.Parallel()

	db := newServiceTestDB(t)
	svc, err := NewService(NewRepository(db), &auditStub{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	id, err := svc.Create(ctx, ItemInput{Name: "  cable  ", Measure: "m", Quantity: 12})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a generated id")
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "cable" || items[0].Quantity != 12 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	t.Parallel()

	db := newServiceTestDB(t)
	svc, _ := NewService(NewRepository(db), &auditStub{})

	_, err := svc.Create(context.Background(), ItemInput{Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(typed.Message(), "name") || !strings.Contains(typed.Message(), "measure") {
		t.Fatalf("expected missing fields named, got %q", typed.Message())
	}

	_, err = svc.Create(context.Background(), ItemInput{Name: "x", Measure: "pcs", Quantity: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}
}

func TestServiceUpdateNotFound(t *testing.T) {
	t.Parallel()

	db := newServiceTestDB(t)
	svc, _ := NewService(NewRepository(db), &auditStub{})

	err := svc.Update(context.Background(), 404, ItemInput{Name: "x", Measure: "pcs", Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestServiceDeleteBlockedByReservation(t *testing.T) {
	t.Parallel()

	db := newServiceTestDB(t)
	svc, _ := NewService(NewRepository(db), &auditStub{})
	ctx := context.Background()

	item := models.InventoryItem{Name: "paint", Measure: "l", Quantity: 5}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	if err := db.Create(&models.TaskInventory{TaskID: 3, InventoryID: item.ID, Quantity: 2}).Error; err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	err := svc.Delete(ctx, item.ID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	var count int64
	if err := db.Model(&models.InventoryItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatal("reserved item must survive delete")
	}
}

func TestServiceDeleteFreeItem(t *testing.T) {
	t.Parallel()

	db := newServiceTestDB(t)
	svc, _ := NewService(NewRepository(db), &auditStub{})
	ctx := context.Background()

	item := models.InventoryItem{Name: "gloves", Measure: "pair", Quantity: 1}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	if err := svc.Delete(ctx, item.ID, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := db.Model(&models.InventoryItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 0 {
		t.Fatal("expected item removed")
	}
}
