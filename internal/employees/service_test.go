package employees

import (
	"context"
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

func newEmployeesTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:employees_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Employee{}, &models.Responsible{}, &models.TaskEmployee{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEmployeeDeleteBlockedWhileAssigned(t *testing.T) {
	t.Parallel()

	db := newEmployeesTestDB(t)
	svc, err := NewService(NewRepository(db), &auditStub{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	id, err := svc.Create(ctx, "Anna", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Create(&models.TaskEmployee{TaskID: 5, EmployeeID: id}).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	err = svc.Delete(ctx, id, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestEmployeeRenameAndResponsibles(t *testing.T) {
	t.Parallel()

	db := newEmployeesTestDB(t)
	svc, _ := NewService(NewRepository(db), &auditStub{})
	ctx := context.Background()

	id, err := svc.Create(ctx, "Anna", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Update(ctx, id, "Anna Petrova", 1); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].FullName != "Anna Petrova" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := db.Create(&models.Responsible{FullName: "Ivanov"}).Error; err != nil {
		t.Fatalf("seed responsible: %v", err)
	}
	responsibles, err := svc.Responsibles(ctx)
	if err != nil {
		t.Fatalf("responsibles: %v", err)
	}
	if len(responsibles) != 1 || responsibles[0].FullName != "Ivanov" {
		t.Fatalf("unexpected responsibles: %+v", responsibles)
	}
}
