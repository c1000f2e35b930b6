package audit

import (
	"context"
	"testing"
	"time"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:audit_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, kind := range []enums.ChangeKind{enums.ChangeKindClient, enums.ChangeKindEmployee, enums.ChangeKindInventory} {
		if err := db.Table(kind.Table()).AutoMigrate(&models.ChangeLogEntry{}); err != nil {
			t.Fatalf("migrate %s: %v", kind.Table(), err)
		}
	}
	return db
}

func TestRecordAndList(t *testing.T) {
	t.Parallel()

	db := newAuditTestDB(t)
	svc, err := NewService(NewRepository(db), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if err := svc.Record(ctx, enums.ChangeKindClient, 12, 3, "created client"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.Record(ctx, enums.ChangeKindClient, 12, 3, "edited client"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.Record(ctx, enums.ChangeKindClient, 99, 3, "other entity"); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := svc.List(ctx, enums.ChangeKindClient, 12)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "created client" || entries[1].Description != "edited client" {
		t.Fatalf("entries out of order: %+v", entries)
	}
}

func TestKindsAreIsolated(t *testing.T) {
	t.Parallel()

	db := newAuditTestDB(t)
	svc, _ := NewService(NewRepository(db), nil)
	ctx := context.Background()

	if err := svc.Record(ctx, enums.ChangeKindInventory, 5, 1, "stock adjusted"); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := svc.List(ctx, enums.ChangeKindClient, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("client table must not see inventory entries, got %+v", entries)
	}
}

func TestRecordRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	db := newAuditTestDB(t)
	svc, _ := NewService(NewRepository(db), nil)

	if err := svc.Record(context.Background(), enums.ChangeKind("order"), 1, 1, "nope"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRecordAsyncSurvivesCanceledRequest(t *testing.T) {
	t.Parallel()

	db := newAuditTestDB(t)
	svc, _ := NewService(NewRepository(db), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.RecordAsync(ctx, enums.ChangeKindEmployee, 8, 2, "created employee")

	deadline := time.After(2 * time.Second)
	for {
		entries, err := svc.List(context.Background(), enums.ChangeKindEmployee, 8)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("async entry never appeared")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
