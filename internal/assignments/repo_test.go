package assignments

import (
	"context"
	"testing"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAssignmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:assignments_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Service{},
		&models.Task{},
		&models.TaskEmployee{},
		&models.TaskService{},
	))
	return db
}

func seedTask(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	task := models.Task{Status: enums.TaskStatusDraft}
	require.NoError(t, db.Create(&task).Error)
	return task.ID
}

func seedEmployees(t *testing.T, db *gorm.DB, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		e := models.Employee{FullName: name}
		require.NoError(t, db.Create(&e).Error)
		ids = append(ids, e.ID)
	}
	return ids
}

func taskEmployeeCount(t *testing.T, db *gorm.DB, taskID int64) int {
	t.Helper()
	var task models.Task
	require.NoError(t, db.First(&task, "id = ?", taskID).Error)
	return task.EmployeeCount
}

func TestReplaceEmployeesSetsLinksAndCount(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskID := seedTask(t, db)
	ids := seedEmployees(t, db, "Anna", "Boris", "Vera")

	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, ids))
	assert.Equal(t, 3, taskEmployeeCount(t, db, taskID))

	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, ids[:1]))
	assert.Equal(t, 1, taskEmployeeCount(t, db, taskID))

	participants, err := repo.ListParticipants(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "Anna", participants[0].FullName)
}

func TestReplaceEmployeesIdempotent(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskID := seedTask(t, db)
	ids := seedEmployees(t, db, "Anna", "Boris")

	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, ids))
	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, ids))

	var links int64
	require.NoError(t, db.Model(&models.TaskEmployee{}).Where("task_id = ?", taskID).Count(&links).Error)
	assert.EqualValues(t, 2, links)
	assert.Equal(t, 2, taskEmployeeCount(t, db, taskID))
}

func TestReplaceEmployeesDedupesInput(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskID := seedTask(t, db)
	ids := seedEmployees(t, db, "Anna")

	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, []int64{ids[0], ids[0], ids[0]}))
	assert.Equal(t, 1, taskEmployeeCount(t, db, taskID))
}

func TestReplaceEmployeesRejectsUnknownIDs(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskID := seedTask(t, db)
	ids := seedEmployees(t, db, "Anna")

	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, ids))

	err := repo.ReplaceEmployees(ctx, taskID, []int64{ids[0], 9999})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// the failed call must not have disturbed the existing links
	assert.Equal(t, 1, taskEmployeeCount(t, db, taskID))
}

func TestRecountIsScopedToOneTask(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskA := seedTask(t, db)
	taskB := seedTask(t, db)
	ids := seedEmployees(t, db, "Anna", "Boris")

	require.NoError(t, repo.ReplaceEmployees(ctx, taskA, ids))
	require.NoError(t, repo.ReplaceEmployees(ctx, taskB, ids[:1]))
	require.NoError(t, repo.ReplaceEmployees(ctx, taskA, nil))

	assert.Equal(t, 0, taskEmployeeCount(t, db, taskA))
	assert.Equal(t, 1, taskEmployeeCount(t, db, taskB))
}

func TestReplaceServices(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskID := seedTask(t, db)
	svcA := models.Service{Name: "installation"}
	svcB := models.Service{Name: "maintenance"}
	require.NoError(t, db.Create(&svcA).Error)
	require.NoError(t, db.Create(&svcB).Error)

	require.NoError(t, repo.ReplaceServices(ctx, taskID, []int64{svcA.ID, svcB.ID}))
	services, err := repo.ListServices(ctx, taskID)
	require.NoError(t, err)
	assert.Len(t, services, 2)

	err = repo.ReplaceServices(ctx, taskID, []int64{svcA.ID, 555})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestDeleteAllForTask(t *testing.T) {
	t.Parallel()

	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	taskID := seedTask(t, db)
	ids := seedEmployees(t, db, "Anna")
	svc := models.Service{Name: "installation"}
	require.NoError(t, db.Create(&svc).Error)

	require.NoError(t, repo.ReplaceEmployees(ctx, taskID, ids))
	require.NoError(t, repo.ReplaceServices(ctx, taskID, []int64{svc.ID}))
	require.NoError(t, repo.DeleteAllForTask(ctx, taskID))

	var links int64
	require.NoError(t, db.Model(&models.TaskEmployee{}).Where("task_id = ?", taskID).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, db.Model(&models.TaskService{}).Where("task_id = ?", taskID).Count(&links).Error)
	assert.Zero(t, links)
}
