package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Teffi0/server/internal/tasks"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
)

type stubTaskService struct {
	createdInput tasks.TaskInput
	statusValue  string
	usage        []tasks.InventoryUsage
	attachedIDs  []int64
	deletedID    int64

	task  *tasks.TaskDTO
	list  []tasks.TaskDTO
	dates []string
	err   error
}

func (s *stubTaskService) Create(_ context.Context, input tasks.TaskInput) (int64, error) {
	s.createdInput = input
	if s.err != nil {
		return 0, s.err
	}
	return 42, nil
}

func (s *stubTaskService) Get(context.Context, int64) (*tasks.TaskDTO, error) {
	return s.task, s.err
}

func (s *stubTaskService) List(context.Context, *string) ([]tasks.TaskDTO, error) {
	return s.list, s.err
}

func (s *stubTaskService) Dates(context.Context) ([]string, error) {
	return s.dates, s.err
}

func (s *stubTaskService) UpdateFull(_ context.Context, _ int64, input tasks.TaskInput) error {
	s.createdInput = input
	return s.err
}

func (s *stubTaskService) UpdateStatus(_ context.Context, _ int64, rawStatus string, _ int64) error {
	s.statusValue = rawStatus
	return s.err
}

func (s *stubTaskService) Complete(_ context.Context, _ int64, usage []tasks.InventoryUsage, _ int64) error {
	s.usage = usage
	return s.err
}

func (s *stubTaskService) ReplaceInventory(_ context.Context, _ int64, usage []tasks.InventoryUsage, _ int64) error {
	s.usage = usage
	return s.err
}

func (s *stubTaskService) AttachEmployees(_ context.Context, _ int64, employeeIDs []int64, _ int64) error {
	s.attachedIDs = employeeIDs
	return s.err
}

func (s *stubTaskService) AttachServices(_ context.Context, _ int64, serviceIDs []int64, _ int64) error {
	s.attachedIDs = serviceIDs
	return s.err
}

func (s *stubTaskService) Delete(_ context.Context, id int64, _ int64) error {
	s.deletedID = id
	return s.err
}

func (s *stubTaskService) Participants(context.Context, int64) ([]tasks.ParticipantDTO, error) {
	return nil, s.err
}

func (s *stubTaskService) ServicesOf(context.Context, int64) ([]tasks.ServiceDTO, error) {
	return nil, s.err
}

func (s *stubTaskService) InventoryOf(context.Context, int64) ([]tasks.ReservationDTO, error) {
	return nil, s.err
}

func routeRequest(handler http.HandlerFunc, method, path, pattern string, body []byte) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTaskCreateReturnsID(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"status":"draft"}`)
	rec := routeRequest(TaskCreate(stub, nil), http.MethodPost, "/tasks", "/tasks", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var payload map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["task_id"] != 42 {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestTaskCreateAcceptsLegacyStatusLabel(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"status":"новая","service":"installation"}`)
	rec := routeRequest(TaskCreate(stub, nil), http.MethodPost, "/tasks", "/tasks", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.createdInput.Status != enums.TaskStatusNew {
		t.Fatalf("legacy label not canonicalized: %q", stub.createdInput.Status)
	}
}

func TestTaskCreateRejectsUnknownStatus(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"status":"archived"}`)
	rec := routeRequest(TaskCreate(stub, nil), http.MethodPost, "/tasks", "/tasks", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := payload["error"]; !ok {
		t.Fatalf("expected flat error body, got %v", payload)
	}
}

func TestTaskCreateServiceErrorShape(t *testing.T) {
	stub := &stubTaskService{err: pkgerrors.New(pkgerrors.CodeValidation, "missing required fields: cost")}
	body := []byte(`{"status":"new"}`)
	rec := routeRequest(TaskCreate(stub, nil), http.MethodPost, "/tasks", "/tasks", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["error"] != "missing required fields: cost" {
		t.Fatalf("unexpected error body: %v", payload)
	}
}

func TestTaskUpdateStatusPassesRawValue(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"status":"выполнено"}`)
	rec := routeRequest(TaskUpdateStatus(stub, nil), http.MethodPut, "/tasks/7/status", "/tasks/{id}/status", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.statusValue != "выполнено" {
		t.Fatalf("status not forwarded: %q", stub.statusValue)
	}
}

func TestTaskCompleteForwardsUsage(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"inventory":[{"inventory_id":3,"quantity":2}]}`)
	rec := routeRequest(TaskComplete(stub, nil), http.MethodPut, "/tasks/7/complete", "/tasks/{id}/complete", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.usage) != 1 || stub.usage[0].InventoryID != 3 || stub.usage[0].Quantity != 2 {
		t.Fatalf("usage not forwarded: %+v", stub.usage)
	}
}

func TestTaskAttachEmployeesCreated(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"employees":[4,5]}`)
	rec := routeRequest(TaskAttachEmployees(stub, nil), http.MethodPost, "/tasks/7/employees", "/tasks/{id}/employees", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.attachedIDs) != 2 || stub.attachedIDs[0] != 4 || stub.attachedIDs[1] != 5 {
		t.Fatalf("employee ids not forwarded: %v", stub.attachedIDs)
	}
}

func TestTaskAttachServicesCreated(t *testing.T) {
	stub := &stubTaskService{}
	body := []byte(`{"services":[9]}`)
	rec := routeRequest(TaskAttachServices(stub, nil), http.MethodPost, "/tasks/7/services", "/tasks/{id}/services", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.attachedIDs) != 1 || stub.attachedIDs[0] != 9 {
		t.Fatalf("service ids not forwarded: %v", stub.attachedIDs)
	}
}

func TestTaskDetailNotFound(t *testing.T) {
	stub := &stubTaskService{err: pkgerrors.New(pkgerrors.CodeNotFound, "task 9 not found")}
	rec := routeRequest(TaskDetail(stub, nil), http.MethodGet, "/tasks/9", "/tasks/{id}", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestTaskDetailRejectsBadID(t *testing.T) {
	stub := &stubTaskService{}
	rec := routeRequest(TaskDetail(stub, nil), http.MethodGet, "/tasks/abc", "/tasks/{id}", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestTaskDeleteForwardsID(t *testing.T) {
	stub := &stubTaskService{}
	rec := routeRequest(TaskDelete(stub, nil), http.MethodDelete, "/tasks/11", "/tasks/{id}", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.deletedID != 11 {
		t.Fatalf("expected delete of 11, got %d", stub.deletedID)
	}
}
