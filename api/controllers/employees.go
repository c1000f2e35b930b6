package controllers

import (
	"context"
	"net/http"

	"github.com/Teffi0/server/api/middleware"
	"github.com/Teffi0/server/api/responses"
	"github.com/Teffi0/server/api/validators"
	"github.com/Teffi0/server/internal/employees"
	"github.com/Teffi0/server/pkg/logger"
)

// EmployeeService is the surface the employee controllers depend on.
type EmployeeService interface {
	List(ctx context.Context) ([]employees.EmployeeDTO, error)
	Create(ctx context.Context, fullName string, actorID int64) (int64, error)
	Update(ctx context.Context, id int64, fullName string, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
	Responsibles(ctx context.Context) ([]employees.EmployeeDTO, error)
}

type employeeWriteRequest struct {
	FullName string `json:"full_name" validate:"required"`
}

// EmployeeList handles GET /employees.
func EmployeeList(svc EmployeeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// EmployeeCreate handles POST /employees.
func EmployeeCreate(svc EmployeeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload employeeWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Create(r.Context(), payload.FullName, middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// EmployeeUpdate handles PUT /employees/{id}.
func EmployeeUpdate(svc EmployeeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload employeeWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), id, payload.FullName, middleware.ActorIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"id": id})
	}
}

// EmployeeDelete handles DELETE /employees/{id}.
func EmployeeDelete(svc EmployeeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id, middleware.ActorIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ResponsibleList handles GET /responsibles.
func ResponsibleList(svc EmployeeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Responsibles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
