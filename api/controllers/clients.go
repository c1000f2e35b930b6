package controllers

import (
	"context"
	"net/http"

	"github.com/Teffi0/server/api/middleware"
	"github.com/Teffi0/server/api/responses"
	"github.com/Teffi0/server/api/validators"
	"github.com/Teffi0/server/internal/clients"
	"github.com/Teffi0/server/pkg/logger"
)

// ClientService is the surface the client controllers depend on.
type ClientService interface {
	List(ctx context.Context) ([]clients.ClientDTO, error)
	Create(ctx context.Context, input clients.ClientInput) (int64, error)
	Update(ctx context.Context, id int64, input clients.ClientInput) error
	Delete(ctx context.Context, id int64, actorID int64) error
	Changes(ctx context.Context, id int64) ([]clients.ChangeDTO, error)
}

type clientWriteRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
	Address     *string `json:"address"`
	Email       *string `json:"email"`
	Source      *string `json:"source"`
	Comment     *string `json:"comment"`
}

func (p clientWriteRequest) toInput(actorID int64) clients.ClientInput {
	return clients.ClientInput{
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		Email:       p.Email,
		Source:      p.Source,
		Comment:     p.Comment,
		ActorID:     actorID,
	}
}

// ClientList handles GET /clients.
func ClientList(svc ClientService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ClientCreate handles POST /clients.
func ClientCreate(svc ClientService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload clientWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Create(r.Context(), payload.toInput(middleware.ActorIDFromContext(r.Context())))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// ClientUpdate handles PUT /clients/{id}.
func ClientUpdate(svc ClientService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload clientWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), id, payload.toInput(middleware.ActorIDFromContext(r.Context()))); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"id": id})
	}
}

// ClientDelete handles DELETE /clients/{id}.
func ClientDelete(svc ClientService, logg *logger.Logger) http.HandlerFunc {
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

// ClientChanges handles GET /clients/{id}/changes.
func ClientChanges(svc ClientService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		changes, err := svc.Changes(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, changes)
	}
}
