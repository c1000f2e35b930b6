package controllers

import (
	"context"
	"net/http"

	"github.com/Teffi0/server/api/middleware"
	"github.com/Teffi0/server/api/responses"
	"github.com/Teffi0/server/api/validators"
	"github.com/Teffi0/server/internal/inventory"
	"github.com/Teffi0/server/pkg/logger"
)

// InventoryService is the surface the inventory controllers depend on.
type InventoryService interface {
	List(ctx context.Context) ([]inventory.ItemDTO, error)
	Create(ctx context.Context, input inventory.ItemInput) (int64, error)
	Update(ctx context.Context, id int64, input inventory.ItemInput) error
	Delete(ctx context.Context, id int64, actorID int64) error
}

type inventoryWriteRequest struct {
	Name     string `json:"name" validate:"required"`
	Measure  string `json:"measure" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

// InventoryList handles GET /inventory.
func InventoryList(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// InventoryCreate handles POST /inventory.
func InventoryCreate(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventoryWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Create(r.Context(), inventory.ItemInput{
			Name:     payload.Name,
			Measure:  payload.Measure,
			Quantity: payload.Quantity,
			ActorID:  middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// InventoryUpdate handles PUT /inventory/{id}.
func InventoryUpdate(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload inventoryWriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Update(r.Context(), id, inventory.ItemInput{
			Name:     payload.Name,
			Measure:  payload.Measure,
			Quantity: payload.Quantity,
			ActorID:  middleware.ActorIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"id": id})
	}
}

// InventoryDelete handles DELETE /inventory/{id}.
func InventoryDelete(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
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
