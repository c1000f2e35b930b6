package controllers

import (
	"context"
	"net/http"

	"github.com/Teffi0/server/api/responses"
	"github.com/Teffi0/server/internal/catalog"
	"github.com/Teffi0/server/pkg/logger"
)

// CatalogService is the surface the catalog controllers depend on.
type CatalogService interface {
	Services(ctx context.Context) ([]catalog.ServiceDTO, error)
	PaymentMethods(ctx context.Context) ([]catalog.PaymentMethodDTO, error)
}

// ServiceList handles GET /services.
func ServiceList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Services(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// PaymentMethodList handles GET /paymentmethods.
func PaymentMethodList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.PaymentMethods(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
