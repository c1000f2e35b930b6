package catalog

import (
	"context"
	"fmt"

	"github.com/Teffi0/server/pkg/db/models"
	"gorm.io/gorm"
)

// ServiceDTO is one catalog service entry.
type ServiceDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"service_name"`
}

// PaymentMethodDTO is one accepted payment kind.
type PaymentMethodDTO struct {
	ID      int64  `json:"id"`
	Payment string `json:"payment"`
}

// Service serves the read-only reference catalogs the task forms populate
// their dropdowns from. Edits happen out of band, straight in the database.
type Service struct {
	db *gorm.DB
}

// NewService builds the catalog service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Service{db: db}, nil
}

// Services returns the work catalog.
func (s *Service) Services(ctx context.Context) ([]ServiceDTO, error) {
	var rows []models.Service
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	dtos := make([]ServiceDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ServiceDTO{ID: row.ID, Name: row.Name})
	}
	return dtos, nil
}

// PaymentMethods returns the accepted payment kinds.
func (s *Service) PaymentMethods(ctx context.Context) ([]PaymentMethodDTO, error) {
	var rows []models.PaymentMethod
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	dtos := make([]PaymentMethodDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, PaymentMethodDTO{ID: row.ID, Payment: row.Payment})
	}
	return dtos, nil
}
