package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Teffi0/server/pkg/db"
	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	pkgerrors "github.com/Teffi0/server/pkg/errors"
)

type auditRecorder interface {
	RecordAsync(ctx context.Context, kind enums.ChangeKind, entityID, actorID int64, description string)
}

// ItemInput carries the direct-edit fields for an inventory item.
type ItemInput struct {
	Name     string
	Measure  string
	Quantity int
	ActorID  int64
}

// ItemDTO is the wire shape for inventory reads.
type ItemDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Measure  string `json:"measure"`
	Quantity int    `json:"quantity"`
}

// Service exposes direct stock management, independent of any task. Stock
// movements tied to tasks go through the ledger instead.
type Service struct {
	repo  *Repository
	audit auditRecorder
}

// NewService builds the inventory service.
func NewService(repo *Repository, audit auditRecorder) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{repo: repo, audit: audit}, nil
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toDTO(item))
	}
	return dtos, nil
}

// Create adds a new item.
func (s *Service) Create(ctx context.Context, input ItemInput) (int64, error) {
	if err := validateInput(input); err != nil {
		return 0, err
	}
	item := models.InventoryItem{
		Name:     strings.TrimSpace(input.Name),
		Measure:  strings.TrimSpace(input.Measure),
		Quantity: input.Quantity,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return 0, fmt.Errorf("create inventory item: %w", err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindInventory, item.ID, input.ActorID,
		fmt.Sprintf("created item %q (%d %s)", item.Name, item.Quantity, item.Measure))
	return item.ID, nil
}

// Update edits name, measure and quantity of an item directly.
func (s *Service) Update(ctx context.Context, id int64, input ItemInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory item %d not found", id))
		}
		return fmt.Errorf("load inventory item %d: %w", id, err)
	}

	previous := item.Quantity
	item.Name = strings.TrimSpace(input.Name)
	item.Measure = strings.TrimSpace(input.Measure)
	item.Quantity = input.Quantity
	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("update inventory item %d: %w", id, err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindInventory, id, input.ActorID,
		fmt.Sprintf("edited item %q, quantity %d -> %d", item.Name, previous, item.Quantity))
	return nil
}

// Delete removes an item. Items still reserved by a task stay put.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	reserved, err := s.repo.CountReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("count reservations for item %d: %w", id, err)
	}
	if reserved > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("inventory item %d is reserved by %d task(s)", id, reserved))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inventory item %d: %w", id, err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindInventory, id, actorID, "deleted item")
	return nil
}

func validateInput(input ItemInput) error {
	missing := []string{}
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Measure) == "" {
		missing = append(missing, "measure")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"missing required fields: "+strings.Join(missing, ", "))
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	return nil
}

func toDTO(item models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:       item.ID,
		Name:     item.Name,
		Measure:  item.Measure,
		Quantity: item.Quantity,
	}
}
