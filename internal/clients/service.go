package clients

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

type auditReader interface {
	List(ctx context.Context, kind enums.ChangeKind, entityID int64) ([]models.ChangeLogEntry, error)
}

// ClientInput carries the editable fields of a client. Email, source and
// comment come only from the lead-capture form.
type ClientInput struct {
	FullName    string
	PhoneNumber string
	Address     *string
	Email       *string
	Source      *string
	Comment     *string
	ActorID     int64
}

// ClientDTO is the wire shape for client reads.
type ClientDTO struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Address     *string `json:"address"`
	Email       *string `json:"email"`
	Source      *string `json:"source"`
	Comment     *string `json:"comment"`
}

// ChangeDTO is one row of a client's audit history.
type ChangeDTO struct {
	ID          int64  `json:"id"`
	ActorID     int64  `json:"actor_id"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Service manages the client roster and surfaces its change history.
type Service struct {
	repo    *Repository
	audit   auditRecorder
	history auditReader
}

// NewService builds the clients service.
func NewService(repo *Repository, audit auditRecorder, history auditReader) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &Service{repo: repo, audit: audit, history: history}, nil
}

// List returns all clients.
func (s *Service) List(ctx context.Context) ([]ClientDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	dtos := make([]ClientDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}

// Create adds a client.
func (s *Service) Create(ctx context.Context, input ClientInput) (int64, error) {
	if err := validateInput(input); err != nil {
		return 0, err
	}
	client := models.Client{
		FullName:    strings.TrimSpace(input.FullName),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Address:     input.Address,
		Email:       input.Email,
		Source:      input.Source,
		Comment:     input.Comment,
	}
	if err := s.repo.Create(ctx, &client); err != nil {
		return 0, fmt.Errorf("create client: %w", err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindClient, client.ID, input.ActorID,
		fmt.Sprintf("created client %q", client.FullName))
	return client.ID, nil
}

// Update edits a client.
func (s *Service) Update(ctx context.Context, id int64, input ClientInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	client, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	client.FullName = strings.TrimSpace(input.FullName)
	client.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	client.Address = input.Address
	client.Email = input.Email
	client.Source = input.Source
	client.Comment = input.Comment
	if err := s.repo.Update(ctx, client); err != nil {
		return fmt.Errorf("update client %d: %w", id, err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, input.ActorID,
		fmt.Sprintf("edited client %q", client.FullName))
	return nil
}

// Delete removes a client. The change history outlives the row.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	s.audit.RecordAsync(ctx, enums.ChangeKindClient, id, actorID, "deleted client")
	return nil
}

// Changes returns the audit history of one client.
func (s *Service) Changes(ctx context.Context, id int64) ([]ChangeDTO, error) {
	if s.history == nil {
		return []ChangeDTO{}, nil
	}
	entries, err := s.history.List(ctx, enums.ChangeKindClient, id)
	if err != nil {
		return nil, fmt.Errorf("list changes of client %d: %w", id, err)
	}
	dtos := make([]ChangeDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, ChangeDTO{
			ID:          entry.ID,
			ActorID:     entry.ActorID,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return dtos, nil
}

func (s *Service) load(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("client %d not found", id))
		}
		return nil, fmt.Errorf("load client %d: %w", id, err)
	}
	return client, nil
}

func validateInput(input ClientInput) error {
	missing := []string{}
	if strings.TrimSpace(input.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		missing = append(missing, "phone_number")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func toDTO(client models.Client) ClientDTO {
	return ClientDTO{
		ID:          client.ID,
		FullName:    client.FullName,
		PhoneNumber: client.PhoneNumber,
		Address:     client.Address,
		Email:       client.Email,
		Source:      client.Source,
		Comment:     client.Comment,
	}
}
