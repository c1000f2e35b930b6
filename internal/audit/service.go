package audit

import (
	"context"
	"fmt"

	"github.com/Teffi0/server/pkg/db/models"
	"github.com/Teffi0/server/pkg/enums"
	"github.com/Teffi0/server/pkg/logger"
)

// Service records who changed what. Audit writes are best-effort: a failed
// append is logged for the operators and swallowed, it never fails the
// business operation that triggered it.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the audit service.
func NewService(repo *Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// Record appends one entry synchronously.
func (s *Service) Record(ctx context.Context, kind enums.ChangeKind, entityID, actorID int64, description string) error {
	entry := models.ChangeLogEntry{
		EntityID:    entityID,
		ActorID:     actorID,
		Description: description,
	}
	return s.repo.Append(ctx, kind, &entry)
}

// RecordAsync appends one entry after the triggering transaction has
// committed. The write is detached from the request's cancellation so a
// dropped client connection does not lose the trail.
func (s *Service) RecordAsync(ctx context.Context, kind enums.ChangeKind, entityID, actorID int64, description string) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := s.Record(detached, kind, entityID, actorID, description); err != nil && s.logg != nil {
			fields := map[string]any{
				"change_kind": string(kind),
				"entity_id":   entityID,
				"actor_id":    actorID,
			}
			s.logg.Error(s.logg.WithFields(detached, fields), "audit.append_failed", err)
		}
	}()
}

// List returns the change history for one entity.
func (s *Service) List(ctx context.Context, kind enums.ChangeKind, entityID int64) ([]models.ChangeLogEntry, error) {
	return s.repo.ListByEntity(ctx, kind, entityID)
}
