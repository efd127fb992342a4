package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"forms-service/internal/apierror"
	"forms-service/internal/events"
	"forms-service/internal/models"
	"forms-service/internal/repository"
)

// StockCorrectionService orchestrates approval and cancellation transitions
// on stock corrections. Every transition runs as one unit of work: load,
// authorize, guard, mutate, side-effect, commit.
type StockCorrectionService struct {
	repo      repository.FormsRepositoryInterface
	effects   *SideEffectDispatcher
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewStockCorrectionService creates a new StockCorrectionService
func NewStockCorrectionService(repo repository.FormsRepositoryInterface, effects *SideEffectDispatcher, publisher *events.Publisher, logger *logrus.Logger) *StockCorrectionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &StockCorrectionService{
		repo:      repo,
		effects:   effects,
		publisher: publisher,
		logger:    logger.WithField("component", "stock-correction-service"),
	}
}

// FindOne retrieves a stock correction with its lines, warehouse and form.
func (s *StockCorrectionService) FindOne(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockCorrection, error) {
	sc, err := s.repo.GetStockCorrectionByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotExist(labelStockCorrection)
		}
		return nil, err
	}
	return sc, nil
}

// Approve moves the form's approval status from pending to approved, applies
// the inventory movements and posts the difference-stock-expenses journal
// entry, all inside one transaction.
func (s *StockCorrectionService) Approve(ctx context.Context, tenantID string, approverID, stockCorrectionID uuid.UUID, reason string) (*models.StockCorrection, error) {
	actor, err := s.resolveActor(ctx, approverID)
	if err != nil {
		return nil, err
	}

	sc, err := s.FindOne(ctx, tenantID, stockCorrectionID)
	if err != nil {
		return nil, err
	}
	if err := guardApprove(actor, sc.Form, labelStockCorrection); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeStockCorrection, sc.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelStockCorrection)
			}
			return err
		}
		// Re-check under the row lock
		if err := guardApprove(actor, form, labelStockCorrection); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.UpdateForm(ctx, form, map[string]interface{}{
			"approval_status": models.ApprovalStatusApproved,
			"approval_by":     actor.ID,
			"approval_at":     now,
			"approval_reason": reason,
			"updated_by":      actor.ID,
		}); err != nil {
			return translateConflict(err)
		}

		if err := s.effects.ApplyStockMovements(ctx, tx, sc, form); err != nil {
			return err
		}
		if err := s.effects.PostStockCorrectionJournal(ctx, tx, sc, form); err != nil {
			return err
		}

		s.audit(ctx, tx, form, models.AuditEventApproved, actor.ID, map[string]interface{}{"reason": reason})
		sc.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventApproved, sc.Form, actor.ID.String())
	return sc, nil
}

// Reject moves the form's approval status from pending to rejected. No side
// effects fire.
func (s *StockCorrectionService) Reject(ctx context.Context, tenantID string, approverID, stockCorrectionID uuid.UUID, reason string) (*models.StockCorrection, error) {
	actor, err := s.resolveActor(ctx, approverID)
	if err != nil {
		return nil, err
	}

	sc, err := s.FindOne(ctx, tenantID, stockCorrectionID)
	if err != nil {
		return nil, err
	}
	if err := guardReject(actor, sc.Form, labelStockCorrection); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeStockCorrection, sc.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelStockCorrection)
			}
			return err
		}
		if err := guardReject(actor, form, labelStockCorrection); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.UpdateForm(ctx, form, map[string]interface{}{
			"approval_status": models.ApprovalStatusRejected,
			"approval_by":     actor.ID,
			"approval_at":     now,
			"approval_reason": reason,
			"updated_by":      actor.ID,
		}); err != nil {
			return translateConflict(err)
		}

		s.audit(ctx, tx, form, models.AuditEventRejected, actor.ID, map[string]interface{}{"reason": reason})
		sc.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventRejected, sc.Form, actor.ID.String())
	return sc, nil
}

// DeleteFormRequest asks the designated approver to confirm deletion. Only
// legal while no cancellation has ever been requested.
func (s *StockCorrectionService) DeleteFormRequest(ctx context.Context, tenantID string, requesterID, stockCorrectionID, requestCancellationTo uuid.UUID, reason string) (*models.StockCorrection, error) {
	sc, err := s.FindOne(ctx, tenantID, stockCorrectionID)
	if err != nil {
		return nil, err
	}
	if err := guardCancellationRequest(sc.Form, labelStockCorrection); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeStockCorrection, sc.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelStockCorrection)
			}
			return err
		}
		if err := guardCancellationRequest(form, labelStockCorrection); err != nil {
			return err
		}

		if err := tx.UpdateForm(ctx, form, map[string]interface{}{
			"cancellation_status":         models.CancellationStatusPending,
			"request_cancellation_to":     requestCancellationTo,
			"request_cancellation_reason": reason,
			"updated_by":                  requesterID,
		}); err != nil {
			return translateConflict(err)
		}

		s.audit(ctx, tx, form, models.AuditEventCancellationRequested, requesterID, map[string]interface{}{"reason": reason})
		sc.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventCancellationRequested, sc.Form, requesterID.String())
	return sc, nil
}

// DeleteFormApprove approves a pending cancellation: the cancellation status
// becomes approved, the applied inventory movements are reversed, journal
// entries are voided and the aggregate is hard-deleted with its form. The
// returned snapshot is the aggregate as it stood immediately before
// destruction.
func (s *StockCorrectionService) DeleteFormApprove(ctx context.Context, tenantID string, approverID, stockCorrectionID uuid.UUID) (*models.StockCorrection, error) {
	actor, err := s.resolveActor(ctx, approverID)
	if err != nil {
		return nil, err
	}

	sc, err := s.FindOne(ctx, tenantID, stockCorrectionID)
	if err != nil {
		return nil, err
	}
	if err := guardCancellationApprove(actor, sc.Form, labelStockCorrection); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeStockCorrection, sc.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelStockCorrection)
			}
			return err
		}
		if err := guardCancellationApprove(actor, form, labelStockCorrection); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.UpdateForm(ctx, form, map[string]interface{}{
			"cancellation_status":      models.CancellationStatusApproved,
			"cancellation_approval_by": actor.ID,
			"cancellation_approval_at": now,
			"updated_by":               actor.ID,
		}); err != nil {
			return translateConflict(err)
		}

		if err := s.effects.ReverseStockMovements(ctx, tx, form.ID); err != nil {
			return err
		}
		if err := s.effects.VoidJournal(ctx, tx, form.ID); err != nil {
			return err
		}

		s.audit(ctx, tx, form, models.AuditEventCancellationApproved, actor.ID, nil)
		sc.Form = form

		return tx.DeleteStockCorrection(ctx, sc)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventCancellationApproved, sc.Form, actor.ID.String())
	return sc, nil
}

// DeleteFormReject rejects a pending cancellation and keeps the aggregate.
func (s *StockCorrectionService) DeleteFormReject(ctx context.Context, tenantID string, approverID, stockCorrectionID uuid.UUID, reason string) (*models.StockCorrection, error) {
	actor, err := s.resolveActor(ctx, approverID)
	if err != nil {
		return nil, err
	}

	sc, err := s.FindOne(ctx, tenantID, stockCorrectionID)
	if err != nil {
		return nil, err
	}
	if err := guardCancellationReject(actor, sc.Form, labelStockCorrection); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeStockCorrection, sc.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelStockCorrection)
			}
			return err
		}
		if err := guardCancellationReject(actor, form, labelStockCorrection); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.UpdateForm(ctx, form, map[string]interface{}{
			"cancellation_status":        models.CancellationStatusRejected,
			"cancellation_approval_by":   actor.ID,
			"cancellation_approval_at":   now,
			"cancellation_reject_reason": reason,
			"updated_by":                 actor.ID,
		}); err != nil {
			return translateConflict(err)
		}

		s.audit(ctx, tx, form, models.AuditEventCancellationRejected, actor.ID, map[string]interface{}{"reason": reason})
		sc.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventCancellationRejected, sc.Form, actor.ID.String())
	return sc, nil
}

func (s *StockCorrectionService) resolveActor(ctx context.Context, userID uuid.UUID) (models.Actor, error) {
	return resolveActor(ctx, s.repo, userID)
}

func (s *StockCorrectionService) audit(ctx context.Context, tx repository.FormsRepositoryInterface, form *models.Form, eventType string, actorID uuid.UUID, metadata map[string]interface{}) {
	writeAuditLog(ctx, tx, s.logger, form, eventType, actorID, metadata)
}

// --- shared helpers ---

// resolveActor loads the user with roles and collapses the role set into the
// capability predicate the guards consume.
func resolveActor(ctx context.Context, repo repository.FormsRepositoryInterface, userID uuid.UUID) (models.Actor, error) {
	user, err := repo.GetUserWithRoles(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Actor{}, apierror.NewNotFound("User is not exist")
		}
		return models.Actor{}, err
	}
	return user.AsActor(), nil
}

// translateConflict maps the repository's optimistic-lock sentinel onto the
// API error taxonomy.
func translateConflict(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return apierror.NewConflict(err.Error())
	}
	return err
}

// writeAuditLog records the transition; audit failures are logged, never
// fatal to the transition itself.
func writeAuditLog(ctx context.Context, tx repository.FormsRepositoryInterface, logger *logrus.Entry, form *models.Form, eventType string, actorID uuid.UUID, metadata map[string]interface{}) {
	metadataJSON, _ := json.Marshal(metadata)

	log := &models.FormAuditLog{
		FormID:    form.ID,
		TenantID:  form.TenantID,
		EventType: eventType,
		ActorID:   &actorID,
		Metadata:  datatypes.JSON(metadataJSON),
	}
	if err := tx.CreateFormAuditLog(ctx, log); err != nil {
		logger.WithError(err).WithField("formId", form.ID).Error("Failed to create form audit log")
	}
}
