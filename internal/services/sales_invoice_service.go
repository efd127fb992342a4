package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"forms-service/internal/events"
	"forms-service/internal/models"
	"forms-service/internal/repository"
)

// SalesInvoiceService orchestrates approval and cancellation transitions on
// sales invoices. Invoices post journal entries on approval but touch no
// inventory; their quantities were moved by the upstream document they
// reference.
type SalesInvoiceService struct {
	repo      repository.FormsRepositoryInterface
	effects   *SideEffectDispatcher
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewSalesInvoiceService creates a new SalesInvoiceService
func NewSalesInvoiceService(repo repository.FormsRepositoryInterface, effects *SideEffectDispatcher, publisher *events.Publisher, logger *logrus.Logger) *SalesInvoiceService {
	if logger == nil {
		logger = logrus.New()
	}
	return &SalesInvoiceService{
		repo:      repo,
		effects:   effects,
		publisher: publisher,
		logger:    logger.WithField("component", "sales-invoice-service"),
	}
}

// FindOne retrieves a sales invoice with its lines, customer and form. When
// the invoice references an upstream document, the referenced form is
// resolved and attached.
func (s *SalesInvoiceService) FindOne(ctx context.Context, tenantID string, id uuid.UUID) (*models.SalesInvoice, error) {
	invoice, err := s.repo.GetSalesInvoiceByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotExist(labelSalesInvoice)
		}
		return nil, err
	}

	if invoice.ReferenceableType != "" && invoice.ReferenceableID != nil {
		form, err := s.repo.GetFormByFormable(ctx, invoice.ReferenceableType, *invoice.ReferenceableID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if form != nil {
			invoice.Referenceable = &models.Referenceable{
				FormableType: invoice.ReferenceableType,
				FormableID:   *invoice.ReferenceableID,
				Form:         form,
			}
		}
	}
	return invoice, nil
}

// Approve moves the form's approval status from pending to approved and posts
// the receivable/income journal entry inside the same transaction.
func (s *SalesInvoiceService) Approve(ctx context.Context, tenantID string, approverID, salesInvoiceID uuid.UUID, reason string) (*models.SalesInvoice, error) {
	actor, err := resolveActor(ctx, s.repo, approverID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.FindOne(ctx, tenantID, salesInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardApprove(actor, invoice.Form, labelSalesInvoice); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeSalesInvoice, invoice.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelSalesInvoice)
			}
			return err
		}
		if err := guardApprove(actor, form, labelSalesInvoice); err != nil {
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

		if err := s.effects.PostSalesInvoiceJournal(ctx, tx, invoice, form); err != nil {
			return err
		}

		writeAuditLog(ctx, tx, s.logger, form, models.AuditEventApproved, actor.ID, map[string]interface{}{"reason": reason})
		invoice.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventApproved, invoice.Form, actor.ID.String())
	return invoice, nil
}

// Reject moves the form's approval status from pending to rejected.
func (s *SalesInvoiceService) Reject(ctx context.Context, tenantID string, approverID, salesInvoiceID uuid.UUID, reason string) (*models.SalesInvoice, error) {
	actor, err := resolveActor(ctx, s.repo, approverID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.FindOne(ctx, tenantID, salesInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardReject(actor, invoice.Form, labelSalesInvoice); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeSalesInvoice, invoice.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelSalesInvoice)
			}
			return err
		}
		if err := guardReject(actor, form, labelSalesInvoice); err != nil {
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

		writeAuditLog(ctx, tx, s.logger, form, models.AuditEventRejected, actor.ID, map[string]interface{}{"reason": reason})
		invoice.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventRejected, invoice.Form, actor.ID.String())
	return invoice, nil
}

// DeleteFormRequest asks the designated approver to confirm deletion.
func (s *SalesInvoiceService) DeleteFormRequest(ctx context.Context, tenantID string, requesterID, salesInvoiceID, requestCancellationTo uuid.UUID, reason string) (*models.SalesInvoice, error) {
	invoice, err := s.FindOne(ctx, tenantID, salesInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardCancellationRequest(invoice.Form, labelSalesInvoice); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeSalesInvoice, invoice.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelSalesInvoice)
			}
			return err
		}
		if err := guardCancellationRequest(form, labelSalesInvoice); err != nil {
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

		writeAuditLog(ctx, tx, s.logger, form, models.AuditEventCancellationRequested, requesterID, map[string]interface{}{"reason": reason})
		invoice.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventCancellationRequested, invoice.Form, requesterID.String())
	return invoice, nil
}

// DeleteFormApprove approves a pending cancellation: journal entries are
// voided and the invoice is hard-deleted with its form. The returned snapshot
// is the invoice as it stood immediately before destruction.
func (s *SalesInvoiceService) DeleteFormApprove(ctx context.Context, tenantID string, approverID, salesInvoiceID uuid.UUID) (*models.SalesInvoice, error) {
	actor, err := resolveActor(ctx, s.repo, approverID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.FindOne(ctx, tenantID, salesInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardCancellationApprove(actor, invoice.Form, labelSalesInvoice); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeSalesInvoice, invoice.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelSalesInvoice)
			}
			return err
		}
		if err := guardCancellationApprove(actor, form, labelSalesInvoice); err != nil {
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

		if err := s.effects.VoidJournal(ctx, tx, form.ID); err != nil {
			return err
		}

		writeAuditLog(ctx, tx, s.logger, form, models.AuditEventCancellationApproved, actor.ID, nil)
		invoice.Form = form

		return tx.DeleteSalesInvoice(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventCancellationApproved, invoice.Form, actor.ID.String())
	return invoice, nil
}

// DeleteFormReject rejects a pending cancellation and keeps the invoice.
func (s *SalesInvoiceService) DeleteFormReject(ctx context.Context, tenantID string, approverID, salesInvoiceID uuid.UUID, reason string) (*models.SalesInvoice, error) {
	actor, err := resolveActor(ctx, s.repo, approverID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.FindOne(ctx, tenantID, salesInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := guardCancellationReject(actor, invoice.Form, labelSalesInvoice); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		form, err := tx.GetFormForUpdate(ctx, models.FormableTypeSalesInvoice, invoice.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNotExist(labelSalesInvoice)
			}
			return err
		}
		if err := guardCancellationReject(actor, form, labelSalesInvoice); err != nil {
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

		writeAuditLog(ctx, tx, s.logger, form, models.AuditEventCancellationRejected, actor.ID, map[string]interface{}{"reason": reason})
		invoice.Form = form
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishFormEvent(ctx, models.AuditEventCancellationRejected, invoice.Form, actor.ID.String())
	return invoice, nil
}
