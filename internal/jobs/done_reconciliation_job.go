package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"forms-service/internal/models"
	"forms-service/internal/repository"
)

// DoneReconciliationJob marks forms as done once a downstream sales invoice
// references their aggregate. A done form can no longer have its cancellation
// approved, so the flag must converge even when the referencing document was
// created by another service instance.
type DoneReconciliationJob struct {
	repo     repository.FormsRepositoryInterface
	logger   *logrus.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewDoneReconciliationJob creates a new done reconciliation job
func NewDoneReconciliationJob(repo repository.FormsRepositoryInterface, logger *logrus.Logger) *DoneReconciliationJob {
	return &DoneReconciliationJob{
		repo:     repo,
		logger:   logger,
		interval: 5 * time.Minute,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reconciliation job
func (j *DoneReconciliationJob) Start(ctx context.Context) {
	j.logger.Info("Done reconciliation job started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Run immediately on start
	j.runDoneCheck(ctx)

	for {
		select {
		case <-ticker.C:
			j.runDoneCheck(ctx)
		case <-j.stopCh:
			j.logger.Info("Done reconciliation job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Done reconciliation job context cancelled")
			return
		}
	}
}

// Stop signals the job to stop
func (j *DoneReconciliationJob) Stop() {
	close(j.stopCh)
}

// runDoneCheck finds referenced forms whose done flag is still unset and
// flips them
func (j *DoneReconciliationJob) runDoneCheck(ctx context.Context) {
	j.logger.Debug("Running done reconciliation check...")

	forms, err := j.repo.FindUndoneReferencedForms(ctx)
	if err != nil {
		j.logger.Errorf("Failed to find undone referenced forms: %v", err)
		return
	}

	if len(forms) == 0 {
		j.logger.Debug("No forms need the done flag")
		return
	}

	j.logger.Infof("Found %d referenced forms to mark done", len(forms))

	for i := range forms {
		form := &forms[i]
		if err := j.markDone(ctx, form); err != nil {
			j.logger.Errorf("Failed to mark form %s done: %v", form.ID, err)
			continue
		}
		j.logger.Infof("Marked form %s (%s) done", form.Number, form.ID)
	}
}

// markDone flips the done flag inside a transaction. A version conflict means
// another instance got there first; the next run converges.
func (j *DoneReconciliationJob) markDone(ctx context.Context, form *models.Form) error {
	return j.repo.WithTransaction(ctx, func(tx repository.FormsRepositoryInterface) error {
		if err := tx.UpdateForm(ctx, form, map[string]interface{}{
			"done": true,
		}); err != nil {
			return err
		}

		auditLog := &models.FormAuditLog{
			FormID:    form.ID,
			TenantID:  form.TenantID,
			EventType: models.AuditEventMarkedDone,
		}
		if err := tx.CreateFormAuditLog(ctx, auditLog); err != nil {
			j.logger.Errorf("Failed to create done audit log: %v", err)
		}
		return nil
	})
}
