package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"forms-service/internal/apierror"
	"forms-service/internal/models"
	"forms-service/internal/repository"
)

// Journal mapping keys. Each (feature, name) pair must have a SettingJournal
// row pointing at a chart of account; a missing row is a configuration error.
const (
	FeatureStockCorrection = "stock correction"
	FeatureSalesInvoice    = "sales invoice"

	JournalNameDifferenceStockExpenses = "difference stock expenses"
	JournalNameAccountReceivable       = "account receivable"
	JournalNameSalesIncome             = "sales income"
)

// SideEffectDispatcher performs the compensating actions bound to successful
// transitions: inventory movements and ledger journal postings. Every method
// takes the transactional repository so effects commit or roll back with the
// form mutation.
type SideEffectDispatcher struct{}

// NewSideEffectDispatcher creates a new SideEffectDispatcher
func NewSideEffectDispatcher() *SideEffectDispatcher {
	return &SideEffectDispatcher{}
}

func (d *SideEffectDispatcher) settingJournal(ctx context.Context, repo repository.FormsRepositoryInterface, tenantID, feature, name string) (*models.SettingJournal, error) {
	setting, err := repo.GetSettingJournal(ctx, tenantID, feature, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NewConfiguration(
				fmt.Sprintf("Journal %s account mapping for feature %s is missing", name, feature))
		}
		return nil, err
	}
	return setting, nil
}

// ApplyStockMovements appends one inventory movement per correction line.
func (d *SideEffectDispatcher) ApplyStockMovements(ctx context.Context, repo repository.FormsRepositoryInterface, sc *models.StockCorrection, form *models.Form) error {
	movements := make([]models.InventoryMovement, 0, len(sc.Items))
	for _, item := range sc.Items {
		movements = append(movements, models.InventoryMovement{
			TenantID:    sc.TenantID,
			WarehouseID: sc.WarehouseID,
			ItemID:      item.ItemID,
			FormID:      form.ID,
			QtyDelta:    item.Quantity,
		})
	}
	return repo.CreateInventoryMovements(ctx, movements)
}

// ReverseStockMovements appends negated copies of the movements a form's
// approval applied. The quantity ledger stays append-only; reversal rows net
// the original ones to zero.
func (d *SideEffectDispatcher) ReverseStockMovements(ctx context.Context, repo repository.FormsRepositoryInterface, formID uuid.UUID) error {
	movements, err := repo.GetInventoryMovementsByForm(ctx, formID)
	if err != nil {
		return err
	}

	reversals := make([]models.InventoryMovement, 0, len(movements))
	for _, m := range movements {
		reversals = append(reversals, models.InventoryMovement{
			TenantID:    m.TenantID,
			WarehouseID: m.WarehouseID,
			ItemID:      m.ItemID,
			FormID:      m.FormID,
			QtyDelta:    m.QtyDelta.Neg(),
		})
	}
	return repo.CreateInventoryMovements(ctx, reversals)
}

// PostStockCorrectionJournal posts the difference-stock-expenses entry for an
// approved correction: the expense account takes the correction value, each
// line's inventory account takes the opposite side.
func (d *SideEffectDispatcher) PostStockCorrectionJournal(ctx context.Context, repo repository.FormsRepositoryInterface, sc *models.StockCorrection, form *models.Form) error {
	setting, err := d.settingJournal(ctx, repo, sc.TenantID, FeatureStockCorrection, JournalNameDifferenceStockExpenses)
	if err != nil {
		return err
	}

	var lines []models.JournalLine
	total := decimal.Zero
	for _, item := range sc.Items {
		value := item.Quantity.Mul(item.UnitCost)
		if value.IsZero() {
			continue
		}
		total = total.Add(value)

		accountID := setting.ChartOfAccountID
		if item.Item != nil && item.Item.ChartOfAccountID != nil {
			accountID = *item.Item.ChartOfAccountID
		}
		debit, credit := splitAmount(value.Neg())
		lines = append(lines, models.JournalLine{
			ChartOfAccountID: accountID,
			Debit:            debit,
			Credit:           credit,
		})
	}
	if len(lines) == 0 {
		return nil
	}

	debit, credit := splitAmount(total)
	lines = append(lines, models.JournalLine{
		ChartOfAccountID: setting.ChartOfAccountID,
		Debit:            debit,
		Credit:           credit,
	})

	entry := &models.JournalEntry{
		TenantID: sc.TenantID,
		FormID:   form.ID,
		Date:     time.Now(),
		Memo:     fmt.Sprintf("Stock correction %s", form.Number),
		Status:   models.JournalStatusPosted,
		Lines:    lines,
	}
	return repo.CreateJournalEntry(ctx, entry)
}

// PostSalesInvoiceJournal posts the receivable/income pair for an approved
// invoice.
func (d *SideEffectDispatcher) PostSalesInvoiceJournal(ctx context.Context, repo repository.FormsRepositoryInterface, invoice *models.SalesInvoice, form *models.Form) error {
	receivable, err := d.settingJournal(ctx, repo, invoice.TenantID, FeatureSalesInvoice, JournalNameAccountReceivable)
	if err != nil {
		return err
	}
	income, err := d.settingJournal(ctx, repo, invoice.TenantID, FeatureSalesInvoice, JournalNameSalesIncome)
	if err != nil {
		return err
	}

	entry := &models.JournalEntry{
		TenantID: invoice.TenantID,
		FormID:   form.ID,
		Date:     time.Now(),
		Memo:     fmt.Sprintf("Sales invoice %s", form.Number),
		Status:   models.JournalStatusPosted,
		Lines: []models.JournalLine{
			{ChartOfAccountID: receivable.ChartOfAccountID, Debit: invoice.Amount},
			{ChartOfAccountID: income.ChartOfAccountID, Credit: invoice.Amount},
		},
	}
	return repo.CreateJournalEntry(ctx, entry)
}

// VoidJournal void-posts every entry the form produced.
func (d *SideEffectDispatcher) VoidJournal(ctx context.Context, repo repository.FormsRepositoryInterface, formID uuid.UUID) error {
	return repo.VoidJournalEntriesByForm(ctx, formID)
}

// splitAmount places a signed value on the correct journal side.
func splitAmount(value decimal.Decimal) (debit, credit decimal.Decimal) {
	if value.IsNegative() {
		return decimal.Zero, value.Neg()
	}
	return value, decimal.Zero
}
