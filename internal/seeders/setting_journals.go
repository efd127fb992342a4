package seeders

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forms-service/internal/models"
)

// SeedSettingJournals creates or updates the default journal account mappings
// for a tenant. Postings fail loudly without these rows, so new tenants get a
// workable chart of accounts out of the box.
func SeedSettingJournals(db *gorm.DB, tenantID string) error {
	types := []models.ChartOfAccountType{
		{Name: "cost of sales", Alias: "harga pokok penjualan", IsDebit: true},
		{Name: "account receivable", Alias: "piutang usaha", IsDebit: true},
		{Name: "income", Alias: "pendapatan", IsDebit: false},
	}
	for i := range types {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"alias", "is_debit"}),
		}).Create(&types[i])
		if result.Error != nil {
			log.Printf("Failed to seed account type %s: %v", types[i].Name, result.Error)
			return result.Error
		}
	}

	accounts := []models.ChartOfAccount{
		{TenantID: tenantID, TypeID: types[0].ID, Position: "DEBIT", Name: "beban selisih persediaan", Alias: "difference stock expenses"},
		{TenantID: tenantID, TypeID: types[1].ID, Position: "DEBIT", Name: "piutang usaha", Alias: "account receivable"},
		{TenantID: tenantID, TypeID: types[2].ID, Position: "CREDIT", Name: "pendapatan penjualan", Alias: "sales income"},
	}
	for i := range accounts {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"type_id", "position", "alias"}),
		}).Create(&accounts[i])
		if result.Error != nil {
			log.Printf("Failed to seed account %s: %v", accounts[i].Name, result.Error)
			return result.Error
		}
	}

	settings := []models.SettingJournal{
		{
			TenantID:         tenantID,
			Feature:          "stock correction",
			Name:             "difference stock expenses",
			Description:      "Account for stock correction differences",
			ChartOfAccountID: accounts[0].ID,
		},
		{
			TenantID:         tenantID,
			Feature:          "sales invoice",
			Name:             "account receivable",
			Description:      "Receivable account for sales invoices",
			ChartOfAccountID: accounts[1].ID,
		},
		{
			TenantID:         tenantID,
			Feature:          "sales invoice",
			Name:             "sales income",
			Description:      "Income account for sales invoices",
			ChartOfAccountID: accounts[2].ID,
		},
	}

	for _, setting := range settings {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "feature"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "chart_of_account_id"}),
		}).Create(&setting)
		if result.Error != nil {
			log.Printf("Failed to seed setting journal %s/%s: %v", setting.Feature, setting.Name, result.Error)
			return result.Error
		}
		log.Printf("Seeded setting journal: %s/%s (tenant: %s)", setting.Feature, setting.Name, setting.TenantID)
	}

	return nil
}
