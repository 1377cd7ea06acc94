package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Donation ledger lookup axes
		{"donations", "idx_donations_donor_id", "donor_id"},
		{"donations", "idx_donations_organisation_id", "organisation_id"},
		{"donations", "idx_donations_campaign_id", "campaign_id"},
		{"donations", "idx_donations_payment_status", "payment_status"},
		{"donations", "idx_donations_created_at", "created_at"},

		// Campaign browsing and reporting
		{"campaigns", "idx_campaigns_organisation_id", "organisation_id"},
		{"campaigns", "idx_campaigns_is_active", "is_active"},
		{"campaigns", "idx_campaigns_raised_amount", "raised_amount"},

		// Organisation verification queue and reporting
		{"organisations", "idx_organisations_is_verified", "is_verified"},
		{"organisations", "idx_organisations_total_donations", "total_donations"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
