package database

import (
	"gorm.io/gorm"
)

// constraintStatements guard the persisted history against duplicates and back the hot queries.
var constraintStatements = []string{
	// A ticket or bundle is refunded at most once
	`CREATE UNIQUE INDEX IF NOT EXISTS unique_approved_refund_per_item
		ON refund_records (item_id) WHERE decision = 'APPROVED';`,

	// An item appears once per receipt
	`CREATE UNIQUE INDEX IF NOT EXISTS unique_item_per_receipt
		ON purchase_receipt_lines (receipt_id, item_id);`,

	// Offer history is read per offer in order
	`CREATE INDEX IF NOT EXISTS idx_offer_log_offer_occurred
		ON marketplace_offer_log (offer_id, occurred_at);`,

	// Daily sales report scans receipts by day
	`CREATE INDEX IF NOT EXISTS idx_purchase_receipts_created_at
		ON purchase_receipts (created_at);`,
}

// MigrateConstraints adds the indexes AutoMigrate cannot express
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
