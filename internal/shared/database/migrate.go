package database

import (
	"fmt"

	"boletamaster/internal/marketplace"
	"boletamaster/internal/purchases"
	"boletamaster/internal/refunds"
	"boletamaster/internal/users"

	"gorm.io/gorm"
)

// Models lists every persisted table.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&purchases.Receipt{},
		&purchases.ReceiptLine{},
		&refunds.RefundRecord{},
		&marketplace.OfferLogEntry{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
