package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the persisted snapshot of a finalized purchase.
type Receipt struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Reference     string          `gorm:"unique;not null" json:"reference"`
	ClientID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"client_id"`
	Value         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	Method        string          `gorm:"type:varchar(20);check:method IN ('BALANCE', 'EXTERNAL');not null" json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	TicketCount   int             `gorm:"not null" json:"ticket_count"`
	BundleCount   int             `gorm:"not null" json:"bundle_count"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Lines []ReceiptLine `json:"lines,omitempty" gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE;"`
}

// ReceiptLine is one ticket or bundle of a receipt.
type ReceiptLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReceiptID     int64           `gorm:"index;not null" json:"receipt_id"`
	ItemID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"item_id"`
	Kind          string          `gorm:"type:varchar(20);not null" json:"kind"`
	EventID       *uuid.UUID      `gorm:"type:uuid" json:"event_id,omitempty"`
	Seat          int             `json:"seat"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	ServiceCharge decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"service_charge"`
	IssuanceFee   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"issuance_fee"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Receipt) TableName() string {
	return "purchase_receipts"
}

func (ReceiptLine) TableName() string {
	return "purchase_receipt_lines"
}

// NewReceipt converts a finalized purchase into its persisted form.
func NewReceipt(p *Purchase, transactionID string) *Receipt {
	summary := p.Summary()
	r := &Receipt{
		ID:            summary.ID,
		Reference:     summary.Reference,
		ClientID:      summary.ClientID,
		Value:         summary.Value,
		Method:        string(summary.Method),
		TransactionID: transactionID,
		TicketCount:   len(summary.Tickets),
		BundleCount:   len(summary.Bundles),
		CreatedAt:     summary.CreatedAt,
	}
	for _, s := range append(summary.Tickets, summary.Bundles...) {
		line := ReceiptLine{
			ReceiptID:     summary.ID,
			ItemID:        s.ID,
			Kind:          string(s.Kind),
			Seat:          s.Seat,
			Price:         s.Price,
			ServiceCharge: s.ServiceCharge,
			IssuanceFee:   s.IssuanceFee,
			CreatedAt:     summary.CreatedAt,
		}
		if s.EventID != uuid.Nil {
			eventID := s.EventID
			line.EventID = &eventID
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}
