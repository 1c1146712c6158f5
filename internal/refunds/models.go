package refunds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

type ItemKind string

const (
	ItemTicket ItemKind = "TICKET"
	ItemBundle ItemKind = "BUNDLE"
)

// RefundRecord is the persisted outcome of one refund decision.
type RefundRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"client_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"item_id"`
	ItemKind  string          `gorm:"type:varchar(10);check:item_kind IN ('TICKET', 'BUNDLE');not null" json:"item_kind"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"amount"`
	Decision  string          `gorm:"type:varchar(20);check:decision IN ('APPROVED', 'REJECTED');not null" json:"decision"`
	DecidedBy *uuid.UUID      `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt time.Time       `gorm:"not null" json:"decided_at"`
	CreatedAt time.Time       `json:"created_at"`
}

func (RefundRecord) TableName() string {
	return "refund_records"
}
