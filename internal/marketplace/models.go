package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionOfferCreated      Action = "OFFER_CREATED"
	ActionBidPlaced         Action = "BID_PLACED"
	ActionBidAccepted       Action = "BID_ACCEPTED"
	ActionBidCancelled      Action = "BID_CANCELLED"
	ActionCancelledBySeller Action = "CANCELLED_BY_SELLER"
	ActionCancelledByAdmin  Action = "CANCELLED_BY_ADMIN"
)

// OfferLogEntry is one persisted state change of an offer.
type OfferLogEntry struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OfferID     uuid.UUID        `gorm:"type:uuid;index;not null" json:"offer_id"`
	Action      string           `gorm:"type:varchar(30);not null" json:"action"`
	ActorID     *uuid.UUID       `gorm:"type:uuid" json:"actor_id,omitempty"`
	BidID       *uuid.UUID       `gorm:"type:uuid" json:"bid_id,omitempty"`
	Amount      *decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount,omitempty"`
	OfferStatus string           `gorm:"type:varchar(30);check:offer_status IN ('ACTIVE', 'CLOSED', 'CANCELLED_BY_SELLER', 'CANCELLED_BY_ADMIN');not null" json:"offer_status"`
	OccurredAt  time.Time        `gorm:"index;not null" json:"occurred_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (OfferLogEntry) TableName() string {
	return "marketplace_offer_log"
}
