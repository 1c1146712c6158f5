package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateOfferRequest struct {
	TicketIDs []uuid.UUID     `json:"ticket_ids" binding:"required,min=1,dive,required"`
	BasePrice decimal.Decimal `json:"base_price" binding:"gte=0"`
	CloseAt   *time.Time      `json:"close_at"`
}

type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}
