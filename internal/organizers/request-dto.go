package organizers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateEventRequest struct {
	Name    string    `json:"name" binding:"required,min=2,max=200"`
	Type    string    `json:"type" binding:"required"`
	Date    time.Time `json:"date" binding:"required"`
	VenueID uuid.UUID `json:"venue_id" binding:"required"`
}

type CancelEventRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ModifyPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"gte=0"`
}

type CreateDiscountRequest struct {
	SectionID uuid.UUID       `json:"section_id" binding:"required"`
	Percent   decimal.Decimal `json:"percent" binding:"gte=0,lte=100"`
	StartsAt  time.Time       `json:"starts_at" binding:"required"`
	EndsAt    time.Time       `json:"ends_at" binding:"required"`
}

type CourtesyRequest struct {
	ClientID  uuid.UUID `json:"client_id" binding:"required"`
	SectionID uuid.UUID `json:"section_id" binding:"required"`
	Seat      *int      `json:"seat" binding:"omitempty,min=1"`
}
