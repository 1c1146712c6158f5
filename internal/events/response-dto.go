package events

import (
	"time"

	"boletamaster/internal/inventory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Date           time.Time       `json:"date"`
	OrganizerID    uuid.UUID       `json:"organizer_id"`
	VenueID        uuid.UUID       `json:"venue_id"`
	Status         Status          `json:"status"`
	ServiceFeeRate decimal.Decimal `json:"service_fee_rate"`
	IssuanceFee    decimal.Decimal `json:"issuance_fee"`
	TotalCapacity  int             `json:"total_capacity"`
	TicketsSold    int             `json:"tickets_sold"`
	CreatedAt      time.Time       `json:"created_at"`
}

type AvailabilityResponse struct {
	EventID   uuid.UUID            `json:"event_id"`
	Status    Status               `json:"status"`
	Sections  []inventory.Snapshot `json:"sections"`
	Discounts []Discount           `json:"active_discounts"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:             e.id,
		Name:           e.name,
		Type:           e.eventType,
		Date:           e.date,
		OrganizerID:    e.organizerID,
		VenueID:        e.VenueID(),
		Status:         e.Status(),
		ServiceFeeRate: e.ServiceFeeRate(),
		IssuanceFee:    e.IssuanceFee(),
		TotalCapacity:  e.TotalCapacity(),
		TicketsSold:    e.TicketsSold(),
		CreatedAt:      e.createdAt,
	}
}

// Availability snapshots every section and the discounts active at now.
func (e *Event) Availability(now time.Time) AvailabilityResponse {
	sections := e.Sections()
	snaps := make([]inventory.Snapshot, 0, len(sections))
	for _, s := range sections {
		snaps = append(snaps, s.Snapshot())
	}
	return AvailabilityResponse{
		EventID:   e.id,
		Status:    e.Status(),
		Sections:  snaps,
		Discounts: e.ActiveDiscounts(now),
	}
}
