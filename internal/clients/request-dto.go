package clients

import (
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
)

// CheckoutRequest is one cart. Individual and Multiple lines use the first item only;
// SeasonPass and Deluxe lines take one item per event.
type CheckoutRequest struct {
	Lines      []CheckoutLine `json:"lines" binding:"required,min=1,dive"`
	UseBalance bool           `json:"use_balance"`
}

type CheckoutLine struct {
	Kind     tickets.Kind `json:"kind" binding:"required,oneof=INDIVIDUAL MULTIPLE SEASON_PASS DELUXE"`
	Items    []LineItem   `json:"items" binding:"required,min=1,dive"`
	Quantity int          `json:"quantity" binding:"omitempty,min=1"`
	Benefits string       `json:"benefits"`
}

type LineItem struct {
	EventID   uuid.UUID `json:"event_id" binding:"required"`
	SectionID uuid.UUID `json:"section_id" binding:"required"`
	Seats     []int     `json:"seats"`
}

// Seat is the first requested seat, or general admission when none is given.
func (i LineItem) Seat() int {
	if len(i.Seats) == 0 {
		return tickets.Unnumbered
	}
	return i.Seats[0]
}

type TransferRequest struct {
	DestinationID uuid.UUID   `json:"destination_id" binding:"required"`
	Authorized    bool        `json:"authorized"`
	TicketIDs     []uuid.UUID `json:"ticket_ids"`
}
