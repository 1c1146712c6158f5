package tickets

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIndividual Kind = "INDIVIDUAL"
	KindMultiple   Kind = "MULTIPLE"
	KindSeasonPass Kind = "SEASON_PASS"
	KindDeluxe     Kind = "DELUXE"
)

func (k Kind) IsBundle() bool {
	return k == KindMultiple || k == KindSeasonPass || k == KindDeluxe
}

// Unnumbered is the seat sentinel for general-admission tickets.
const Unnumbered = -1

// Item is anything a client can buy, own and transfer.
type Item interface {
	ID() uuid.UUID
	Kind() Kind
	OwnerID() uuid.UUID
	Price() decimal.Decimal
	ServiceCharge() decimal.Decimal
	IssuanceFee() decimal.Decimal
	TotalCost() decimal.Decimal
	Transferable() bool
	Transfer(dest uuid.UUID, authorized bool) (bool, error)
	Snapshot() Snapshot
}

// Bundle groups tickets sold as one product.
type Bundle interface {
	Item
	Tickets() []*Ticket
	Count() int
	Status() BundleStatus
	Add(t *Ticket) error
	Remove(ticketID uuid.UUID) bool
	AverageValue() decimal.Decimal
	RefundAll() error
	RefundAllFor(owner uuid.UUID) error
	TransferPart(ticketIDs []uuid.UUID, dest uuid.UUID, authorized bool) ([]*Ticket, error)
	SetTransferable(v bool)
}

type BundleStatus string

const (
	BundleActive   BundleStatus = "ACTIVE"
	BundleRefunded BundleStatus = "REFUNDED"
)

// Snapshot is the read-only view of a ticket or bundle handed to rendering and persistence.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	Kind          Kind            `json:"kind"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	EventID       uuid.UUID       `json:"event_id,omitempty"`
	SectionID     uuid.UUID       `json:"section_id,omitempty"`
	Seat          int             `json:"seat,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	IssuanceFee   decimal.Decimal `json:"issuance_fee"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Transferable  bool            `json:"transferable"`
	Used          bool            `json:"used,omitempty"`
	Refunded      bool            `json:"refunded,omitempty"`
	Printed       bool            `json:"printed,omitempty"`
	Status        BundleStatus    `json:"status,omitempty"`
	Quantity      int             `json:"quantity,omitempty"`
	ValidEventIDs []uuid.UUID     `json:"valid_event_ids,omitempty"`
	Benefits      string          `json:"benefits,omitempty"`
	Tickets       []Snapshot      `json:"tickets,omitempty"`
}
