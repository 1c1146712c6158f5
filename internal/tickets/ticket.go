package tickets

import (
	"sync"
	"time"

	"boletamaster/internal/events"
	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket is an individual admission. Its pricing is frozen when issued.
type Ticket struct {
	mu sync.Mutex

	id            uuid.UUID
	price         decimal.Decimal
	serviceCharge decimal.Decimal
	issuanceFee   decimal.Decimal
	serviceRate   decimal.Decimal
	ownerID       uuid.UUID
	eventID       uuid.UUID
	organizerID   uuid.UUID
	sectionID     uuid.UUID
	seat          int
	bundleID      uuid.UUID
	transferable  bool
	used          bool
	refunded      bool
	printed       bool
	issuedAt      time.Time
}

func NewTicket(price decimal.Decimal, event *events.Event, section *inventory.Section, owner uuid.UUID, seat int) (*Ticket, error) {
	const op = "tickets.NewTicket"
	if event == nil || section == nil {
		return nil, apperr.InvalidArgument(op, "event and section are required")
	}
	if price.IsNegative() {
		return nil, apperr.InvalidArgument(op, "price cannot be negative")
	}
	if seat != Unnumbered && seat < 1 {
		return nil, apperr.InvalidArgument(op, "invalid seat %d", seat)
	}

	rate := event.ServiceFeeRate()
	return &Ticket{
		id:            uuid.New(),
		price:         price,
		serviceCharge: price.Mul(decimal.NewFromInt(1).Add(rate)),
		issuanceFee:   event.IssuanceFee(),
		serviceRate:   rate,
		ownerID:       owner,
		eventID:       event.ID(),
		organizerID:   event.OrganizerID(),
		sectionID:     section.ID(),
		seat:          seat,
		transferable:  true,
		issuedAt:      time.Now().UTC(),
	}, nil
}

func (t *Ticket) ID() uuid.UUID          { return t.id }
func (t *Ticket) Kind() Kind             { return KindIndividual }
func (t *Ticket) EventID() uuid.UUID     { return t.eventID }
func (t *Ticket) OrganizerID() uuid.UUID { return t.organizerID }
func (t *Ticket) SectionID() uuid.UUID   { return t.sectionID }
func (t *Ticket) Seat() int              { return t.seat }

// ServiceRate is the event fee rate in force when the ticket was issued.
func (t *Ticket) ServiceRate() decimal.Decimal { return t.serviceRate }

func (t *Ticket) OwnerID() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ownerID
}

func (t *Ticket) Price() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.price
}

func (t *Ticket) ServiceCharge() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.serviceCharge
}

func (t *Ticket) IssuanceFee() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.issuanceFee
}

func (t *Ticket) TotalCost() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.price.Add(t.serviceCharge).Add(t.issuanceFee)
}

func (t *Ticket) Transferable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transferable
}

func (t *Ticket) IsUsed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

func (t *Ticket) IsRefunded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refunded
}

func (t *Ticket) IsPrinted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.printed
}

// InBundle reports whether the ticket currently belongs to a bundle.
func (t *Ticket) InBundle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bundleID != uuid.Nil
}

func (t *Ticket) Use() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used || t.refunded {
		return apperr.InvalidState("tickets.Use", "ticket %s is already %s", t.id, t.stateLocked())
	}
	t.used = true
	return nil
}

func (t *Ticket) Refund() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refundLocked()
}

// RefundFor refunds the ticket only while owner still holds it.
func (t *Ticket) RefundFor(owner uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ownerID != owner {
		return apperr.InvalidState("tickets.Refund", "ticket %s is no longer owned by %s", t.id, owner)
	}
	return t.refundLocked()
}

func (t *Ticket) refundLocked() error {
	if t.used || t.refunded {
		return apperr.InvalidState("tickets.Refund", "ticket %s is already %s", t.id, t.stateLocked())
	}
	t.refunded = true
	return nil
}

// forceRefund marks the ticket refunded without looking at its prior state.
func (t *Ticket) forceRefund() {
	t.mu.Lock()
	t.refunded = true
	t.mu.Unlock()
}

func (t *Ticket) RegisterPrint() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.printed {
		return apperr.InvalidState("tickets.RegisterPrint", "ticket %s was already printed", t.id)
	}
	t.printed = true
	return nil
}

// Transfer hands the ticket to dest. An unauthorized transfer is refused without error.
func (t *Ticket) Transfer(dest uuid.UUID, authorized bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.transferable {
		return false, apperr.InvalidArgument("tickets.Transfer", "ticket %s is not transferable", t.id)
	}
	if dest == uuid.Nil {
		return false, apperr.InvalidArgument("tickets.Transfer", "destination client is required")
	}
	if !authorized {
		return false, nil
	}
	t.ownerID = dest
	return true, nil
}

// Reassign moves ownership unconditionally. Used by marketplace settlement.
func (t *Ticket) Reassign(dest uuid.UUID) {
	t.mu.Lock()
	t.ownerID = dest
	t.mu.Unlock()
}

func (t *Ticket) SetPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return apperr.InvalidArgument("tickets.SetPrice", "price cannot be negative")
	}
	t.mu.Lock()
	t.price = p
	t.mu.Unlock()
	return nil
}

func (t *Ticket) SetServiceCharge(v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.InvalidArgument("tickets.SetServiceCharge", "service charge cannot be negative")
	}
	t.mu.Lock()
	t.serviceCharge = v
	t.mu.Unlock()
	return nil
}

func (t *Ticket) SetIssuanceFee(v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.InvalidArgument("tickets.SetIssuanceFee", "issuance fee cannot be negative")
	}
	t.mu.Lock()
	t.issuanceFee = v
	t.mu.Unlock()
	return nil
}

func (t *Ticket) SetTransferable(v bool) {
	t.mu.Lock()
	t.transferable = v
	t.mu.Unlock()
}

func (t *Ticket) setBundle(id uuid.UUID) {
	t.mu.Lock()
	t.bundleID = id
	t.mu.Unlock()
}

func (t *Ticket) stateLocked() string {
	if t.used {
		return "used"
	}
	return "refunded"
}

func (t *Ticket) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		ID:            t.id,
		Kind:          KindIndividual,
		OwnerID:       t.ownerID,
		EventID:       t.eventID,
		SectionID:     t.sectionID,
		Seat:          t.seat,
		Price:         t.price,
		ServiceCharge: t.serviceCharge,
		IssuanceFee:   t.issuanceFee,
		TotalCost:     t.price.Add(t.serviceCharge).Add(t.issuanceFee),
		Transferable:  t.transferable,
		Used:          t.used,
		Refunded:      t.refunded,
		Printed:       t.printed,
	}
}
