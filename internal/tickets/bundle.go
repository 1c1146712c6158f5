package tickets

import (
	"strings"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// bundleBase carries the pricing, ownership and ticket list shared by every bundle variant.
type bundleBase struct {
	mu sync.Mutex

	id            uuid.UUID
	price         decimal.Decimal
	serviceCharge decimal.Decimal
	issuanceFee   decimal.Decimal
	ownerID       uuid.UUID
	tickets       []*Ticket
	status        BundleStatus
	transferable  bool
	neverTransfer bool
}

func newBundleBase(op string, price decimal.Decimal, owner uuid.UUID, tickets []*Ticket, globalFee decimal.Decimal) (*bundleBase, error) {
	if price.IsNegative() || globalFee.IsNegative() {
		return nil, apperr.InvalidArgument(op, "price and issuance fee cannot be negative")
	}
	if owner == uuid.Nil {
		return nil, apperr.InvalidArgument(op, "owner is required")
	}

	seen := make(map[uuid.UUID]bool, len(tickets))
	for _, t := range tickets {
		if t == nil {
			return nil, apperr.InvalidArgument(op, "bundle cannot contain a nil ticket")
		}
		if t.OwnerID() != owner {
			return nil, apperr.InvalidArgument(op, "ticket %s is not owned by the bundle owner", t.ID())
		}
		if seen[t.ID()] {
			return nil, apperr.InvalidArgument(op, "ticket %s appears twice", t.ID())
		}
		seen[t.ID()] = true
	}

	serviceCharge := price
	if len(tickets) > 0 {
		serviceCharge = price.Mul(one.Add(tickets[0].ServiceRate()))
	}

	b := &bundleBase{
		id:            uuid.New(),
		price:         price,
		serviceCharge: serviceCharge,
		issuanceFee:   globalFee.Mul(decimal.NewFromInt(int64(len(tickets)))),
		ownerID:       owner,
		tickets:       append([]*Ticket(nil), tickets...),
		status:        BundleActive,
		transferable:  true,
	}
	for _, t := range b.tickets {
		t.setBundle(b.id)
	}
	return b, nil
}

func (b *bundleBase) ID() uuid.UUID { return b.id }

func (b *bundleBase) OwnerID() uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ownerID
}

func (b *bundleBase) Price() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.price
}

func (b *bundleBase) ServiceCharge() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.serviceCharge
}

func (b *bundleBase) IssuanceFee() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issuanceFee
}

func (b *bundleBase) TotalCost() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalLocked()
}

func (b *bundleBase) totalLocked() decimal.Decimal {
	return b.price.Add(b.serviceCharge).Add(b.issuanceFee)
}

func (b *bundleBase) Transferable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transferableLocked()
}

func (b *bundleBase) transferableLocked() bool {
	return b.transferable && !b.neverTransfer
}

// SetTransferable has no effect on bundles that can never change hands.
func (b *bundleBase) SetTransferable(v bool) {
	b.mu.Lock()
	b.transferable = v
	b.mu.Unlock()
}

func (b *bundleBase) Status() BundleStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *bundleBase) Tickets() []*Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Ticket, len(b.tickets))
	copy(out, b.tickets)
	return out
}

func (b *bundleBase) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tickets)
}

func (b *bundleBase) Add(t *Ticket) error {
	const op = "tickets.Bundle.Add"
	if t == nil {
		return apperr.InvalidArgument(op, "ticket is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if t.OwnerID() != b.ownerID {
		return apperr.InvalidArgument(op, "ticket %s is not owned by the bundle owner", t.ID())
	}
	if b.indexLocked(t.ID()) >= 0 {
		return apperr.InvalidArgument(op, "ticket %s is already in the bundle", t.ID())
	}
	b.tickets = append(b.tickets, t)
	t.setBundle(b.id)
	return nil
}

func (b *bundleBase) Remove(ticketID uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(ticketID)
	if i < 0 {
		return false
	}
	b.tickets[i].setBundle(uuid.Nil)
	b.tickets = append(b.tickets[:i], b.tickets[i+1:]...)
	return true
}

func (b *bundleBase) indexLocked(id uuid.UUID) int {
	for i, t := range b.tickets {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

func (b *bundleBase) AverageValue() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.tickets) == 0 {
		return decimal.Zero
	}
	return b.totalLocked().Div(decimal.NewFromInt(int64(len(b.tickets))))
}

// RefundAll is the administrator override: every contained ticket is refunded regardless of its state.
func (b *bundleBase) RefundAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refundAllLocked()
}

// RefundAllFor is RefundAll guarded by ownership: it fails while owner no longer holds the bundle.
func (b *bundleBase) RefundAllFor(owner uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownerID != owner {
		return apperr.InvalidState("tickets.Bundle.RefundAll", "bundle %s is no longer owned by %s", b.id, owner)
	}
	return b.refundAllLocked()
}

func (b *bundleBase) refundAllLocked() error {
	if b.status == BundleRefunded {
		return apperr.InvalidState("tickets.Bundle.RefundAll", "bundle %s was already refunded", b.id)
	}
	for _, t := range b.tickets {
		t.forceRefund()
	}
	b.status = BundleRefunded
	return nil
}

// Transfer moves the bundle and every contained ticket to dest.
func (b *bundleBase) Transfer(dest uuid.UUID, authorized bool) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkTransferLocked(dest); err != nil {
		return false, err
	}
	if !authorized {
		return false, nil
	}
	b.ownerID = dest
	for _, t := range b.tickets {
		t.Reassign(dest)
	}
	return true, nil
}

// TransferPart detaches the listed tickets and hands them to dest. Nothing moves unless every id is in the bundle.
func (b *bundleBase) TransferPart(ticketIDs []uuid.UUID, dest uuid.UUID, authorized bool) ([]*Ticket, error) {
	const op = "tickets.Bundle.TransferPart"
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkTransferLocked(dest); err != nil {
		return nil, err
	}
	if len(ticketIDs) == 0 {
		return nil, apperr.InvalidArgument(op, "at least one ticket is required")
	}

	wanted := make(map[uuid.UUID]bool, len(ticketIDs))
	for _, id := range ticketIDs {
		if b.indexLocked(id) < 0 {
			return nil, apperr.InvalidArgument(op, "ticket %s is not part of bundle %s", id, b.id)
		}
		wanted[id] = true
	}
	if !authorized {
		return nil, nil
	}

	moved := make([]*Ticket, 0, len(wanted))
	kept := b.tickets[:0]
	for _, t := range b.tickets {
		if !wanted[t.ID()] {
			kept = append(kept, t)
			continue
		}
		t.setBundle(uuid.Nil)
		t.Reassign(dest)
		moved = append(moved, t)
	}
	b.tickets = kept
	return moved, nil
}

func (b *bundleBase) checkTransferLocked(dest uuid.UUID) error {
	if !b.transferableLocked() {
		return apperr.InvalidArgument("tickets.Bundle.Transfer", "bundle %s is not transferable", b.id)
	}
	if dest == uuid.Nil {
		return apperr.InvalidArgument("tickets.Bundle.Transfer", "destination client is required")
	}
	return nil
}

func (b *bundleBase) snapshot(kind Kind) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	inner := make([]Snapshot, 0, len(b.tickets))
	for _, t := range b.tickets {
		inner = append(inner, t.Snapshot())
	}
	return Snapshot{
		ID:            b.id,
		Kind:          kind,
		OwnerID:       b.ownerID,
		Price:         b.price,
		ServiceCharge: b.serviceCharge,
		IssuanceFee:   b.issuanceFee,
		TotalCost:     b.totalLocked(),
		Transferable:  b.transferableLocked(),
		Status:        b.status,
		Tickets:       inner,
	}
}

// Multiple is a batch of tickets in one section.
type Multiple struct {
	*bundleBase
	quantity int
}

func NewMultiple(price decimal.Decimal, owner uuid.UUID, tickets []*Ticket, globalFee decimal.Decimal) (*Multiple, error) {
	base, err := newBundleBase("tickets.NewMultiple", price, owner, tickets, globalFee)
	if err != nil {
		return nil, err
	}
	return &Multiple{bundleBase: base, quantity: len(tickets)}, nil
}

func (m *Multiple) Kind() Kind    { return KindMultiple }
func (m *Multiple) Quantity() int { return m.quantity }

func (m *Multiple) Snapshot() Snapshot {
	s := m.snapshot(KindMultiple)
	s.Quantity = m.quantity
	return s
}

// SeasonPass covers one ticket per event in a series.
type SeasonPass struct {
	*bundleBase
	validEvents []uuid.UUID
}

func NewSeasonPass(price decimal.Decimal, owner uuid.UUID, tickets []*Ticket, globalFee decimal.Decimal, validEvents []uuid.UUID) (*SeasonPass, error) {
	base, err := newBundleBase("tickets.NewSeasonPass", price, owner, tickets, globalFee)
	if err != nil {
		return nil, err
	}
	return &SeasonPass{bundleBase: base, validEvents: append([]uuid.UUID(nil), validEvents...)}, nil
}

func (p *SeasonPass) Kind() Kind { return KindSeasonPass }

func (p *SeasonPass) ValidEventIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), p.validEvents...)
}

func (p *SeasonPass) Snapshot() Snapshot {
	s := p.snapshot(KindSeasonPass)
	s.ValidEventIDs = p.ValidEventIDs()
	return s
}

// Deluxe is a season pass with extra benefits. It can never be transferred.
type Deluxe struct {
	*bundleBase
	validEvents []uuid.UUID
	benefits    string
}

func NewDeluxe(price decimal.Decimal, owner uuid.UUID, tickets []*Ticket, globalFee decimal.Decimal, validEvents []uuid.UUID, benefits string) (*Deluxe, error) {
	const op = "tickets.NewDeluxe"
	if strings.TrimSpace(benefits) == "" {
		return nil, apperr.InvalidArgument(op, "deluxe benefits are required")
	}
	base, err := newBundleBase(op, price, owner, tickets, globalFee)
	if err != nil {
		return nil, err
	}
	base.neverTransfer = true
	return &Deluxe{
		bundleBase:  base,
		validEvents: append([]uuid.UUID(nil), validEvents...),
		benefits:    strings.TrimSpace(benefits),
	}, nil
}

func (d *Deluxe) Kind() Kind       { return KindDeluxe }
func (d *Deluxe) Benefits() string { return d.benefits }

func (d *Deluxe) ValidEventIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), d.validEvents...)
}

func (d *Deluxe) Snapshot() Snapshot {
	s := d.snapshot(KindDeluxe)
	s.ValidEventIDs = d.ValidEventIDs()
	s.Benefits = d.benefits
	return s
}

var (
	_ Item   = (*Ticket)(nil)
	_ Bundle = (*Multiple)(nil)
	_ Bundle = (*SeasonPass)(nil)
	_ Bundle = (*Deluxe)(nil)
)
