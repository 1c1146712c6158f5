package marketplace

import (
	"sort"
	"sync"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Marketplace holds the active offers and the append-only log of every offer ever published.
//
// Lock order: marketplace, then offer, then clients (through clients.Settle), then tickets.
// Operations on one offer never take the marketplace lock while holding the offer lock.
type Marketplace struct {
	mu    sync.RWMutex
	clock func() time.Time

	active map[uuid.UUID]*Offer
	log    []*Offer
	byID   map[uuid.UUID]*Offer
}

// New returns an empty marketplace. A nil clock uses time.Now.
func New(clock func() time.Time) *Marketplace {
	if clock == nil {
		clock = time.Now
	}
	return &Marketplace{
		clock:  clock,
		active: make(map[uuid.UUID]*Offer),
		byID:   make(map[uuid.UUID]*Offer),
	}
}

func (m *Marketplace) now() time.Time {
	return m.clock().UTC()
}

// CreateOffer publishes tickets owned by seller. A ticket may only sit in one active offer.
func (m *Marketplace) CreateOffer(seller *clients.Client, items []*tickets.Ticket, basePrice decimal.Decimal, closeAt *time.Time) (*Offer, error) {
	const op = "marketplace.CreateOffer"
	if seller == nil {
		return nil, apperr.InvalidArgument(op, "seller is required")
	}
	if len(items) == 0 {
		return nil, apperr.InvalidArgument(op, "an offer needs at least one ticket")
	}
	if basePrice.IsNegative() {
		return nil, apperr.InvalidArgument(op, "base price cannot be negative")
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for _, t := range items {
		if t == nil {
			return nil, apperr.InvalidArgument(op, "offer cannot contain a nil ticket")
		}
		if seen[t.ID()] {
			return nil, apperr.InvalidArgument(op, "ticket %s appears twice", t.ID())
		}
		seen[t.ID()] = true
		if t.OwnerID() != seller.ID() {
			return nil, apperr.InvalidArgument(op, "ticket %s is not owned by the seller", t.ID())
		}
		if !t.Transferable() {
			return nil, apperr.InvalidArgument(op, "ticket %s is not transferable", t.ID())
		}
		if t.InBundle() {
			return nil, apperr.InvalidArgument(op, "ticket %s belongs to a bundle", t.ID())
		}
		if t.IsUsed() || t.IsRefunded() {
			return nil, apperr.InvalidState(op, "ticket %s is no longer valid", t.ID())
		}
	}

	offer := &Offer{
		id:          uuid.New(),
		seller:      seller,
		tickets:     append([]*tickets.Ticket(nil), items...),
		basePrice:   basePrice,
		status:      OfferActive,
		publishedAt: m.now(),
	}
	if closeAt != nil {
		at := closeAt.UTC()
		offer.closeAt = &at
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.active {
		for _, t := range items {
			if other.holds(t.ID()) {
				return nil, apperr.InvalidState(op, "ticket %s is already listed in offer %s", t.ID(), other.id)
			}
		}
	}
	offer.seq = len(m.log)
	m.active[offer.id] = offer
	m.byID[offer.id] = offer
	m.log = append(m.log, offer)
	return offer, nil
}

// PlaceBid escrows amount from bidder's balance. Each bid must beat the current front bid.
func (m *Marketplace) PlaceBid(bidder *clients.Client, offer *Offer, amount decimal.Decimal) (*Bid, error) {
	const op = "marketplace.PlaceBid"
	if bidder == nil || offer == nil {
		return nil, apperr.InvalidArgument(op, "bidder and offer are required")
	}
	if !amount.IsPositive() {
		return nil, apperr.InvalidArgument(op, "bid amount must be positive")
	}
	if bidder.ID() == offer.seller.ID() {
		return nil, apperr.InvalidArgument(op, "sellers cannot bid on their own offer")
	}

	offer.mu.Lock()
	defer offer.mu.Unlock()

	if offer.status != OfferActive {
		return nil, apperr.InvalidState(op, "offer %s is %s", offer.id, offer.status)
	}
	if len(offer.bids) > 0 && amount.LessThanOrEqual(offer.bids[0].amount) {
		return nil, apperr.InvalidArgument(op, "bid must exceed the current bid of %s", offer.bids[0].amount.StringFixed(2))
	}
	if err := bidder.UseRefundBalance(amount); err != nil {
		return nil, err
	}

	bid := &Bid{
		id:       uuid.New(),
		offer:    offer,
		buyer:    bidder,
		amount:   amount,
		placedAt: m.now(),
		status:   BidPending,
	}
	offer.bids = append([]*Bid{bid}, offer.bids...)
	return bid, nil
}

// AcceptBid closes the offer in favour of bid: tickets move to the buyer and the seller is credited.
// Escrow of the other pending bids stays held until their owners cancel them.
func (m *Marketplace) AcceptBid(seller *clients.Client, bid *Bid, offer *Offer) error {
	const op = "marketplace.AcceptBid"
	if seller == nil || bid == nil || offer == nil {
		return apperr.InvalidArgument(op, "seller, bid and offer are required")
	}
	if seller.ID() != offer.seller.ID() {
		return apperr.InvalidArgument(op, "only the seller can accept bids")
	}
	if bid.offer != offer {
		return apperr.InvalidArgument(op, "bid %s does not belong to offer %s", bid.id, offer.id)
	}

	offer.mu.Lock()
	if offer.status != OfferActive {
		offer.mu.Unlock()
		return apperr.InvalidState(op, "offer %s is %s", offer.id, offer.status)
	}
	if bid.status != BidPending {
		offer.mu.Unlock()
		return apperr.InvalidState(op, "bid %s is %s", bid.id, bid.status)
	}

	err := clients.Settle(seller, bid.buyer, func(s, _ clients.Account) error {
		for _, t := range offer.tickets {
			if t.OwnerID() != seller.ID() {
				return apperr.InvalidState(op, "ticket %s no longer belongs to the seller", t.ID())
			}
			if t.IsUsed() || t.IsRefunded() {
				return apperr.InvalidState(op, "ticket %s is no longer valid", t.ID())
			}
		}
		if err := s.Credit(bid.amount); err != nil {
			return err
		}
		for _, t := range offer.tickets {
			t.Reassign(bid.buyer.ID())
		}
		return nil
	})
	if err != nil {
		offer.mu.Unlock()
		return err
	}

	at := m.now()
	bid.status = BidAccepted
	bid.decidedAt = &at
	offer.status = OfferClosed
	offer.mu.Unlock()

	m.deactivate(offer.id)
	return nil
}

// CancelBid withdraws a pending bid and returns its escrow to the buyer.
// It also works on offers that are no longer active, which is how losing bidders recover escrow.
func (m *Marketplace) CancelBid(buyer *clients.Client, bid *Bid, offer *Offer) error {
	const op = "marketplace.CancelBid"
	if buyer == nil || bid == nil || offer == nil {
		return apperr.InvalidArgument(op, "buyer, bid and offer are required")
	}
	if bid.buyer.ID() != buyer.ID() {
		return apperr.InvalidArgument(op, "only the bidder can cancel the bid")
	}
	if bid.offer != offer {
		return apperr.InvalidArgument(op, "bid %s does not belong to offer %s", bid.id, offer.id)
	}

	offer.mu.Lock()
	defer offer.mu.Unlock()
	if bid.status != BidPending {
		return apperr.InvalidState(op, "bid %s is %s", bid.id, bid.status)
	}
	if err := buyer.Credit(bid.amount); err != nil {
		return err
	}
	at := m.now()
	bid.status = BidCancelled
	bid.decidedAt = &at
	offer.removeBidLocked(bid.id)
	return nil
}

func (m *Marketplace) CancelOfferBySeller(seller *clients.Client, offer *Offer) error {
	const op = "marketplace.CancelOfferBySeller"
	if seller == nil || offer == nil {
		return apperr.InvalidArgument(op, "seller and offer are required")
	}
	if seller.ID() != offer.seller.ID() {
		return apperr.InvalidArgument(op, "only the seller can cancel the offer")
	}
	return m.cancel(op, offer, OfferCancelledBySeller)
}

func (m *Marketplace) CancelOfferByAdmin(offer *Offer) error {
	const op = "marketplace.CancelOfferByAdmin"
	if offer == nil {
		return apperr.InvalidArgument(op, "offer is required")
	}
	return m.cancel(op, offer, OfferCancelledByAdmin)
}

func (m *Marketplace) cancel(op string, offer *Offer, to OfferStatus) error {
	offer.mu.Lock()
	if offer.status != OfferActive {
		offer.mu.Unlock()
		return apperr.InvalidState(op, "offer %s is %s", offer.id, offer.status)
	}
	offer.status = to
	offer.mu.Unlock()

	m.deactivate(offer.id)
	return nil
}

func (m *Marketplace) deactivate(id uuid.UUID) {
	m.mu.Lock()
	delete(m.active, id)
	m.mu.Unlock()
}

// ActiveOffers lists open offers, oldest first.
func (m *Marketplace) ActiveOffers() []*Offer {
	m.mu.RLock()
	out := make([]*Offer, 0, len(m.active))
	for _, o := range m.active {
		out = append(out, o)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].seq < out[j].seq
	})
	return out
}

// Log lists every offer in publication order, whatever its status.
func (m *Marketplace) Log() []*Offer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Offer(nil), m.log...)
}

func (m *Marketplace) Offer(id uuid.UUID) (*Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offer, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("marketplace.Offer", "offer %s not found", id)
	}
	return offer, nil
}

// ActiveCount is the number of open offers.
func (m *Marketplace) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}
