package marketplace

import (
	"sync"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferActive            OfferStatus = "ACTIVE"
	OfferClosed            OfferStatus = "CLOSED"
	OfferCancelledBySeller OfferStatus = "CANCELLED_BY_SELLER"
	OfferCancelledByAdmin  OfferStatus = "CANCELLED_BY_ADMIN"
)

type BidStatus string

const (
	BidPending   BidStatus = "PENDING"
	BidAccepted  BidStatus = "ACCEPTED"
	BidCancelled BidStatus = "CANCELLED"
)

// Offer lists tickets for resale. All mutable state, bids included, is guarded by mu.
type Offer struct {
	mu sync.Mutex

	id          uuid.UUID
	seq         int
	seller      *clients.Client
	tickets     []*tickets.Ticket
	basePrice   decimal.Decimal
	status      OfferStatus
	publishedAt time.Time
	closeAt     *time.Time

	// most recent first
	bids []*Bid
}

// Bid is a buyer's escrowed amount against one offer. Its status is guarded by the offer's lock.
type Bid struct {
	id        uuid.UUID
	offer     *Offer
	buyer     *clients.Client
	amount    decimal.Decimal
	placedAt  time.Time
	status    BidStatus
	decidedAt *time.Time
}

func (o *Offer) ID() uuid.UUID              { return o.id }
func (o *Offer) Seller() *clients.Client    { return o.seller }
func (o *Offer) BasePrice() decimal.Decimal { return o.basePrice }
func (o *Offer) PublishedAt() time.Time     { return o.publishedAt }

func (o *Offer) Status() OfferStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Offer) Tickets() []*tickets.Ticket {
	return append([]*tickets.Ticket(nil), o.tickets...)
}

// Bids returns the offer's bids, most recent first.
func (o *Offer) Bids() []*Bid {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Bid(nil), o.bids...)
}

// Bid finds a bid still listed on the offer.
func (o *Offer) Bid(id uuid.UUID) (*Bid, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, b := range o.bids {
		if b.id == id {
			return b, true
		}
	}
	return nil, false
}

func (o *Offer) holds(ticketID uuid.UUID) bool {
	for _, t := range o.tickets {
		if t.ID() == ticketID {
			return true
		}
	}
	return false
}

func (o *Offer) removeBidLocked(id uuid.UUID) {
	for i, b := range o.bids {
		if b.id == id {
			o.bids = append(o.bids[:i], o.bids[i+1:]...)
			return
		}
	}
}

func (b *Bid) ID() uuid.UUID           { return b.id }
func (b *Bid) OfferID() uuid.UUID      { return b.offer.id }
func (b *Bid) Buyer() *clients.Client  { return b.buyer }
func (b *Bid) Amount() decimal.Decimal { return b.amount }
func (b *Bid) PlacedAt() time.Time     { return b.placedAt }

func (b *Bid) Status() BidStatus {
	b.offer.mu.Lock()
	defer b.offer.mu.Unlock()
	return b.status
}

// OfferSnapshot is a point-in-time copy of an offer.
type OfferSnapshot struct {
	ID          uuid.UUID          `json:"id"`
	SellerID    uuid.UUID          `json:"seller_id"`
	SellerLogin string             `json:"seller_login"`
	Tickets     []tickets.Snapshot `json:"tickets"`
	BasePrice   decimal.Decimal    `json:"base_price"`
	Status      OfferStatus        `json:"status"`
	PublishedAt time.Time          `json:"published_at"`
	CloseAt     *time.Time         `json:"close_at,omitempty"`
	HighestBid  *decimal.Decimal   `json:"highest_bid,omitempty"`
	Bids        []BidSnapshot      `json:"bids"`
}

type BidSnapshot struct {
	ID        uuid.UUID       `json:"id"`
	OfferID   uuid.UUID       `json:"offer_id"`
	BuyerID   uuid.UUID       `json:"buyer_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    BidStatus       `json:"status"`
	PlacedAt  time.Time       `json:"placed_at"`
	DecidedAt *time.Time      `json:"decided_at,omitempty"`
}

func (o *Offer) Snapshot() OfferSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := OfferSnapshot{
		ID:          o.id,
		SellerID:    o.seller.ID(),
		SellerLogin: o.seller.Login(),
		Tickets:     make([]tickets.Snapshot, 0, len(o.tickets)),
		BasePrice:   o.basePrice,
		Status:      o.status,
		PublishedAt: o.publishedAt,
		Bids:        make([]BidSnapshot, 0, len(o.bids)),
	}
	if o.closeAt != nil {
		at := *o.closeAt
		snap.CloseAt = &at
	}
	for _, t := range o.tickets {
		snap.Tickets = append(snap.Tickets, t.Snapshot())
	}
	for _, b := range o.bids {
		snap.Bids = append(snap.Bids, b.snapshotLocked())
	}
	if len(o.bids) > 0 && o.bids[0].status == BidPending {
		top := o.bids[0].amount
		snap.HighestBid = &top
	}
	return snap
}

// snapshotLocked copies the bid. The caller holds the offer lock.
func (b *Bid) snapshotLocked() BidSnapshot {
	snap := BidSnapshot{
		ID:       b.id,
		OfferID:  b.offer.id,
		BuyerID:  b.buyer.ID(),
		Amount:   b.amount,
		Status:   b.status,
		PlacedAt: b.placedAt,
	}
	if b.decidedAt != nil {
		at := *b.decidedAt
		snap.DecidedAt = &at
	}
	return snap
}
