package refunds

import (
	"sync"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ticketRequest struct {
	client      *clients.Client
	ticket      *tickets.Ticket
	requestedAt time.Time
}

type bundleRequest struct {
	client      *clients.Client
	bundle      tickets.Bundle
	requestedAt time.Time
}

// Desk holds at most one pending ticket request and one pending bundle request per client.
// A newer request replaces the older one.
type Desk struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]ticketRequest
	bundles map[uuid.UUID]bundleRequest
}

func NewDesk() *Desk {
	return &Desk{
		tickets: make(map[uuid.UUID]ticketRequest),
		bundles: make(map[uuid.UUID]bundleRequest),
	}
}

func (d *Desk) RequestTicketRefund(c *clients.Client, t *tickets.Ticket) error {
	const op = "refunds.RequestTicketRefund"
	if c == nil || t == nil {
		return apperr.InvalidArgument(op, "client and ticket are required")
	}
	if t.OwnerID() != c.ID() {
		return apperr.InvalidArgument(op, "ticket %s is not owned by client %s", t.ID(), c.ID())
	}
	if t.InBundle() {
		return apperr.InvalidArgument(op, "ticket %s belongs to a bundle; request the bundle refund instead", t.ID())
	}
	d.mu.Lock()
	d.tickets[c.ID()] = ticketRequest{client: c, ticket: t, requestedAt: time.Now().UTC()}
	d.mu.Unlock()
	return nil
}

func (d *Desk) RequestBundleRefund(c *clients.Client, b tickets.Bundle) error {
	const op = "refunds.RequestBundleRefund"
	if c == nil || b == nil {
		return apperr.InvalidArgument(op, "client and bundle are required")
	}
	if b.OwnerID() != c.ID() {
		return apperr.InvalidArgument(op, "bundle %s is not owned by client %s", b.ID(), c.ID())
	}
	d.mu.Lock()
	d.bundles[c.ID()] = bundleRequest{client: c, bundle: b, requestedAt: time.Now().UTC()}
	d.mu.Unlock()
	return nil
}

// ApproveTicket refunds the pending ticket and credits its total cost. A request whose ticket changed hands
// since it was filed is dropped; any other failure leaves it pending.
func (d *Desk) ApproveTicket(c *clients.Client) (*tickets.Ticket, decimal.Decimal, error) {
	const op = "refunds.ApproveTicket"
	if c == nil {
		return nil, decimal.Zero, apperr.InvalidArgument(op, "client is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.tickets[c.ID()]
	if !ok {
		return nil, decimal.Zero, apperr.InvalidArgument(op, "client %s has no pending ticket refund", c.ID())
	}
	if req.ticket.OwnerID() != c.ID() || req.ticket.InBundle() {
		delete(d.tickets, c.ID())
		return nil, decimal.Zero, apperr.InvalidState(op, "ticket %s changed hands after the refund request", req.ticket.ID())
	}
	if err := req.ticket.RefundFor(c.ID()); err != nil {
		return nil, decimal.Zero, err
	}
	amount := req.ticket.TotalCost()
	if err := c.Credit(amount); err != nil {
		return nil, decimal.Zero, err
	}
	delete(d.tickets, c.ID())
	return req.ticket, amount, nil
}

// ApproveBundle refunds every ticket of the pending bundle and credits the sum of their total costs.
// Like ApproveTicket it drops the request when the bundle changed hands.
func (d *Desk) ApproveBundle(c *clients.Client) (tickets.Bundle, decimal.Decimal, error) {
	const op = "refunds.ApproveBundle"
	if c == nil {
		return nil, decimal.Zero, apperr.InvalidArgument(op, "client is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.bundles[c.ID()]
	if !ok {
		return nil, decimal.Zero, apperr.InvalidArgument(op, "client %s has no pending bundle refund", c.ID())
	}
	if req.bundle.OwnerID() != c.ID() {
		delete(d.bundles, c.ID())
		return nil, decimal.Zero, apperr.InvalidState(op, "bundle %s changed hands after the refund request", req.bundle.ID())
	}
	if err := req.bundle.RefundAllFor(c.ID()); err != nil {
		return nil, decimal.Zero, err
	}
	amount := decimal.Zero
	for _, t := range req.bundle.Tickets() {
		amount = amount.Add(t.TotalCost())
	}
	if err := c.Credit(amount); err != nil {
		return nil, decimal.Zero, err
	}
	delete(d.bundles, c.ID())
	return req.bundle, amount, nil
}

// RejectTicket drops the pending ticket request. It reports whether one existed.
func (d *Desk) RejectTicket(c *clients.Client) (*tickets.Ticket, bool) {
	if c == nil {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.tickets[c.ID()]
	delete(d.tickets, c.ID())
	return req.ticket, ok
}

func (d *Desk) RejectBundle(c *clients.Client) (tickets.Bundle, bool) {
	if c == nil {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.bundles[c.ID()]
	delete(d.bundles, c.ID())
	return req.bundle, ok
}

func (d *Desk) PendingTicket(clientID uuid.UUID) (*tickets.Ticket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.tickets[clientID]
	return req.ticket, ok
}

func (d *Desk) PendingBundle(clientID uuid.UUID) (tickets.Bundle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.bundles[clientID]
	return req.bundle, ok
}

// Pending is one open request as seen by the administrator.
type Pending struct {
	ClientID    uuid.UUID        `json:"client_id"`
	ClientLogin string           `json:"client_login"`
	Item        tickets.Snapshot `json:"item"`
	Amount      decimal.Decimal  `json:"amount"`
	RequestedAt time.Time        `json:"requested_at"`
}

func (d *Desk) PendingTickets() []Pending {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Pending, 0, len(d.tickets))
	for id, req := range d.tickets {
		out = append(out, Pending{
			ClientID:    id,
			ClientLogin: req.client.Login(),
			Item:        req.ticket.Snapshot(),
			Amount:      req.ticket.TotalCost(),
			RequestedAt: req.requestedAt,
		})
	}
	return out
}

func (d *Desk) PendingBundles() []Pending {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Pending, 0, len(d.bundles))
	for id, req := range d.bundles {
		amount := decimal.Zero
		for _, t := range req.bundle.Tickets() {
			amount = amount.Add(t.TotalCost())
		}
		out = append(out, Pending{
			ClientID:    id,
			ClientLogin: req.client.Login(),
			Item:        req.bundle.Snapshot(),
			Amount:      amount,
			RequestedAt: req.requestedAt,
		})
	}
	return out
}

var _ clients.RefundRegistrar = (*Desk)(nil)
