package clients

import (
	"context"
	"log/slog"

	"boletamaster/internal/events"
	"boletamaster/internal/inventory"
	"boletamaster/internal/journal"
	"boletamaster/internal/purchases"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/tickets"
	"boletamaster/pkg/cache"
	"boletamaster/pkg/logger"
	"boletamaster/pkg/metrics"

	"github.com/google/uuid"
)

type Service interface {
	Register(ctx context.Context, id uuid.UUID, name, login string) (*Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	Checkout(ctx context.Context, clientID uuid.UUID, req CheckoutRequest) (*purchases.Summary, error)
	Wallet(ctx context.Context, clientID uuid.UUID) (*WalletResponse, error)
	PurchaseHistory(ctx context.Context, clientID uuid.UUID) ([]purchases.Summary, error)
	TransferTicket(ctx context.Context, clientID, ticketID uuid.UUID, req TransferRequest) (*TransferResponse, error)
	TransferBundle(ctx context.Context, clientID, bundleID uuid.UUID, req TransferRequest) (*TransferResponse, error)
	PrintTicket(ctx context.Context, clientID, ticketID uuid.UUID) (*tickets.Snapshot, error)
}

// Deps wires the collaborators of the client service.
type Deps struct {
	Repo      Repository
	Events    events.Service
	Tickets   tickets.Repository
	Receipts  purchases.Repository
	Ledger    *purchases.Ledger
	Gateway   purchases.Gateway
	Publisher journal.Publisher
	Cache     cache.Service
}

type service struct {
	Deps
}

func NewService(deps Deps) Service {
	if deps.Publisher == nil {
		deps.Publisher = journal.NoopPublisher{}
	}
	if deps.Receipts == nil {
		deps.Receipts = purchases.NewRepository(nil)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewService(nil)
	}
	return &service{Deps: deps}
}

func (s *service) Register(ctx context.Context, id uuid.UUID, name, login string) (*Client, error) {
	client, err := NewClient(id, name, login)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, client); err != nil {
		return nil, err
	}
	logger.GetDefault().InfoContext(ctx, "Client Registered", slog.String("client_id", id.String()))
	return client, nil
}

func (s *service) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.Repo.GetByID(ctx, id)
}

// reservation is one place held for a ticket during checkout.
type reservation struct {
	section *inventory.Section
	seat    int
}

// Checkout precomputes every line, reserves every place, then pays. Any failure
// after the first reservation releases all places taken so far.
func (s *service) Checkout(ctx context.Context, clientID uuid.UUID, req CheckoutRequest) (*purchases.Summary, error) {
	client, err := s.Repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var (
		singles []*tickets.Ticket
		bundles []tickets.Bundle
		places  []reservation
		touched = make(map[uuid.UUID]bool)
	)
	for _, line := range req.Lines {
		evs, sections, err := s.resolve(ctx, line.Items)
		if err != nil {
			return nil, err
		}
		t, b, err := s.precompute(client, line, evs, sections)
		if err != nil {
			return nil, err
		}
		members := []*tickets.Ticket{t}
		if b != nil {
			members = b.Tickets()
			bundles = append(bundles, b)
		} else {
			singles = append(singles, t)
		}
		for _, m := range members {
			places = append(places, reservation{section: sectionOf(sections, m.SectionID()), seat: m.Seat()})
			touched[m.EventID()] = true
		}
	}

	held, err := reserveAll(places)
	if err != nil {
		return nil, err
	}

	p, transactionID, err := client.MakePurchase(ctx, singles, bundles, req.UseBalance, s.Gateway, s.Ledger)
	if err != nil {
		releaseAll(ctx, held)
		return nil, err
	}

	for _, t := range singles {
		if err := s.Tickets.SaveTicket(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, b := range bundles {
		if err := s.Tickets.SaveBundle(ctx, b); err != nil {
			return nil, err
		}
	}

	s.afterPurchase(ctx, p, transactionID, touched)
	summary := p.Summary()
	return &summary, nil
}

func (s *service) afterPurchase(ctx context.Context, p *purchases.Purchase, transactionID string, touched map[uuid.UUID]bool) {
	if err := s.Receipts.SaveReceipt(ctx, purchases.NewReceipt(p, transactionID)); err != nil {
		logger.GetDefault().ErrorContext(ctx, "Failed to persist receipt",
			slog.String("reference", p.Reference()),
			slog.String("error", err.Error()),
		)
	}

	ids := make([]uuid.UUID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
		metrics.TrackSeatsReserved(id.String(), countFor(p, id))
	}
	s.Events.InvalidateAvailability(ctx, ids...)
	s.dropCached(ctx, constants.CACHE_PATTERN_ADMIN_REPORTS)

	metrics.TrackPurchase(string(p.Method()), p.Value())
	logger.GetDefault().LogPurchaseCompleted(ctx, p.Reference(), p.ClientID().String(), p.Value().StringFixed(2), string(p.Method()))
	journal.Emit(ctx, s.Publisher, journal.NewEvent(journal.EventPurchaseCompleted, p.Reference()).
		WithActor(p.ClientID()).
		With("purchase_id", p.ID()).
		With("value", p.Value().StringFixed(2)).
		With("method", string(p.Method())).
		With("tickets", len(p.Tickets())).
		With("bundles", len(p.Bundles())))
}

func countFor(p *purchases.Purchase, eventID uuid.UUID) int {
	n := 0
	for _, t := range p.Tickets() {
		if t.EventID() == eventID {
			n++
		}
	}
	for _, b := range p.Bundles() {
		for _, t := range b.Tickets() {
			if t.EventID() == eventID {
				n++
			}
		}
	}
	return n
}

func (s *service) resolve(ctx context.Context, items []LineItem) ([]*events.Event, []*inventory.Section, error) {
	evs := make([]*events.Event, 0, len(items))
	sections := make([]*inventory.Section, 0, len(items))
	for _, item := range items {
		event, err := s.Events.GetEvent(ctx, item.EventID)
		if err != nil {
			return nil, nil, err
		}
		section, ok := event.SectionByID(item.SectionID)
		if !ok {
			return nil, nil, apperr.InvalidArgument("clients.Checkout", "section %s is not part of event %s", item.SectionID, item.EventID)
		}
		evs = append(evs, event)
		sections = append(sections, section)
	}
	return evs, sections, nil
}

func (s *service) precompute(c *Client, line CheckoutLine, evs []*events.Event, sections []*inventory.Section) (*tickets.Ticket, tickets.Bundle, error) {
	switch line.Kind {
	case tickets.KindIndividual:
		t, err := c.PrecomputeIndividual(evs[0], sections[0], line.Items[0].Seat())
		return t, nil, err
	case tickets.KindMultiple:
		m, err := c.PrecomputeMultiple(evs[0], sections[0], line.Quantity, line.Items[0].Seats)
		if err != nil {
			return nil, nil, err
		}
		return nil, m, nil
	case tickets.KindSeasonPass:
		p, err := c.PrecomputeSeasonPass(evs, sections, seatsOf(line.Items))
		if err != nil {
			return nil, nil, err
		}
		return nil, p, nil
	case tickets.KindDeluxe:
		d, err := c.PrecomputeDeluxe(evs, sections, seatsOf(line.Items), line.Benefits)
		if err != nil {
			return nil, nil, err
		}
		return nil, d, nil
	default:
		return nil, nil, apperr.InvalidArgument("clients.Checkout", "unknown product kind %q", line.Kind)
	}
}

func seatsOf(items []LineItem) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Seat())
	}
	return out
}

func sectionOf(sections []*inventory.Section, id uuid.UUID) *inventory.Section {
	for _, s := range sections {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

func reserveAll(places []reservation) ([]reservation, error) {
	held := make([]reservation, 0, len(places))
	for _, p := range places {
		if err := p.section.Reserve(p.seat); err != nil {
			releaseAll(context.Background(), held)
			return nil, err
		}
		held = append(held, p)
	}
	return held, nil
}

func releaseAll(ctx context.Context, held []reservation) {
	for i := len(held) - 1; i >= 0; i-- {
		if err := held[i].section.Release(held[i].seat); err != nil {
			logger.GetDefault().ErrorContext(ctx, "Failed to release reservation",
				slog.String("section_id", held[i].section.ID().String()),
				slog.Int("seat", held[i].seat),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *service) Wallet(ctx context.Context, clientID uuid.UUID) (*WalletResponse, error) {
	client, err := s.Repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ts, bs, err := s.Tickets.ListByOwner(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := &WalletResponse{
		Client:  client.Snapshot(),
		Tickets: make([]tickets.Snapshot, 0, len(ts)),
		Bundles: make([]tickets.Snapshot, 0, len(bs)),
	}
	for _, t := range ts {
		resp.Tickets = append(resp.Tickets, t.Snapshot())
	}
	for _, b := range bs {
		resp.Bundles = append(resp.Bundles, b.Snapshot())
	}
	return resp, nil
}

func (s *service) PurchaseHistory(ctx context.Context, clientID uuid.UUID) ([]purchases.Summary, error) {
	client, err := s.Repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	history := client.Purchases()
	out := make([]purchases.Summary, 0, len(history))
	for _, p := range history {
		out = append(out, p.Summary())
	}
	return out, nil
}

func (s *service) parties(ctx context.Context, clientID uuid.UUID, req TransferRequest) (*Client, *Client, error) {
	owner, err := s.Repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	dest, err := s.Repo.GetByID(ctx, req.DestinationID)
	if err != nil {
		return nil, nil, apperr.InvalidArgument("clients.Transfer", "destination client %s does not exist", req.DestinationID)
	}
	return owner, dest, nil
}

func (s *service) TransferTicket(ctx context.Context, clientID, ticketID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	owner, dest, err := s.parties(ctx, clientID, req)
	if err != nil {
		return nil, err
	}
	ticket, err := s.Tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ok, err := owner.TransferTicket(ticket, dest, req.Authorized)
	if err != nil {
		return nil, err
	}
	if ok {
		s.emitTransfer(ctx, ticket.ID(), owner.ID(), dest.ID(), tickets.KindIndividual)
	}
	return &TransferResponse{Transferred: ok}, nil
}

// TransferBundle moves the whole bundle, or only req.TicketIDs when given.
func (s *service) TransferBundle(ctx context.Context, clientID, bundleID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	owner, dest, err := s.parties(ctx, clientID, req)
	if err != nil {
		return nil, err
	}
	bundle, err := s.Tickets.GetBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	if len(req.TicketIDs) == 0 {
		ok, err := owner.TransferBundle(bundle, dest, req.Authorized)
		if err != nil {
			return nil, err
		}
		if ok {
			s.emitTransfer(ctx, bundle.ID(), owner.ID(), dest.ID(), bundle.Kind())
		}
		return &TransferResponse{Transferred: ok}, nil
	}

	moved, err := owner.TransferBundlePart(bundle, req.TicketIDs, dest, req.Authorized)
	if err != nil {
		return nil, err
	}
	resp := &TransferResponse{Transferred: len(moved) > 0}
	for _, t := range moved {
		if err := s.Tickets.SaveTicket(ctx, t); err != nil {
			return nil, err
		}
		resp.Moved = append(resp.Moved, t.Snapshot())
		s.emitTransfer(ctx, t.ID(), owner.ID(), dest.ID(), tickets.KindIndividual)
	}
	return resp, nil
}

// emitTransfer also drops marketplace snapshots, which embed ticket owners.
func (s *service) emitTransfer(ctx context.Context, itemID, from, to uuid.UUID, kind tickets.Kind) {
	s.dropCached(ctx, constants.CACHE_PATTERN_MARKET_ALL)
	journal.Emit(ctx, s.Publisher, journal.NewEvent(journal.EventTicketTransferred, itemID.String()).
		WithActor(from).
		With("kind", string(kind)).
		With("to", to.String()))
}

func (s *service) PrintTicket(ctx context.Context, clientID, ticketID uuid.UUID) (*tickets.Snapshot, error) {
	ticket, err := s.Tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.OwnerID() != clientID {
		return nil, apperr.Forbidden("clients.PrintTicket", "ticket %s is not yours", ticketID)
	}
	if err := ticket.RegisterPrint(); err != nil {
		return nil, err
	}
	snap := ticket.Snapshot()
	return &snap, nil
}

func (s *service) dropCached(ctx context.Context, pattern string) {
	if err := s.Cache.DeletePattern(ctx, pattern); err != nil {
		logger.GetDefault().WarnContext(ctx, "Failed to invalidate cache",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()),
		)
	}
}
