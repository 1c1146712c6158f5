package refunds

import (
	"context"
	"log/slog"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/journal"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/tickets"
	"boletamaster/pkg/cache"
	"boletamaster/pkg/logger"
	"boletamaster/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	RequestTicketRefund(ctx context.Context, clientID, ticketID uuid.UUID) error
	RequestBundleRefund(ctx context.Context, clientID, bundleID uuid.UUID) error
	Pending(ctx context.Context) PendingResponse
	Approve(ctx context.Context, kind ItemKind, clientID, adminID uuid.UUID) (*RefundRecord, error)
	Reject(ctx context.Context, kind ItemKind, clientID, adminID uuid.UUID) (*RefundRecord, error)
	History(ctx context.Context, limit int) ([]RefundRecord, error)
}

type PendingResponse struct {
	Tickets []Pending `json:"tickets"`
	Bundles []Pending `json:"bundles"`
}

type service struct {
	desk      *Desk
	repo      Repository
	clients   clients.Repository
	tickets   tickets.Repository
	cache     cache.Service
	publisher journal.Publisher
}

func NewService(desk *Desk, repo Repository, clientRepo clients.Repository, ticketRepo tickets.Repository, cacheService cache.Service, publisher journal.Publisher) Service {
	if publisher == nil {
		publisher = journal.NoopPublisher{}
	}
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &service{
		desk:      desk,
		repo:      repo,
		clients:   clientRepo,
		tickets:   ticketRepo,
		cache:     cacheService,
		publisher: publisher,
	}
}

func (s *service) RequestTicketRefund(ctx context.Context, clientID, ticketID uuid.UUID) error {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := client.RequestTicketRefund(ticket, s.desk); err != nil {
		return err
	}
	s.emitRequest(ctx, clientID, ticketID, ItemTicket)
	return nil
}

func (s *service) RequestBundleRefund(ctx context.Context, clientID, bundleID uuid.UUID) error {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	bundle, err := s.tickets.GetBundle(ctx, bundleID)
	if err != nil {
		return err
	}
	if err := client.RequestBundleRefund(bundle, s.desk); err != nil {
		return err
	}
	s.emitRequest(ctx, clientID, bundleID, ItemBundle)
	return nil
}

func (s *service) emitRequest(ctx context.Context, clientID, itemID uuid.UUID, kind ItemKind) {
	logger.GetDefault().InfoContext(ctx, "Refund Requested",
		slog.String("client_id", clientID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("kind", string(kind)),
	)
	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventRefundRequested, clientID.String()).
		WithActor(clientID).
		With("item_id", itemID.String()).
		With("kind", string(kind)))
}

func (s *service) Pending(ctx context.Context) PendingResponse {
	return PendingResponse{
		Tickets: s.desk.PendingTickets(),
		Bundles: s.desk.PendingBundles(),
	}
}

func (s *service) Approve(ctx context.Context, kind ItemKind, clientID, adminID uuid.UUID) (*RefundRecord, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var (
		itemID uuid.UUID
		amount decimal.Decimal
	)
	switch kind {
	case ItemBundle:
		bundle, credited, err := s.desk.ApproveBundle(client)
		if err != nil {
			return nil, err
		}
		itemID, amount = bundle.ID(), credited
	default:
		ticket, credited, err := s.desk.ApproveTicket(client)
		if err != nil {
			return nil, err
		}
		itemID, amount = ticket.ID(), credited
	}

	// Sales reports and marketplace listings both show refunded items.
	for _, pattern := range []string{constants.CACHE_PATTERN_ADMIN_REPORTS, constants.CACHE_PATTERN_MARKET_ALL} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			logger.GetDefault().WarnContext(ctx, "Failed to invalidate cache",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()),
			)
		}
	}
	return s.record(ctx, client.ID(), itemID, kind, amount, DecisionApproved, adminID), nil
}

// Reject drops the pending request. Rejecting when nothing is pending records nothing.
func (s *service) Reject(ctx context.Context, kind ItemKind, clientID, adminID uuid.UUID) (*RefundRecord, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var itemID uuid.UUID
	switch kind {
	case ItemBundle:
		bundle, ok := s.desk.RejectBundle(client)
		if !ok {
			return nil, nil
		}
		itemID = bundle.ID()
	default:
		ticket, ok := s.desk.RejectTicket(client)
		if !ok {
			return nil, nil
		}
		itemID = ticket.ID()
	}

	return s.record(ctx, client.ID(), itemID, kind, decimal.Zero, DecisionRejected, adminID), nil
}

// record persists and announces a decision that already took effect in memory.
func (s *service) record(ctx context.Context, clientID, itemID uuid.UUID, kind ItemKind, amount decimal.Decimal, decision Decision, adminID uuid.UUID) *RefundRecord {
	rec := &RefundRecord{
		ClientID:  clientID,
		ItemID:    itemID,
		ItemKind:  string(kind),
		Amount:    amount,
		Decision:  string(decision),
		DecidedAt: time.Now().UTC(),
	}
	if adminID != uuid.Nil {
		rec.DecidedBy = &adminID
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		logger.GetDefault().ErrorContext(ctx, "Failed to persist refund decision",
			slog.String("client_id", clientID.String()),
			slog.String("error", err.Error()),
		)
	}

	metrics.TrackRefundDecision(string(kind), string(decision))
	logger.GetDefault().LogRefundDecision(ctx, clientID.String(), itemID.String(), string(kind), string(decision))

	eventType := journal.EventRefundApproved
	if decision == DecisionRejected {
		eventType = journal.EventRefundRejected
	}
	journal.Emit(ctx, s.publisher, journal.NewEvent(eventType, clientID.String()).
		With("item_id", itemID.String()).
		With("kind", string(kind)).
		With("amount", amount.StringFixed(2)))
	return rec
}

func (s *service) History(ctx context.Context, limit int) ([]RefundRecord, error) {
	return s.repo.ListRecords(ctx, limit)
}
