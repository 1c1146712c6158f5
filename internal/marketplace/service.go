package marketplace

import (
	"context"
	"log/slog"

	"boletamaster/internal/clients"
	"boletamaster/internal/journal"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/tickets"
	"boletamaster/pkg/cache"
	"boletamaster/pkg/logger"
	"boletamaster/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateOffer(ctx context.Context, sellerID uuid.UUID, req CreateOfferRequest) (*OfferSnapshot, error)
	ListActive(ctx context.Context) ([]OfferSnapshot, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*OfferSnapshot, error)
	PlaceBid(ctx context.Context, offerID, bidderID uuid.UUID, amount decimal.Decimal) (*BidSnapshot, error)
	AcceptBid(ctx context.Context, offerID, bidID, sellerID uuid.UUID) (*OfferSnapshot, error)
	CancelBid(ctx context.Context, offerID, bidID, buyerID uuid.UUID) error
	CancelOffer(ctx context.Context, offerID, sellerID uuid.UUID) error
	CancelOfferByAdmin(ctx context.Context, offerID, adminID uuid.UUID) error
	History(ctx context.Context, offerID uuid.UUID, limit int) ([]OfferLogEntry, error)
}

type service struct {
	market    *Marketplace
	repo      Repository
	clients   clients.Repository
	tickets   tickets.Repository
	cache     cache.Service
	publisher journal.Publisher
}

func NewService(market *Marketplace, repo Repository, clientRepo clients.Repository, ticketRepo tickets.Repository, cacheService cache.Service, publisher journal.Publisher) Service {
	if publisher == nil {
		publisher = journal.NoopPublisher{}
	}
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &service{
		market:    market,
		repo:      repo,
		clients:   clientRepo,
		tickets:   ticketRepo,
		cache:     cacheService,
		publisher: publisher,
	}
}

func (s *service) CreateOffer(ctx context.Context, sellerID uuid.UUID, req CreateOfferRequest) (*OfferSnapshot, error) {
	seller, err := s.clients.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	items := make([]*tickets.Ticket, 0, len(req.TicketIDs))
	for _, id := range req.TicketIDs {
		t, err := s.tickets.GetTicket(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}

	offer, err := s.market.CreateOffer(seller, items, req.BasePrice, req.CloseAt)
	metrics.TrackMarketplace("create_offer", err)
	if err != nil {
		return nil, err
	}

	s.changed(ctx, offer, ActionOfferCreated, sellerID, nil)
	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventOfferCreated, offer.ID().String()).
		WithActor(sellerID).
		With("tickets", len(items)).
		With("base_price", req.BasePrice.StringFixed(2)))

	logger.GetDefault().InfoContext(ctx, "Offer Published",
		slog.String("offer_id", offer.ID().String()),
		slog.String("seller_id", sellerID.String()),
		slog.Int("tickets", len(items)),
	)

	snap := offer.Snapshot()
	return &snap, nil
}

// ListActive serves open offers through the cache.
func (s *service) ListActive(ctx context.Context) ([]OfferSnapshot, error) {
	var out []OfferSnapshot
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MARKET_ACTIVE_OFFERS, constants.TTL_MARKET_ACTIVE_OFFERS,
		func() (interface{}, error) {
			active := s.market.ActiveOffers()
			list := make([]OfferSnapshot, 0, len(active))
			for _, o := range active {
				list = append(list, o.Snapshot())
			}
			return list, nil
		}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) GetOffer(ctx context.Context, id uuid.UUID) (*OfferSnapshot, error) {
	offer, err := s.market.Offer(id)
	if err != nil {
		return nil, err
	}

	var out OfferSnapshot
	err = s.cache.GetOrSet(ctx, constants.BuildOfferDetailKey(id.String()), constants.TTL_MARKET_OFFER_DETAIL,
		func() (interface{}, error) {
			return offer.Snapshot(), nil
		}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) PlaceBid(ctx context.Context, offerID, bidderID uuid.UUID, amount decimal.Decimal) (*BidSnapshot, error) {
	offer, bidder, err := s.resolve(ctx, offerID, bidderID)
	if err != nil {
		return nil, err
	}

	bid, err := s.market.PlaceBid(bidder, offer, amount)
	metrics.TrackMarketplace("place_bid", err)
	if err != nil {
		return nil, err
	}

	bidID := bid.ID()
	s.changed(ctx, offer, ActionBidPlaced, bidderID, &bidID, amount)
	logger.GetDefault().LogBidPlaced(ctx, offerID.String(), bidID.String(), bidderID.String(), amount.StringFixed(2))
	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventBidPlaced, offerID.String()).
		WithActor(bidderID).
		With("bid_id", bidID.String()).
		With("amount", amount.StringFixed(2)))

	return &BidSnapshot{
		ID:       bidID,
		OfferID:  offerID,
		BuyerID:  bidderID,
		Amount:   amount,
		Status:   BidPending,
		PlacedAt: bid.PlacedAt(),
	}, nil
}

func (s *service) AcceptBid(ctx context.Context, offerID, bidID, sellerID uuid.UUID) (*OfferSnapshot, error) {
	offer, seller, err := s.resolve(ctx, offerID, sellerID)
	if err != nil {
		return nil, err
	}
	bid, ok := offer.Bid(bidID)
	if !ok {
		return nil, apperr.NotFound("marketplace.AcceptBid", "bid %s not found on offer %s", bidID, offerID)
	}

	err = s.market.AcceptBid(seller, bid, offer)
	metrics.TrackMarketplace("accept_bid", err)
	if err != nil {
		return nil, err
	}

	s.changed(ctx, offer, ActionBidAccepted, sellerID, &bidID, bid.Amount())
	logger.GetDefault().LogOfferClosed(ctx, offerID.String(), string(OfferClosed))
	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventBidAccepted, offerID.String()).
		WithActor(sellerID).
		With("bid_id", bidID.String()).
		With("buyer_id", bid.Buyer().ID().String()).
		With("amount", bid.Amount().StringFixed(2)))

	snap := offer.Snapshot()
	return &snap, nil
}

func (s *service) CancelBid(ctx context.Context, offerID, bidID, buyerID uuid.UUID) error {
	offer, buyer, err := s.resolve(ctx, offerID, buyerID)
	if err != nil {
		return err
	}
	bid, ok := offer.Bid(bidID)
	if !ok {
		return apperr.NotFound("marketplace.CancelBid", "bid %s not found on offer %s", bidID, offerID)
	}

	err = s.market.CancelBid(buyer, bid, offer)
	metrics.TrackMarketplace("cancel_bid", err)
	if err != nil {
		return err
	}

	s.changed(ctx, offer, ActionBidCancelled, buyerID, &bidID, bid.Amount())
	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventBidCancelled, offerID.String()).
		WithActor(buyerID).
		With("bid_id", bidID.String()).
		With("refunded", bid.Amount().StringFixed(2)))
	return nil
}

func (s *service) CancelOffer(ctx context.Context, offerID, sellerID uuid.UUID) error {
	offer, seller, err := s.resolve(ctx, offerID, sellerID)
	if err != nil {
		return err
	}

	err = s.market.CancelOfferBySeller(seller, offer)
	metrics.TrackMarketplace("cancel_offer", err)
	if err != nil {
		return err
	}
	s.cancelled(ctx, offer, ActionCancelledBySeller, sellerID)
	return nil
}

func (s *service) CancelOfferByAdmin(ctx context.Context, offerID, adminID uuid.UUID) error {
	offer, err := s.market.Offer(offerID)
	if err != nil {
		return err
	}

	err = s.market.CancelOfferByAdmin(offer)
	metrics.TrackMarketplace("admin_cancel_offer", err)
	if err != nil {
		return err
	}
	s.cancelled(ctx, offer, ActionCancelledByAdmin, adminID)
	return nil
}

func (s *service) History(ctx context.Context, offerID uuid.UUID, limit int) ([]OfferLogEntry, error) {
	if offerID != uuid.Nil {
		return s.repo.ListByOffer(ctx, offerID)
	}
	return s.repo.List(ctx, limit)
}

func (s *service) resolve(ctx context.Context, offerID, clientID uuid.UUID) (*Offer, *clients.Client, error) {
	offer, err := s.market.Offer(offerID)
	if err != nil {
		return nil, nil, err
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	return offer, client, nil
}

func (s *service) cancelled(ctx context.Context, offer *Offer, action Action, actorID uuid.UUID) {
	s.changed(ctx, offer, action, actorID, nil)
	logger.GetDefault().LogOfferClosed(ctx, offer.ID().String(), string(action))
	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventOfferCancelled, offer.ID().String()).
		WithActor(actorID).
		With("status", string(offer.Status())))
}

// changed records a state change in the persistent log and drops cached listings.
func (s *service) changed(ctx context.Context, offer *Offer, action Action, actorID uuid.UUID, bidID *uuid.UUID, amount ...decimal.Decimal) {
	entry := &OfferLogEntry{
		OfferID:     offer.ID(),
		Action:      string(action),
		BidID:       bidID,
		OfferStatus: string(offer.Status()),
		OccurredAt:  s.market.now(),
	}
	if actorID != uuid.Nil {
		entry.ActorID = &actorID
	}
	if len(amount) > 0 {
		entry.Amount = &amount[0]
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		logger.GetDefault().ErrorContext(ctx, "Failed to persist offer log entry",
			slog.String("offer_id", offer.ID().String()),
			slog.String("error", err.Error()),
		)
	}

	if err := s.cache.Delete(ctx, constants.CACHE_KEY_MARKET_ACTIVE_OFFERS, constants.BuildOfferDetailKey(offer.ID().String())); err != nil {
		logger.GetDefault().WarnContext(ctx, "Failed to invalidate marketplace cache", slog.String("error", err.Error()))
	}
	metrics.SetActiveOffers(s.market.ActiveCount())
}
