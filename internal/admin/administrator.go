package admin

import (
	"context"
	"log/slog"

	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/journal"
	"boletamaster/internal/marketplace"
	"boletamaster/internal/purchases"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/venues"
	"boletamaster/pkg/cache"
	"boletamaster/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deps wires the administrator to the stores it oversees.
type Deps struct {
	Policy      *fees.Policy
	Venues      venues.Service
	Events      events.Service
	Market      *marketplace.Marketplace
	Marketplace marketplace.Service
	Ledger      *purchases.Ledger
	Cache       cache.Service
	Publisher   journal.Publisher
}

// Administrator is the single platform operator: fee policy, venue approval,
// event and offer cancellation, and sales reports. Refund decisions go through refunds.Service.
type Administrator struct {
	policy    *fees.Policy
	venues    venues.Service
	events    events.Service
	market    *marketplace.Marketplace
	offers    marketplace.Service
	ledger    *purchases.Ledger
	cache     cache.Service
	publisher journal.Publisher
}

func NewAdministrator(deps Deps) *Administrator {
	if deps.Cache == nil {
		deps.Cache = cache.NewService(nil)
	}
	if deps.Publisher == nil {
		deps.Publisher = journal.NoopPublisher{}
	}
	return &Administrator{
		policy:    deps.Policy,
		venues:    deps.Venues,
		events:    deps.Events,
		market:    deps.Market,
		offers:    deps.Marketplace,
		ledger:    deps.Ledger,
		cache:     deps.Cache,
		publisher: deps.Publisher,
	}
}

// FeeSchedule is the current fee policy.
type FeeSchedule struct {
	IssuanceFee  decimal.Decimal            `json:"issuance_fee"`
	ServiceRates map[string]decimal.Decimal `json:"service_rates"`
}

func (a *Administrator) Fees() FeeSchedule {
	return FeeSchedule{
		IssuanceFee:  a.policy.IssuanceFee(),
		ServiceRates: a.policy.Rates(),
	}
}

// SetIssuanceFee changes the fee charged on tickets issued from now on.
func (a *Administrator) SetIssuanceFee(ctx context.Context, fee decimal.Decimal) error {
	if err := a.policy.SetIssuanceFee(fee); err != nil {
		return err
	}
	a.feesChanged(ctx, slog.String("issuance_fee", fee.StringFixed(2)))
	return nil
}

func (a *Administrator) SetServiceRate(ctx context.Context, eventType string, rate decimal.Decimal) error {
	if err := a.policy.SetServiceRate(eventType, rate); err != nil {
		return err
	}
	a.feesChanged(ctx, slog.String("event_type", eventType), slog.String("rate", rate.String()))
	return nil
}

// feesChanged drops cached event views, which embed the current fees.
func (a *Administrator) feesChanged(ctx context.Context, attrs ...any) {
	if err := a.cache.DeletePattern(ctx, constants.CACHE_PATTERN_EVENTS_ALL); err != nil {
		logger.GetDefault().WarnContext(ctx, "Failed to invalidate event cache", slog.String("error", err.Error()))
	}
	logger.GetDefault().InfoContext(ctx, "Fee Policy Updated", attrs...)
}

func (a *Administrator) ApproveVenue(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	return a.venues.SetApproval(ctx, id, true)
}

func (a *Administrator) DisapproveVenue(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	return a.venues.SetApproval(ctx, id, false)
}

// CancelEvent moves the event to CANCELLED_BY_ADMIN.
func (a *Administrator) CancelEvent(ctx context.Context, eventID, adminID uuid.UUID) (*events.EventResponse, error) {
	event, err := a.events.Cancel(ctx, eventID, true, "")
	if err != nil {
		return nil, err
	}

	ev := journal.NewEvent(journal.EventEventCancelled, eventID.String()).With("by", "admin")
	if adminID != uuid.Nil {
		ev = ev.WithActor(adminID)
	}
	journal.Emit(ctx, a.publisher, ev)

	resp := event.ToResponse()
	return &resp, nil
}

func (a *Administrator) CancelOffer(ctx context.Context, offerID, adminID uuid.UUID) error {
	return a.offers.CancelOfferByAdmin(ctx, offerID, adminID)
}

// OfferLog lists every offer ever published, in publication order.
func (a *Administrator) OfferLog() []marketplace.OfferSnapshot {
	all := a.market.Log()
	out := make([]marketplace.OfferSnapshot, 0, len(all))
	for _, o := range all {
		out = append(out, o.Snapshot())
	}
	return out
}
