package clients

import (
	"context"
	"testing"
	"time"

	"boletamaster/internal/events"
	"boletamaster/internal/journal"
	"boletamaster/internal/purchases"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/tickets"
	"boletamaster/pkg/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc       Service
	events    events.Service
	event     *events.Event
	numbered  uuid.UUID
	general   uuid.UUID
	publisher *journal.MemoryPublisher
	ledger    *purchases.Ledger
	tickets   tickets.Repository
}

func newCheckoutFixture(t *testing.T, gateway purchases.Gateway) *checkoutFixture {
	t.Helper()
	ctx := t.Context()

	eventSvc := events.NewService(events.NewRepository(), cache.NewService(nil))
	event := newEvent(t, newPolicy(t), time.Now().Add(24*time.Hour))
	numbered := addSection(t, event, "Platea", true, 3)
	general := addSection(t, event, "Gramilla", false, 2)
	require.NoError(t, eventSvc.Register(ctx, event))

	f := &checkoutFixture{
		events:    eventSvc,
		event:     event,
		numbered:  numbered.ID(),
		general:   general.ID(),
		publisher: &journal.MemoryPublisher{},
		ledger:    purchases.NewLedger(),
		tickets:   tickets.NewRepository(),
	}
	f.svc = NewService(Deps{
		Repo:      NewRepository(),
		Events:    eventSvc,
		Tickets:   f.tickets,
		Ledger:    f.ledger,
		Gateway:   gateway,
		Publisher: f.publisher,
	})
	return f
}

func (f *checkoutFixture) line(kind tickets.Kind, section uuid.UUID, seats ...int) CheckoutLine {
	return CheckoutLine{
		Kind:  kind,
		Items: []LineItem{{EventID: f.event.ID(), SectionID: section, Seats: seats}},
	}
}

func (f *checkoutFixture) sold(t *testing.T, id uuid.UUID) int {
	t.Helper()
	section, ok := f.event.SectionByID(id)
	require.True(t, ok)
	return section.SeatsSold()
}

func register(t *testing.T, svc Service) *Client {
	t.Helper()
	c, err := svc.Register(context.Background(), uuid.New(), "Luis", "luis-"+uuid.NewString()[:6])
	require.NoError(t, err)
	return c
}

func TestCheckoutReservesAndRecords(t *testing.T) {
	f := newCheckoutFixture(t, purchases.MockGateway{})
	client := register(t, f.svc)

	multiple := f.line(tickets.KindMultiple, f.general)
	multiple.Quantity = 2

	summary, err := f.svc.Checkout(t.Context(), client.ID(), CheckoutRequest{
		Lines: []CheckoutLine{
			f.line(tickets.KindIndividual, f.numbered, 2),
			multiple,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, purchases.MethodExternal, summary.Method)
	assert.Len(t, summary.Tickets, 1)
	assert.Len(t, summary.Bundles, 1)
	assert.Equal(t, 1, f.sold(t, f.numbered))
	assert.Equal(t, 2, f.sold(t, f.general))
	assert.Len(t, f.ledger.All(), 1)
	assert.Equal(t, []journal.EventType{journal.EventPurchaseCompleted}, f.publisher.Types())

	wallet, err := f.svc.Wallet(t.Context(), client.ID())
	require.NoError(t, err)
	assert.Len(t, wallet.Tickets, 1)
	assert.Len(t, wallet.Bundles, 1)
}

func TestCheckoutRollsBackOnConflict(t *testing.T) {
	f := newCheckoutFixture(t, purchases.MockGateway{})
	client := register(t, f.svc)

	_, err := f.svc.Checkout(t.Context(), client.ID(), CheckoutRequest{
		Lines: []CheckoutLine{
			f.line(tickets.KindIndividual, f.numbered, 1),
			f.line(tickets.KindIndividual, f.general),
			f.line(tickets.KindIndividual, f.numbered, 1),
		},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	assert.Zero(t, f.sold(t, f.numbered))
	assert.Zero(t, f.sold(t, f.general))
	assert.Empty(t, f.ledger.All())
}

func TestCheckoutReleasesSeatsWhenPaymentFails(t *testing.T) {
	f := newCheckoutFixture(t, failingGateway{})
	client := register(t, f.svc)

	_, err := f.svc.Checkout(t.Context(), client.ID(), CheckoutRequest{
		Lines: []CheckoutLine{f.line(tickets.KindIndividual, f.numbered, 3)},
	})
	require.Error(t, err)
	assert.Zero(t, f.sold(t, f.numbered))
	assert.Empty(t, f.publisher.Events())
}

func TestTransferAndPrint(t *testing.T) {
	f := newCheckoutFixture(t, purchases.MockGateway{})
	owner := register(t, f.svc)
	friend := register(t, f.svc)

	summary, err := f.svc.Checkout(t.Context(), owner.ID(), CheckoutRequest{
		Lines: []CheckoutLine{f.line(tickets.KindIndividual, f.numbered, 1)},
	})
	require.NoError(t, err)
	ticketID := summary.Tickets[0].ID

	_, err = f.svc.TransferTicket(t.Context(), owner.ID(), ticketID, TransferRequest{DestinationID: uuid.New(), Authorized: true})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	resp, err := f.svc.TransferTicket(t.Context(), owner.ID(), ticketID, TransferRequest{DestinationID: friend.ID()})
	require.NoError(t, err)
	assert.False(t, resp.Transferred)

	resp, err = f.svc.TransferTicket(t.Context(), owner.ID(), ticketID, TransferRequest{DestinationID: friend.ID(), Authorized: true})
	require.NoError(t, err)
	assert.True(t, resp.Transferred)

	_, err = f.svc.PrintTicket(t.Context(), owner.ID(), ticketID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = f.svc.PrintTicket(t.Context(), friend.ID(), ticketID)
	require.NoError(t, err)
	_, err = f.svc.PrintTicket(t.Context(), friend.ID(), ticketID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestPartialBundleTransfer(t *testing.T) {
	f := newCheckoutFixture(t, purchases.MockGateway{})
	owner := register(t, f.svc)
	friend := register(t, f.svc)

	line := f.line(tickets.KindMultiple, f.numbered, 1, 2)
	line.Quantity = 2
	summary, err := f.svc.Checkout(t.Context(), owner.ID(), CheckoutRequest{Lines: []CheckoutLine{line}})
	require.NoError(t, err)
	bundle := summary.Bundles[0]

	resp, err := f.svc.TransferBundle(t.Context(), owner.ID(), bundle.ID, TransferRequest{
		DestinationID: friend.ID(),
		Authorized:    true,
		TicketIDs:     []uuid.UUID{bundle.Tickets[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, resp.Moved, 1)

	wallet, err := f.svc.Wallet(t.Context(), friend.ID())
	require.NoError(t, err)
	assert.Len(t, wallet.Tickets, 1)
	assert.Empty(t, wallet.Bundles)
}

func TestCheckoutAndTransferDropCachedViews(t *testing.T) {
	f := newCheckoutFixture(t, purchases.MockGateway{})
	db, mock := redismock.NewClientMock()
	svc := NewService(Deps{
		Repo:    NewRepository(),
		Events:  f.events,
		Tickets: f.tickets,
		Ledger:  f.ledger,
		Gateway: purchases.MockGateway{},
		Cache:   cache.NewService(db),
	})
	owner := register(t, svc)
	friend := register(t, svc)

	dailyKey := constants.BuildDailySalesKey(time.Now())
	mock.ExpectScan(0, constants.CACHE_PATTERN_ADMIN_REPORTS, 100).SetVal([]string{dailyKey}, 0)
	mock.ExpectDel(dailyKey).SetVal(1)
	summary, err := svc.Checkout(t.Context(), owner.ID(), CheckoutRequest{
		Lines: []CheckoutLine{f.line(tickets.KindIndividual, f.numbered, 1)},
	})
	require.NoError(t, err)

	mock.ExpectScan(0, constants.CACHE_PATTERN_MARKET_ALL, 100).SetVal([]string{constants.CACHE_KEY_MARKET_ACTIVE_OFFERS}, 0)
	mock.ExpectDel(constants.CACHE_KEY_MARKET_ACTIVE_OFFERS).SetVal(1)
	resp, err := svc.TransferTicket(t.Context(), owner.ID(), summary.Tickets[0].ID, TransferRequest{DestinationID: friend.ID(), Authorized: true})
	require.NoError(t, err)
	assert.True(t, resp.Transferred)

	require.NoError(t, mock.ExpectationsWereMet())
}
