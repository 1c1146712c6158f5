package marketplace

import (
	"testing"

	"boletamaster/internal/clients"
	"boletamaster/internal/journal"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	fixture
	svc       Service
	market    *Marketplace
	clients   clients.Repository
	tickets   tickets.Repository
	publisher *journal.MemoryPublisher
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	sf := serviceFixture{
		fixture:   newFixture(t),
		market:    New(fixedClock),
		clients:   clients.NewRepository(),
		tickets:   tickets.NewRepository(),
		publisher: &journal.MemoryPublisher{},
	}
	sf.svc = NewService(sf.market, NewRepository(nil), sf.clients, sf.tickets, nil, sf.publisher)
	return sf
}

func (sf serviceFixture) client(t *testing.T, balance string) *clients.Client {
	t.Helper()
	c := newClient(t, balance)
	require.NoError(t, sf.clients.Create(t.Context(), c))
	return c
}

func (sf serviceFixture) owned(t *testing.T, owner *clients.Client) *tickets.Ticket {
	t.Helper()
	ticket := sf.ticket(t, owner)
	require.NoError(t, sf.tickets.SaveTicket(t.Context(), ticket))
	return ticket
}

func TestServiceResaleFlow(t *testing.T) {
	ctx := t.Context()
	sf := newServiceFixture(t)
	seller := sf.client(t, "0")
	buyer := sf.client(t, "250")
	ticket := sf.owned(t, seller)

	offer, err := sf.svc.CreateOffer(ctx, seller.ID(), CreateOfferRequest{
		TicketIDs: []uuid.UUID{ticket.ID()},
		BasePrice: dec("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, OfferActive, offer.Status)

	active, err := sf.svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	bid, err := sf.svc.PlaceBid(ctx, offer.ID, buyer.ID(), dec("130"))
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(buyer.Balance()))

	closed, err := sf.svc.AcceptBid(ctx, offer.ID, bid.ID, seller.ID())
	require.NoError(t, err)
	assert.Equal(t, OfferClosed, closed.Status)
	assert.Equal(t, buyer.ID(), ticket.OwnerID())
	assert.True(t, dec("130").Equal(seller.Balance()))

	active, err = sf.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	log, err := sf.svc.History(ctx, offer.ID, 0)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, string(ActionOfferCreated), log[0].Action)
	assert.Equal(t, string(ActionBidAccepted), log[2].Action)
	assert.Equal(t, string(OfferClosed), log[2].OfferStatus)

	assert.Equal(t, []journal.EventType{
		journal.EventOfferCreated,
		journal.EventBidPlaced,
		journal.EventBidAccepted,
	}, sf.publisher.Types())
}

func TestServiceCancellations(t *testing.T) {
	ctx := t.Context()
	sf := newServiceFixture(t)
	seller := sf.client(t, "0")
	buyer := sf.client(t, "100")

	offer, err := sf.svc.CreateOffer(ctx, seller.ID(), CreateOfferRequest{
		TicketIDs: []uuid.UUID{sf.owned(t, seller).ID()},
	})
	require.NoError(t, err)
	bid, err := sf.svc.PlaceBid(ctx, offer.ID, buyer.ID(), dec("70"))
	require.NoError(t, err)

	err = sf.svc.CancelOffer(ctx, offer.ID, buyer.ID())
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	require.NoError(t, sf.svc.CancelOfferByAdmin(ctx, offer.ID, uuid.New()))
	require.NoError(t, sf.svc.CancelBid(ctx, offer.ID, bid.ID, buyer.ID()))
	assert.True(t, dec("100").Equal(buyer.Balance()))

	got, err := sf.svc.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, OfferCancelledByAdmin, got.Status)
	assert.Empty(t, got.Bids)
}

func TestServiceUnknownReferences(t *testing.T) {
	ctx := t.Context()
	sf := newServiceFixture(t)
	seller := sf.client(t, "0")

	_, err := sf.svc.CreateOffer(ctx, seller.ID(), CreateOfferRequest{TicketIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = sf.svc.PlaceBid(ctx, uuid.New(), seller.ID(), dec("10"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	offer, err := sf.svc.CreateOffer(ctx, seller.ID(), CreateOfferRequest{TicketIDs: []uuid.UUID{sf.owned(t, seller).ID()}})
	require.NoError(t, err)
	_, err = sf.svc.AcceptBid(ctx, offer.ID, uuid.New(), seller.ID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
