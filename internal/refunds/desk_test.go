package refunds

import (
	"testing"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"
	"boletamaster/internal/journal"
	"boletamaster/internal/marketplace"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/shared/constants"
	"boletamaster/internal/tickets"
	"boletamaster/pkg/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// setup issues tickets costing 50 + 55 service + 10 issuance = 115 each.
type setup struct {
	event   *events.Event
	section *inventory.Section
}

func newSetup(t *testing.T) setup {
	t.Helper()
	policy, err := fees.NewPolicy(dec("10"))
	require.NoError(t, err)
	require.NoError(t, policy.SetServiceRate("THEATER", dec("0.10")))
	event, err := events.NewEvent(events.Params{
		Name:        "La Celestina",
		Type:        "THEATER",
		Date:        time.Now().Add(24 * time.Hour),
		OrganizerID: uuid.New(),
		Policy:      policy,
	})
	require.NoError(t, err)
	section, err := event.CreateSection(inventory.SectionSpec{Name: "Balcon", Capacity: 50})
	require.NoError(t, err)
	return setup{event: event, section: section}
}

func (s setup) ticket(t *testing.T, owner *clients.Client) *tickets.Ticket {
	t.Helper()
	ticket, err := tickets.NewTicket(dec("50"), s.event, s.section, owner.ID(), tickets.Unnumbered)
	require.NoError(t, err)
	return ticket
}

func newClient(t *testing.T) *clients.Client {
	t.Helper()
	c, err := clients.NewClient(uuid.New(), "Sofia", "sofia-"+uuid.NewString()[:6])
	require.NoError(t, err)
	return c
}

func TestApproveTicketRefundCreditsTotalCost(t *testing.T) {
	s := newSetup(t)
	desk := NewDesk()
	client := newClient(t)
	ticket := s.ticket(t, client)
	require.True(t, dec("115").Equal(ticket.TotalCost()))

	require.NoError(t, client.RequestTicketRefund(ticket, desk))
	_, pending := desk.PendingTicket(client.ID())
	require.True(t, pending)

	_, amount, err := desk.ApproveTicket(client)
	require.NoError(t, err)

	assert.True(t, dec("115").Equal(amount))
	assert.True(t, ticket.IsRefunded())
	assert.True(t, dec("115").Equal(client.Balance()))
	_, pending = desk.PendingTicket(client.ID())
	assert.False(t, pending)
}

func TestApproveWithoutRequest(t *testing.T) {
	desk := NewDesk()
	_, _, err := desk.ApproveTicket(newClient(t))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	_, _, err = desk.ApproveBundle(newClient(t))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestApproveUsedTicketKeepsRequestPending(t *testing.T) {
	s := newSetup(t)
	desk := NewDesk()
	client := newClient(t)
	ticket := s.ticket(t, client)

	require.NoError(t, desk.RequestTicketRefund(client, ticket))
	require.NoError(t, ticket.Use())

	_, _, err := desk.ApproveTicket(client)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	assert.True(t, client.Balance().IsZero())
	_, pending := desk.PendingTicket(client.ID())
	assert.True(t, pending)
}

func TestNewRequestReplacesOlder(t *testing.T) {
	s := newSetup(t)
	desk := NewDesk()
	client := newClient(t)
	first, second := s.ticket(t, client), s.ticket(t, client)

	require.NoError(t, desk.RequestTicketRefund(client, first))
	require.NoError(t, desk.RequestTicketRefund(client, second))
	assert.Len(t, desk.PendingTickets(), 1)

	got, _ := desk.PendingTicket(client.ID())
	assert.Equal(t, second.ID(), got.ID())
}

func TestRequestRequiresOwnership(t *testing.T) {
	s := newSetup(t)
	desk := NewDesk()
	owner, other := newClient(t), newClient(t)

	err := desk.RequestTicketRefund(other, s.ticket(t, owner))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	assert.True(t, apperr.IsKind(desk.RequestTicketRefund(owner, nil), apperr.KindInvalidArgument))
}

func TestBundleRefundUsesBundleMap(t *testing.T) {
	s := newSetup(t)
	desk := NewDesk()
	client := newClient(t)
	members := []*tickets.Ticket{s.ticket(t, client), s.ticket(t, client)}
	bundle, err := tickets.NewMultiple(dec("100"), client.ID(), members, dec("10"))
	require.NoError(t, err)

	lone := s.ticket(t, client)
	require.NoError(t, desk.RequestTicketRefund(client, lone))
	require.NoError(t, desk.RequestBundleRefund(client, bundle))

	_, amount, err := desk.ApproveBundle(client)
	require.NoError(t, err)
	assert.True(t, dec("230").Equal(amount))
	assert.Equal(t, tickets.BundleRefunded, bundle.Status())

	_, bundlePending := desk.PendingBundle(client.ID())
	_, ticketPending := desk.PendingTicket(client.ID())
	assert.False(t, bundlePending)
	assert.True(t, ticketPending)
}

func TestApproveDropsRequestAfterOwnershipChange(t *testing.T) {
	t.Run("ticket transferred", func(t *testing.T) {
		s := newSetup(t)
		desk := NewDesk()
		owner, friend := newClient(t), newClient(t)
		ticket := s.ticket(t, owner)

		require.NoError(t, owner.RequestTicketRefund(ticket, desk))
		moved, err := owner.TransferTicket(ticket, friend, true)
		require.NoError(t, err)
		require.True(t, moved)

		_, _, err = desk.ApproveTicket(owner)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
		assert.True(t, owner.Balance().IsZero())
		assert.False(t, ticket.IsRefunded())
		assert.Equal(t, friend.ID(), ticket.OwnerID())
		_, pending := desk.PendingTicket(owner.ID())
		assert.False(t, pending)
	})

	t.Run("ticket resold on the marketplace", func(t *testing.T) {
		s := newSetup(t)
		desk := NewDesk()
		market := marketplace.New(nil)
		seller, buyer := newClient(t), newClient(t)
		require.NoError(t, buyer.Credit(dec("100")))
		ticket := s.ticket(t, seller)

		require.NoError(t, seller.RequestTicketRefund(ticket, desk))
		offer, err := market.CreateOffer(seller, []*tickets.Ticket{ticket}, dec("40"), nil)
		require.NoError(t, err)
		bid, err := market.PlaceBid(buyer, offer, dec("60"))
		require.NoError(t, err)
		require.NoError(t, market.AcceptBid(seller, bid, offer))

		_, _, err = desk.ApproveTicket(seller)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
		assert.True(t, dec("60").Equal(seller.Balance()), seller.Balance().String())
		assert.False(t, ticket.IsRefunded())
		assert.Equal(t, buyer.ID(), ticket.OwnerID())
	})

	t.Run("bundle transferred", func(t *testing.T) {
		s := newSetup(t)
		desk := NewDesk()
		owner, friend := newClient(t), newClient(t)
		bundle, err := tickets.NewMultiple(dec("100"), owner.ID(), []*tickets.Ticket{s.ticket(t, owner), s.ticket(t, owner)}, dec("10"))
		require.NoError(t, err)

		require.NoError(t, owner.RequestBundleRefund(bundle, desk))
		moved, err := owner.TransferBundle(bundle, friend, true)
		require.NoError(t, err)
		require.True(t, moved)

		_, _, err = desk.ApproveBundle(owner)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
		assert.True(t, owner.Balance().IsZero())
		assert.Equal(t, tickets.BundleActive, bundle.Status())
		_, pending := desk.PendingBundle(owner.ID())
		assert.False(t, pending)
	})
}

func TestBundleMemberCannotBeRefundedAlone(t *testing.T) {
	s := newSetup(t)
	desk := NewDesk()
	client := newClient(t)
	members := []*tickets.Ticket{s.ticket(t, client), s.ticket(t, client)}
	bundle, err := tickets.NewMultiple(dec("100"), client.ID(), members, dec("10"))
	require.NoError(t, err)

	err = desk.RequestTicketRefund(client, members[0])
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	_, pending := desk.PendingTicket(client.ID())
	assert.False(t, pending)

	require.NoError(t, desk.RequestBundleRefund(client, bundle))
	_, amount, err := desk.ApproveBundle(client)
	require.NoError(t, err)
	assert.True(t, dec("230").Equal(amount))
	assert.True(t, dec("230").Equal(client.Balance()))
}

func TestRejectIsNoOpWithoutRequest(t *testing.T) {
	desk := NewDesk()
	_, ok := desk.RejectTicket(newClient(t))
	assert.False(t, ok)
}

func TestServiceRecordsDecisions(t *testing.T) {
	ctx := t.Context()
	s := newSetup(t)
	clientRepo := clients.NewRepository()
	ticketRepo := tickets.NewRepository()
	publisher := &journal.MemoryPublisher{}
	svc := NewService(NewDesk(), NewRepository(nil), clientRepo, ticketRepo, nil, publisher)

	client := newClient(t)
	require.NoError(t, clientRepo.Create(ctx, client))
	first, second := s.ticket(t, client), s.ticket(t, client)
	require.NoError(t, ticketRepo.SaveTicket(ctx, first))
	require.NoError(t, ticketRepo.SaveTicket(ctx, second))

	require.NoError(t, svc.RequestTicketRefund(ctx, client.ID(), first.ID()))
	assert.Len(t, svc.Pending(ctx).Tickets, 1)

	rec, err := svc.Approve(ctx, ItemTicket, client.ID(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", rec.Decision)
	assert.True(t, dec("115").Equal(rec.Amount))

	require.NoError(t, svc.RequestTicketRefund(ctx, client.ID(), second.ID()))
	rec, err = svc.Reject(ctx, ItemTicket, client.ID(), uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.DecidedBy)
	assert.False(t, second.IsRefunded())

	rec, err = svc.Reject(ctx, ItemTicket, client.ID(), uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, rec)

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, []journal.EventType{
		journal.EventRefundRequested,
		journal.EventRefundApproved,
		journal.EventRefundRequested,
		journal.EventRefundRejected,
	}, publisher.Types())
}

func TestServiceApproveDropsCachedReportsAndListings(t *testing.T) {
	ctx := t.Context()
	s := newSetup(t)
	clientRepo := clients.NewRepository()
	ticketRepo := tickets.NewRepository()
	db, mock := redismock.NewClientMock()
	svc := NewService(NewDesk(), NewRepository(nil), clientRepo, ticketRepo, cache.NewService(db), nil)

	client := newClient(t)
	require.NoError(t, clientRepo.Create(ctx, client))
	ticket := s.ticket(t, client)
	require.NoError(t, ticketRepo.SaveTicket(ctx, ticket))
	require.NoError(t, svc.RequestTicketRefund(ctx, client.ID(), ticket.ID()))

	dailyKey := constants.BuildDailySalesKey(time.Now())
	mock.ExpectScan(0, constants.CACHE_PATTERN_ADMIN_REPORTS, 100).SetVal([]string{dailyKey}, 0)
	mock.ExpectDel(dailyKey).SetVal(1)
	mock.ExpectScan(0, constants.CACHE_PATTERN_MARKET_ALL, 100).SetVal([]string{constants.CACHE_KEY_MARKET_ACTIVE_OFFERS}, 0)
	mock.ExpectDel(constants.CACHE_KEY_MARKET_ACTIVE_OFFERS).SetVal(1)

	_, err := svc.Approve(ctx, ItemTicket, client.ID(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ticket.IsRefunded())
	require.NoError(t, mock.ExpectationsWereMet())
}
