package purchases

import (
	"regexp"
	"testing"
	"time"

	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTicket(t *testing.T, owner uuid.UUID, price int64) *tickets.Ticket {
	t.Helper()
	policy, err := fees.NewPolicy(decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, policy.SetServiceRate("THEATER", decimal.RequireFromString("0.1")))

	event, err := events.NewEvent(events.Params{
		Name:        "Hamlet",
		Type:        "THEATER",
		Date:        time.Now().Add(24 * time.Hour),
		OrganizerID: uuid.New(),
		Policy:      policy,
	})
	require.NoError(t, err)
	section, err := event.CreateSection(inventory.SectionSpec{Name: "Palco", Capacity: 10})
	require.NoError(t, err)

	ticket, err := tickets.NewTicket(decimal.NewFromInt(price), event, section, owner, tickets.Unnumbered)
	require.NoError(t, err)
	return ticket
}

func TestPurchaseLifecycle(t *testing.T) {
	client := uuid.New()
	p, err := NewPurchase(client)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^BM-\d{8}-[A-Z]{6}$`), p.Reference())

	first := newTicket(t, client, 50)
	require.NoError(t, p.AddTicket(first))
	require.NoError(t, p.AddTicket(first))
	assert.Len(t, p.Tickets(), 1)
	assert.True(t, apperr.IsKind(p.AddTicket(nil), apperr.KindInvalidArgument))
	assert.True(t, apperr.IsKind(p.AddBundle(nil), apperr.KindInvalidArgument))

	require.NoError(t, p.Finalize(MethodBalance))
	assert.True(t, decimal.NewFromInt(110).Equal(p.Value()))
	assert.Equal(t, MethodBalance, p.Method())

	assert.True(t, apperr.IsKind(p.AddTicket(newTicket(t, client, 1)), apperr.KindInvalidState))
	assert.True(t, apperr.IsKind(p.RemoveTicket(first.ID()), apperr.KindInvalidState))
	assert.True(t, apperr.IsKind(p.Finalize(MethodExternal), apperr.KindInvalidState))
}

func TestOutstandingSkipsRefundedLines(t *testing.T) {
	client := uuid.New()
	p, err := NewPurchase(client)
	require.NoError(t, err)
	kept, refunded := newTicket(t, client, 50), newTicket(t, client, 100)
	require.NoError(t, p.AddTicket(kept))
	require.NoError(t, p.AddTicket(refunded))
	require.NoError(t, p.Finalize(MethodBalance))

	// 50 + 55 + 5 and 100 + 110 + 5
	assert.True(t, decimal.NewFromInt(325).Equal(p.Outstanding()))
	require.NoError(t, refunded.Refund())
	assert.True(t, decimal.NewFromInt(110).Equal(p.Outstanding()))
	assert.True(t, decimal.NewFromInt(325).Equal(p.Value()))
}

func TestPurchaseIDsIncrease(t *testing.T) {
	a, err := NewPurchase(uuid.New())
	require.NoError(t, err)
	b, err := NewPurchase(uuid.New())
	require.NoError(t, err)
	assert.Greater(t, b.ID(), a.ID())
}

func TestPurchaseGettersReturnCopies(t *testing.T) {
	client := uuid.New()
	p, err := NewPurchase(client)
	require.NoError(t, err)
	require.NoError(t, p.AddTicket(newTicket(t, client, 10)))

	list := p.Tickets()
	list[0] = nil
	assert.NotNil(t, p.Tickets()[0])
}

func TestLedger(t *testing.T) {
	ledger := NewLedger()
	client := uuid.New()

	open, err := NewPurchase(client)
	require.NoError(t, err)
	assert.True(t, apperr.IsKind(ledger.Record(open), apperr.KindInvalidState))

	require.NoError(t, open.AddTicket(newTicket(t, client, 20)))
	require.NoError(t, open.Finalize(MethodExternal))
	require.NoError(t, ledger.Record(open))

	assert.Len(t, ledger.All(), 1)
	assert.Len(t, ledger.On(time.Now()), 1)
	assert.Empty(t, ledger.On(time.Now().Add(-48*time.Hour)))
	assert.Len(t, ledger.ByClient(client), 1)
}

func TestNewReceipt(t *testing.T) {
	client := uuid.New()
	p, err := NewPurchase(client)
	require.NoError(t, err)
	ticket := newTicket(t, client, 30)
	require.NoError(t, p.AddTicket(ticket))
	require.NoError(t, p.Finalize(MethodExternal))

	r := NewReceipt(p, "TXN_1")
	assert.Equal(t, p.ID(), r.ID)
	assert.Equal(t, "EXTERNAL", r.Method)
	assert.Equal(t, 1, r.TicketCount)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, ticket.ID(), r.Lines[0].ItemID)
	require.NotNil(t, r.Lines[0].EventID)
	assert.Equal(t, ticket.EventID(), *r.Lines[0].EventID)
}

func TestMockGateway(t *testing.T) {
	txn, err := MockGateway{}.Charge(t.Context(), uuid.New(), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Regexp(t, `^TXN_\d+_[A-Z0-9]{8}$`, txn)
}

func TestDiscardRepository(t *testing.T) {
	repo := NewRepository(nil)
	require.NoError(t, repo.SaveReceipt(t.Context(), &Receipt{}))
	_, err := repo.GetByReference(t.Context(), "BM-X")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
