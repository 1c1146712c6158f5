package tickets

import (
	"testing"
	"time"

	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// fixture builds a concert with a 10% service rate and a 5.00 issuance fee.
func fixture(t *testing.T) (*events.Event, *inventory.Section) {
	t.Helper()
	policy, err := fees.NewPolicy(dec("5"))
	require.NoError(t, err)
	require.NoError(t, policy.SetServiceRate("concert", dec("0.10")))

	event, err := events.NewEvent(events.Params{
		Name:        "Estereo Picnic",
		Type:        "CONCERT",
		Date:        time.Now().Add(48 * time.Hour),
		OrganizerID: uuid.New(),
		Policy:      policy,
	})
	require.NoError(t, err)

	section, err := event.CreateSection(inventory.SectionSpec{
		Name:      "General",
		Capacity:  100,
		BasePrice: dec("50"),
	})
	require.NoError(t, err)
	return event, section
}

func issue(t *testing.T, owner uuid.UUID) *Ticket {
	t.Helper()
	event, section := fixture(t)
	ticket, err := NewTicket(dec("50"), event, section, owner, Unnumbered)
	require.NoError(t, err)
	return ticket
}

func TestNewTicketPricing(t *testing.T) {
	ticket := issue(t, uuid.New())

	assert.True(t, dec("55").Equal(ticket.ServiceCharge()))
	assert.True(t, dec("5").Equal(ticket.IssuanceFee()))
	assert.True(t, dec("110").Equal(ticket.TotalCost()))
	assert.True(t, ticket.Transferable())
	assert.Equal(t, KindIndividual, ticket.Kind())
}

func TestNewTicketValidation(t *testing.T) {
	event, section := fixture(t)

	_, err := NewTicket(dec("1"), nil, section, uuid.New(), 1)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = NewTicket(dec("-1"), event, section, uuid.New(), 1)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = NewTicket(dec("1"), event, section, uuid.New(), 0)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestTicketStateMachine(t *testing.T) {
	t.Run("use then refund", func(t *testing.T) {
		ticket := issue(t, uuid.New())
		require.NoError(t, ticket.Use())
		assert.True(t, apperr.IsKind(ticket.Use(), apperr.KindInvalidState))
		assert.True(t, apperr.IsKind(ticket.Refund(), apperr.KindInvalidState))
		assert.False(t, ticket.IsRefunded())
	})

	t.Run("refund then use", func(t *testing.T) {
		ticket := issue(t, uuid.New())
		require.NoError(t, ticket.Refund())
		assert.True(t, apperr.IsKind(ticket.Refund(), apperr.KindInvalidState))
		assert.True(t, apperr.IsKind(ticket.Use(), apperr.KindInvalidState))
		assert.False(t, ticket.IsUsed())
	})

	t.Run("refund only for the current owner", func(t *testing.T) {
		owner, buyer := uuid.New(), uuid.New()
		ticket := issue(t, owner)
		ticket.Reassign(buyer)
		assert.True(t, apperr.IsKind(ticket.RefundFor(owner), apperr.KindInvalidState))
		assert.False(t, ticket.IsRefunded())
		require.NoError(t, ticket.RefundFor(buyer))
		assert.True(t, ticket.IsRefunded())
	})

	t.Run("print once", func(t *testing.T) {
		ticket := issue(t, uuid.New())
		require.NoError(t, ticket.RegisterPrint())
		assert.True(t, apperr.IsKind(ticket.RegisterPrint(), apperr.KindInvalidState))
		assert.True(t, ticket.Snapshot().Printed)
	})
}

func TestTicketTransfer(t *testing.T) {
	owner, dest := uuid.New(), uuid.New()
	ticket := issue(t, owner)

	ok, err := ticket.Transfer(uuid.Nil, true)
	assert.False(t, ok)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	ok, err = ticket.Transfer(dest, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, owner, ticket.OwnerID())

	ok, err = ticket.Transfer(dest, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, dest, ticket.OwnerID())

	ticket.SetTransferable(false)
	_, err = ticket.Transfer(owner, true)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestTicketSetters(t *testing.T) {
	ticket := issue(t, uuid.New())
	assert.True(t, apperr.IsKind(ticket.SetPrice(dec("-1")), apperr.KindInvalidArgument))
	require.NoError(t, ticket.SetPrice(dec("10")))
	require.NoError(t, ticket.SetServiceCharge(dec("11")))
	require.NoError(t, ticket.SetIssuanceFee(dec("0")))
	assert.True(t, dec("21").Equal(ticket.TotalCost()))
}
