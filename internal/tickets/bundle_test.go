package tickets

import (
	"testing"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueMany(t *testing.T, owner uuid.UUID, n int) []*Ticket {
	t.Helper()
	out := make([]*Ticket, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, issue(t, owner))
	}
	return out
}

func TestBundlePricing(t *testing.T) {
	owner := uuid.New()
	m, err := NewMultiple(dec("100"), owner, issueMany(t, owner, 2), dec("5"))
	require.NoError(t, err)

	assert.Equal(t, KindMultiple, m.Kind())
	assert.Equal(t, 2, m.Quantity())
	assert.True(t, dec("110").Equal(m.ServiceCharge()))
	assert.True(t, dec("10").Equal(m.IssuanceFee()))
	assert.True(t, dec("220").Equal(m.TotalCost()))
	assert.True(t, dec("110").Equal(m.AverageValue()))
}

func TestEmptyBundle(t *testing.T) {
	m, err := NewMultiple(dec("40"), uuid.New(), nil, dec("5"))
	require.NoError(t, err)
	assert.True(t, dec("40").Equal(m.ServiceCharge()))
	assert.True(t, m.IssuanceFee().IsZero())
	assert.True(t, m.AverageValue().IsZero())
}

func TestBundleMembership(t *testing.T) {
	owner := uuid.New()
	m, err := NewMultiple(dec("10"), owner, nil, dec("0"))
	require.NoError(t, err)

	assert.True(t, apperr.IsKind(m.Add(nil), apperr.KindInvalidArgument))
	assert.True(t, apperr.IsKind(m.Add(issue(t, uuid.New())), apperr.KindInvalidArgument))

	ticket := issue(t, owner)
	require.NoError(t, m.Add(ticket))
	assert.True(t, ticket.InBundle())
	assert.True(t, apperr.IsKind(m.Add(ticket), apperr.KindInvalidArgument))

	assert.True(t, m.Remove(ticket.ID()))
	assert.False(t, m.Remove(ticket.ID()))
	assert.False(t, ticket.InBundle())
	assert.Zero(t, m.Count())
}

func TestBundleRejectsForeignTickets(t *testing.T) {
	_, err := NewSeasonPass(dec("10"), uuid.New(), issueMany(t, uuid.New(), 1), dec("1"), nil)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestBundleTransferMovesTickets(t *testing.T) {
	owner, dest := uuid.New(), uuid.New()
	pass, err := NewSeasonPass(dec("90"), owner, issueMany(t, owner, 3), dec("5"), []uuid.UUID{uuid.New()})
	require.NoError(t, err)

	ok, err := pass.Transfer(dest, true)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, dest, pass.OwnerID())
	for _, ticket := range pass.Tickets() {
		assert.Equal(t, dest, ticket.OwnerID())
	}
}

func TestBundleTransferPart(t *testing.T) {
	owner, dest := uuid.New(), uuid.New()
	members := issueMany(t, owner, 3)
	m, err := NewMultiple(dec("30"), owner, members, dec("1"))
	require.NoError(t, err)

	_, err = m.TransferPart([]uuid.UUID{members[0].ID(), uuid.New()}, dest, true)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, owner, members[0].OwnerID())

	moved, err := m.TransferPart([]uuid.UUID{members[0].ID()}, dest, true)
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, dest, moved[0].OwnerID())
	assert.False(t, moved[0].InBundle())
	assert.Equal(t, 2, m.Count())
}

func TestBundleRefundAll(t *testing.T) {
	owner := uuid.New()
	members := issueMany(t, owner, 2)
	require.NoError(t, members[0].Use())

	m, err := NewMultiple(dec("20"), owner, members, dec("1"))
	require.NoError(t, err)
	require.NoError(t, m.RefundAll())

	assert.Equal(t, BundleRefunded, m.Status())
	for _, ticket := range members {
		assert.True(t, ticket.IsRefunded())
	}
	assert.True(t, apperr.IsKind(m.RefundAll(), apperr.KindInvalidState))
}

func TestBundleRefundAllForChecksOwner(t *testing.T) {
	owner, dest := uuid.New(), uuid.New()
	members := issueMany(t, owner, 2)
	m, err := NewMultiple(dec("20"), owner, members, dec("1"))
	require.NoError(t, err)

	ok, err := m.Transfer(dest, true)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, apperr.IsKind(m.RefundAllFor(owner), apperr.KindInvalidState))
	assert.Equal(t, BundleActive, m.Status())
	for _, ticket := range members {
		assert.False(t, ticket.IsRefunded())
	}

	require.NoError(t, m.RefundAllFor(dest))
	assert.Equal(t, BundleRefunded, m.Status())
}

func TestDeluxeIsNeverTransferable(t *testing.T) {
	owner := uuid.New()
	_, err := NewDeluxe(dec("10"), owner, nil, dec("1"), nil, "  ")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	deluxe, err := NewDeluxe(dec("300"), owner, issueMany(t, owner, 2), dec("1"), nil, "Backstage access")
	require.NoError(t, err)

	deluxe.SetTransferable(true)
	assert.False(t, deluxe.Transferable())
	assert.False(t, deluxe.Snapshot().Transferable)

	_, err = deluxe.Transfer(uuid.New(), true)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	assert.Equal(t, owner, deluxe.OwnerID())
}

func TestRepositoryListByOwner(t *testing.T) {
	ctx := t.Context()
	repo := NewRepository()
	owner := uuid.New()

	single := issue(t, owner)
	members := issueMany(t, owner, 2)
	m, err := NewMultiple(dec("10"), owner, members, dec("0"))
	require.NoError(t, err)

	require.NoError(t, repo.SaveTicket(ctx, single))
	require.NoError(t, repo.SaveBundle(ctx, m))

	ts, bs, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, ts, 1)
	assert.Len(t, bs, 1)

	found, err := repo.GetTicket(ctx, members[1].ID())
	require.NoError(t, err)
	assert.Same(t, members[1], found)

	_, err = repo.GetBundle(ctx, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
