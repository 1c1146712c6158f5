package events

import (
	"testing"
	"time"

	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"
	"boletamaster/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicy(t *testing.T) *fees.Policy {
	t.Helper()
	policy, err := fees.NewPolicy(decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, policy.SetServiceRate("CONCERT", decimal.RequireFromString("0.10")))
	return policy
}

func newEvent(t *testing.T, name string, date time.Time) *Event {
	t.Helper()
	e, err := NewEvent(Params{
		Name:        name,
		Type:        "concert",
		Date:        date,
		OrganizerID: uuid.New(),
		Policy:      newPolicy(t),
	})
	require.NoError(t, err)
	return e
}

func TestNewEventValidation(t *testing.T) {
	policy := newPolicy(t)
	tests := []struct {
		name   string
		params Params
	}{
		{"missing name", Params{Type: "CONCERT", Policy: policy}},
		{"missing type", Params{Name: "Estereo Picnic", Policy: policy}},
		{"missing policy", Params{Name: "Estereo Picnic", Type: "CONCERT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvent(tt.params)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
		})
	}

	e := newEvent(t, "  Estereo Picnic ", time.Now().Add(time.Hour))
	assert.Equal(t, "Estereo Picnic", e.Name())
	assert.Equal(t, "CONCERT", e.Type())
	assert.Equal(t, StatusActive, e.Status())
	assert.True(t, e.ServiceFeeRate().Equal(decimal.RequireFromString("0.10")))
	assert.True(t, e.IssuanceFee().Equal(decimal.NewFromInt(5)))
}

func TestEventStateMachine(t *testing.T) {
	now := time.Now()

	t.Run("organizer cancellation keeps the reason", func(t *testing.T) {
		e := newEvent(t, "Rock al Parque", now.Add(time.Hour))
		require.True(t, e.IsOnSale(now))
		require.NoError(t, e.CancelByOrganizer("weather"))
		assert.Equal(t, StatusCancelled, e.Status())
		assert.True(t, e.Status().IsCancelled())
		assert.False(t, e.IsOnSale(now))
	})

	t.Run("admin cancellation", func(t *testing.T) {
		e := newEvent(t, "Rock al Parque", now.Add(time.Hour))
		require.NoError(t, e.CancelByAdmin())
		assert.Equal(t, StatusCancelledByAdmin, e.Status())
	})

	t.Run("finished events cannot be cancelled", func(t *testing.T) {
		e := newEvent(t, "Rock al Parque", now.Add(time.Hour))
		e.Finish()
		assert.True(t, apperr.IsKind(e.CancelByAdmin(), apperr.KindInvalidState))
		assert.Equal(t, StatusFinished, e.Status())
	})

	t.Run("past events are not on sale", func(t *testing.T) {
		e := newEvent(t, "Rock al Parque", now.Add(-time.Hour))
		assert.False(t, e.IsOnSale(now))
	})
}

func TestCreateSection(t *testing.T) {
	e := newEvent(t, "Festival Vallenato", time.Now().Add(time.Hour))

	vip, err := e.CreateSection(inventory.SectionSpec{Name: "VIP", Numbered: true, Capacity: 10, BasePrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = e.CreateSection(inventory.SectionSpec{Name: "General", Capacity: 50, BasePrice: decimal.NewFromInt(40)})
	require.NoError(t, err)

	_, err = e.CreateSection(inventory.SectionSpec{Name: "vip", Capacity: 5})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	found, ok := e.FindSection(" Vip ")
	require.True(t, ok)
	assert.Equal(t, vip.ID(), found.ID())
	_, ok = e.SectionByID(uuid.New())
	assert.False(t, ok)

	require.NoError(t, vip.Reserve(3))
	assert.Equal(t, 60, e.TotalCapacity())
	assert.Equal(t, 1, e.TicketsSold())
	assert.True(t, e.Revenue().Equal(decimal.NewFromInt(100)))
}

func TestPriceForUsesDeepestActiveDiscount(t *testing.T) {
	now := time.Now()
	e := newEvent(t, "Opera Carmen", now.Add(24*time.Hour))
	platea, err := e.CreateSection(inventory.SectionSpec{Name: "Platea", Capacity: 10, BasePrice: decimal.NewFromInt(200)})
	require.NoError(t, err)

	price, err := e.PriceFor(platea, now)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(200)))

	_, err = e.CreateDiscount(decimal.NewFromInt(10), now.Add(-time.Hour), now.Add(time.Hour), platea.ID())
	require.NoError(t, err)
	_, err = e.CreateDiscount(decimal.NewFromInt(25), now.Add(-time.Hour), now.Add(time.Hour), platea.ID())
	require.NoError(t, err)
	_, err = e.CreateDiscount(decimal.NewFromInt(50), now.Add(time.Hour), now.Add(2*time.Hour), platea.ID())
	require.NoError(t, err)

	price, err = e.PriceFor(platea, now)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(150)), price.String())
	assert.Len(t, e.ActiveDiscounts(now), 2)

	t.Run("rejects unknown section", func(t *testing.T) {
		_, err := e.CreateDiscount(decimal.NewFromInt(5), now, now.Add(time.Hour), uuid.New())
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})
	t.Run("rejects out of range percent", func(t *testing.T) {
		_, err := NewDiscount(decimal.NewFromInt(101), now, now.Add(time.Hour), platea.ID())
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})
	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := NewDiscount(decimal.NewFromInt(5), now, now.Add(-time.Hour), platea.ID())
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})
}

func TestServiceListAndCancel(t *testing.T) {
	ctx := t.Context()
	svc := NewService(NewRepository(), cache.NewService(nil))

	later := newEvent(t, "Later", time.Now().Add(48*time.Hour))
	sooner := newEvent(t, "Sooner", time.Now().Add(24*time.Hour))
	require.NoError(t, svc.Register(ctx, later))
	require.NoError(t, svc.Register(ctx, sooner))

	all, err := svc.ListEvents(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Sooner", all[0].Name)

	cancelled, err := svc.Cancel(ctx, later.ID(), true, "")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelledByAdmin, cancelled.Status())

	active, err := svc.ListEvents(ctx, StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, sooner.ID(), active[0].ID)

	mine, err := svc.ListByOrganizer(ctx, sooner.OrganizerID())
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.GetEvent(ctx, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestServiceAvailability(t *testing.T) {
	ctx := t.Context()
	svc := NewService(NewRepository(), cache.NewService(nil))
	e := newEvent(t, "Clasico", time.Now().Add(time.Hour))
	section, err := e.CreateSection(inventory.SectionSpec{Name: "Norte", Capacity: 3, BasePrice: decimal.NewFromInt(30)})
	require.NoError(t, err)
	require.NoError(t, svc.Register(ctx, e))
	require.NoError(t, section.Reserve(0))

	avail, err := svc.GetAvailability(ctx, e.ID())
	require.NoError(t, err)
	assert.Equal(t, e.ID(), avail.EventID)
	require.Len(t, avail.Sections, 1)

	_, err = svc.GetAvailability(ctx, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
