package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newPolicy(t *testing.T) *fees.Policy {
	t.Helper()
	policy, err := fees.NewPolicy(dec("5"))
	require.NoError(t, err)
	require.NoError(t, policy.SetServiceRate("CONCERT", dec("0.10")))
	return policy
}

func newEvent(t *testing.T, policy *fees.Policy, date time.Time) *events.Event {
	t.Helper()
	event, err := events.NewEvent(events.Params{
		Name:        "Rock al Parque",
		Type:        "CONCERT",
		Date:        date,
		OrganizerID: uuid.New(),
		Policy:      policy,
	})
	require.NoError(t, err)
	return event
}

func addSection(t *testing.T, event *events.Event, name string, numbered bool, capacity int) *inventory.Section {
	t.Helper()
	section, err := event.CreateSection(inventory.SectionSpec{
		Name:                name,
		Numbered:            numbered,
		Capacity:            capacity,
		BasePrice:           dec("100"),
		BundleUnitPrice:     dec("80"),
		SeasonPassUnitPrice: dec("70"),
		DeluxeUnitPrice:     dec("150"),
	})
	require.NoError(t, err)
	return section
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(uuid.New(), "Ana", "ana-"+uuid.NewString()[:8])
	require.NoError(t, err)
	return c
}

type failingGateway struct{}

func (failingGateway) Charge(context.Context, uuid.UUID, decimal.Decimal) (string, error) {
	return "", errors.New("card declined")
}
