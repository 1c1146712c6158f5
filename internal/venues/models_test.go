package venues

import (
	"testing"

	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(t *testing.T, eventID uuid.UUID, name string, capacity int) *inventory.Section {
	t.Helper()
	s, err := inventory.NewSection(eventID, inventory.SectionSpec{Name: name, Capacity: capacity})
	require.NoError(t, err)
	return s
}

func TestNewVenueValidation(t *testing.T) {
	_, err := NewVenue("", "Bogota", 10)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	_, err = NewVenue("Movistar Arena", "Bogota", 0)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	v, err := NewVenue("Movistar Arena", "Bogota", 10)
	require.NoError(t, err)
	assert.False(t, v.Approved())
}

func TestAddSection(t *testing.T) {
	v, err := NewVenue("Teatro Colon", "Bogota", 100)
	require.NoError(t, err)
	eventID := uuid.New()

	platea := section(t, eventID, "Platea", 60)
	require.NoError(t, v.AddSection(platea))

	t.Run("nil", func(t *testing.T) {
		assert.True(t, apperr.IsKind(v.AddSection(nil), apperr.KindInvalidArgument))
	})
	t.Run("same section twice", func(t *testing.T) {
		assert.True(t, apperr.IsKind(v.AddSection(platea), apperr.KindInvalidArgument))
	})
	t.Run("duplicate name ignores case", func(t *testing.T) {
		assert.True(t, apperr.IsKind(v.AddSection(section(t, eventID, "PLATEA", 1)), apperr.KindInvalidArgument))
	})
	t.Run("capacity overflow", func(t *testing.T) {
		assert.True(t, apperr.IsKind(v.AddSection(section(t, eventID, "Palco", 41)), apperr.KindInvalidArgument))
	})
	t.Run("other event has its own budget", func(t *testing.T) {
		require.NoError(t, v.AddSection(section(t, uuid.New(), "Platea", 100)))
	})

	assert.Equal(t, 160, v.TotalCapacity())

	v.RemoveSection(platea.ID())
	assert.Len(t, v.Sections(), 1)
}

func TestApproval(t *testing.T) {
	v, err := NewVenue("Coliseo", "Medellin", 5)
	require.NoError(t, err)

	v.Approve()
	assert.True(t, v.Snapshot().Approved)
	v.Disapprove()
	assert.False(t, v.Approved())
}
