package organizers

import (
	"strings"
	"sync"
	"time"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Organizer owns events and keeps the financial reports generated for them.
type Organizer struct {
	mu sync.Mutex

	id           uuid.UUID
	name         string
	organization string
	eventIDs     []uuid.UUID
	reports      []FinancialReport
	createdAt    time.Time
}

func NewOrganizer(id uuid.UUID, name, organization string) (*Organizer, error) {
	const op = "organizers.NewOrganizer"
	if id == uuid.Nil {
		return nil, apperr.InvalidArgument(op, "organizer id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidArgument(op, "organizer name is required")
	}
	return &Organizer{
		id:           id,
		name:         strings.TrimSpace(name),
		organization: strings.TrimSpace(organization),
		createdAt:    time.Now().UTC(),
	}, nil
}

func (o *Organizer) ID() uuid.UUID        { return o.id }
func (o *Organizer) Name() string         { return o.name }
func (o *Organizer) Organization() string { return o.organization }

func (o *Organizer) Owns(eventID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range o.eventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

func (o *Organizer) EventIDs() []uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]uuid.UUID(nil), o.eventIDs...)
}

func (o *Organizer) addEvent(id uuid.UUID) {
	o.mu.Lock()
	o.eventIDs = append(o.eventIDs, id)
	o.mu.Unlock()
}

func (o *Organizer) addReport(r FinancialReport) {
	o.mu.Lock()
	o.reports = append(o.reports, r)
	o.mu.Unlock()
}

// Reports returns every report generated so far, oldest first.
func (o *Organizer) Reports() []FinancialReport {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]FinancialReport(nil), o.reports...)
}

// FinancialReport is a point-in-time view of one event's sales.
type FinancialReport struct {
	ID               uuid.UUID       `json:"id"`
	EventID          uuid.UUID       `json:"event_id"`
	EventName        string          `json:"event_name"`
	GeneratedAt      time.Time       `json:"generated_at"`
	TicketsSold      int             `json:"tickets_sold"`
	Capacity         int             `json:"capacity"`
	OccupancyPercent float64         `json:"occupancy_percent"`
	Revenue          decimal.Decimal `json:"revenue"`
}

type Snapshot struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Organization string      `json:"organization,omitempty"`
	EventIDs     []uuid.UUID `json:"event_ids"`
	Reports      int         `json:"reports"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (o *Organizer) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		ID:           o.id,
		Name:         o.name,
		Organization: o.organization,
		EventIDs:     append([]uuid.UUID{}, o.eventIDs...),
		Reports:      len(o.reports),
		CreatedAt:    o.createdAt,
	}
}
