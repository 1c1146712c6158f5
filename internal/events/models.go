package events

import (
	"strings"
	"sync"
	"time"

	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/venues"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event owns its sections and reads service and issuance fees from the administrator's policy.
type Event struct {
	mu sync.RWMutex

	id          uuid.UUID
	name        string
	eventType   string
	date        time.Time
	organizerID uuid.UUID
	venue       *venues.Venue
	policy      *fees.Policy
	status      Status
	cancelNote  string
	sections    []*inventory.Section
	discounts   []Discount
	createdAt   time.Time
}

// Params describes a new event.
type Params struct {
	Name        string
	Type        string
	Date        time.Time
	OrganizerID uuid.UUID
	Venue       *venues.Venue
	Policy      *fees.Policy
}

func NewEvent(p Params) (*Event, error) {
	const op = "events.NewEvent"
	if strings.TrimSpace(p.Name) == "" {
		return nil, apperr.InvalidArgument(op, "event name is required")
	}
	if strings.TrimSpace(p.Type) == "" {
		return nil, apperr.InvalidArgument(op, "event type is required")
	}
	if p.Policy == nil {
		return nil, apperr.InvalidArgument(op, "fee policy is required")
	}
	return &Event{
		id:          uuid.New(),
		name:        strings.TrimSpace(p.Name),
		eventType:   strings.ToUpper(strings.TrimSpace(p.Type)),
		date:        p.Date.UTC(),
		organizerID: p.OrganizerID,
		venue:       p.Venue,
		policy:      p.Policy,
		status:      StatusActive,
		createdAt:   time.Now().UTC(),
	}, nil
}

func (e *Event) ID() uuid.UUID          { return e.id }
func (e *Event) Name() string           { return e.name }
func (e *Event) Type() string           { return e.eventType }
func (e *Event) Date() time.Time        { return e.date }
func (e *Event) OrganizerID() uuid.UUID { return e.organizerID }

func (e *Event) VenueID() uuid.UUID {
	if e.venue == nil {
		return uuid.Nil
	}
	return e.venue.ID()
}

func (e *Event) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// ServiceFeeRate is the administrator's current rate for this event's type.
func (e *Event) ServiceFeeRate() decimal.Decimal {
	return e.policy.ServiceRate(e.eventType)
}

// IssuanceFee is the administrator's current global per-ticket fee.
func (e *Event) IssuanceFee() decimal.Decimal {
	return e.policy.IssuanceFee()
}

// IsOnSale reports whether tickets may be sold at now.
func (e *Event) IsOnSale(now time.Time) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status == StatusActive && e.date.After(now)
}

// CancelByOrganizer moves the event to CANCELLED. Finished events cannot be cancelled.
func (e *Event) CancelByOrganizer(reason string) error {
	return e.cancel(StatusCancelled, reason)
}

// CancelByAdmin moves the event to CANCELLED_BY_ADMIN.
func (e *Event) CancelByAdmin() error {
	return e.cancel(StatusCancelledByAdmin, "")
}

func (e *Event) cancel(to Status, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusFinished {
		return apperr.InvalidState("events.Cancel", "event %q already finished", e.name)
	}
	e.status = to
	e.cancelNote = reason
	return nil
}

func (e *Event) Finish() {
	e.mu.Lock()
	e.status = StatusFinished
	e.mu.Unlock()
}

// CreateSection opens a new section and attaches it to the event's venue.
func (e *Event) CreateSection(spec inventory.SectionSpec) (*inventory.Section, error) {
	section, err := inventory.NewSection(e.id, spec)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.sections {
		if strings.EqualFold(existing.Name(), section.Name()) {
			return nil, apperr.InvalidArgument("events.CreateSection", "section %q already exists", section.Name())
		}
	}
	if e.venue != nil {
		if err := e.venue.AddSection(section); err != nil {
			return nil, err
		}
	}
	e.sections = append(e.sections, section)
	return section, nil
}

// FindSection looks a section up by name, ignoring case.
func (e *Event) FindSection(name string) (*inventory.Section, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.sections {
		if strings.EqualFold(s.Name(), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return nil, false
}

func (e *Event) SectionByID(id uuid.UUID) (*inventory.Section, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.sections {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

func (e *Event) Sections() []*inventory.Section {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*inventory.Section, len(e.sections))
	copy(out, e.sections)
	return out
}

// CreateDiscount registers a discount window on one of the event's sections.
func (e *Event) CreateDiscount(percent decimal.Decimal, startsAt, endsAt time.Time, sectionID uuid.UUID) (Discount, error) {
	if _, ok := e.SectionByID(sectionID); !ok {
		return Discount{}, apperr.InvalidArgument("events.CreateDiscount", "section %s is not part of event %q", sectionID, e.name)
	}
	d, err := NewDiscount(percent, startsAt, endsAt, sectionID)
	if err != nil {
		return Discount{}, err
	}
	e.mu.Lock()
	e.discounts = append(e.discounts, d)
	e.mu.Unlock()
	return d, nil
}

// ActiveDiscounts lists the discounts whose window contains at.
func (e *Event) ActiveDiscounts(at time.Time) []Discount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Discount
	for _, d := range e.discounts {
		if d.ActiveAt(at) {
			out = append(out, d)
		}
	}
	return out
}

func (e *Event) TicketsSold() int {
	total := 0
	for _, s := range e.Sections() {
		total += s.SeatsSold()
	}
	return total
}

func (e *Event) TotalCapacity() int {
	total := 0
	for _, s := range e.Sections() {
		total += s.Capacity()
	}
	return total
}

// Revenue sums each section's sold seats at its base price.
func (e *Event) Revenue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Sections() {
		total = total.Add(s.Revenue())
	}
	return total
}
