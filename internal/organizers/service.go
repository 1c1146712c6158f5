package organizers

import (
	"context"
	"log/slog"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/events"
	"boletamaster/internal/fees"
	"boletamaster/internal/inventory"
	"boletamaster/internal/journal"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"
	"boletamaster/internal/venues"
	"boletamaster/pkg/logger"
	"boletamaster/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	Register(ctx context.Context, organizer *Organizer) error
	GetOrganizer(ctx context.Context, id uuid.UUID) (*Organizer, error)
	ListEvents(ctx context.Context, organizerID uuid.UUID) ([]events.EventResponse, error)
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*events.EventResponse, error)
	CancelEvent(ctx context.Context, organizerID, eventID uuid.UUID, reason string) (*events.EventResponse, error)
	CreateSection(ctx context.Context, organizerID, eventID uuid.UUID, spec inventory.SectionSpec) (*inventory.Snapshot, error)
	ModifySectionPrice(ctx context.Context, organizerID, eventID, sectionID uuid.UUID, price decimal.Decimal) (*inventory.Snapshot, error)
	CreateDiscount(ctx context.Context, organizerID, eventID uuid.UUID, req CreateDiscountRequest) (*events.Discount, error)
	GrantCourtesy(ctx context.Context, organizerID, eventID uuid.UUID, req CourtesyRequest) (*tickets.Snapshot, error)
	CheckIn(ctx context.Context, organizerID, ticketID uuid.UUID) (*tickets.Snapshot, error)
	FinancialReport(ctx context.Context, organizerID, eventID uuid.UUID) (*FinancialReport, error)
	Reports(ctx context.Context, organizerID uuid.UUID) ([]FinancialReport, error)
}

type Deps struct {
	Repo      Repository
	Events    events.Service
	Venues    venues.Service
	Policy    *fees.Policy
	Tickets   tickets.Repository
	Clients   clients.Repository
	Publisher journal.Publisher
}

type service struct {
	repo      Repository
	events    events.Service
	venues    venues.Service
	policy    *fees.Policy
	tickets   tickets.Repository
	clients   clients.Repository
	publisher journal.Publisher
	now       func() time.Time
}

func NewService(deps Deps) Service {
	if deps.Publisher == nil {
		deps.Publisher = journal.NoopPublisher{}
	}
	return &service{
		repo:      deps.Repo,
		events:    deps.Events,
		venues:    deps.Venues,
		policy:    deps.Policy,
		tickets:   deps.Tickets,
		clients:   deps.Clients,
		publisher: deps.Publisher,
		now:       time.Now,
	}
}

func (s *service) Register(ctx context.Context, organizer *Organizer) error {
	if err := s.repo.Create(ctx, organizer); err != nil {
		return err
	}
	logger.GetDefault().InfoContext(ctx, "Organizer Registered",
		slog.String("organizer_id", organizer.ID().String()),
		slog.String("organization", organizer.Organization()),
	)
	return nil
}

func (s *service) GetOrganizer(ctx context.Context, id uuid.UUID) (*Organizer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListEvents(ctx context.Context, organizerID uuid.UUID) ([]events.EventResponse, error) {
	list, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	out := make([]events.EventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, e.ToResponse())
	}
	return out, nil
}

// CreateEvent schedules an event at an approved venue on a future date.
func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*events.EventResponse, error) {
	const op = "organizers.CreateEvent"
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	venue, err := s.venues.GetVenue(ctx, req.VenueID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.InvalidArgument(op, "venue %s does not exist", req.VenueID)
		}
		return nil, err
	}
	if !venue.Approved() {
		return nil, apperr.InvalidArgument(op, "venue %q is not approved", venue.Name())
	}
	if !req.Date.After(s.now()) {
		return nil, apperr.InvalidArgument(op, "event date must be in the future")
	}

	event, err := events.NewEvent(events.Params{
		Name:        req.Name,
		Type:        req.Type,
		Date:        req.Date,
		OrganizerID: organizer.ID(),
		Venue:       venue,
		Policy:      s.policy,
	})
	if err != nil {
		return nil, err
	}
	if err := s.events.Register(ctx, event); err != nil {
		return nil, err
	}
	organizer.addEvent(event.ID())

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) CancelEvent(ctx context.Context, organizerID, eventID uuid.UUID, reason string) (*events.EventResponse, error) {
	if _, err := s.ownedEvent(ctx, "organizers.CancelEvent", organizerID, eventID); err != nil {
		return nil, err
	}
	event, err := s.events.Cancel(ctx, eventID, false, reason)
	if err != nil {
		return nil, err
	}

	journal.Emit(ctx, s.publisher, journal.NewEvent(journal.EventEventCancelled, eventID.String()).
		WithActor(organizerID).
		With("by", "organizer").
		With("reason", reason))

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) CreateSection(ctx context.Context, organizerID, eventID uuid.UUID, spec inventory.SectionSpec) (*inventory.Snapshot, error) {
	event, err := s.ownedEvent(ctx, "organizers.CreateSection", organizerID, eventID)
	if err != nil {
		return nil, err
	}
	section, err := event.CreateSection(spec)
	if err != nil {
		return nil, err
	}
	s.events.InvalidateAvailability(ctx, eventID)

	snap := section.Snapshot()
	return &snap, nil
}

func (s *service) ModifySectionPrice(ctx context.Context, organizerID, eventID, sectionID uuid.UUID, price decimal.Decimal) (*inventory.Snapshot, error) {
	const op = "organizers.ModifySectionPrice"
	event, err := s.ownedEvent(ctx, op, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	section, ok := event.SectionByID(sectionID)
	if !ok {
		return nil, apperr.NotFound(op, "section %s not found in event %s", sectionID, eventID)
	}
	if err := section.SetBasePrice(price); err != nil {
		return nil, err
	}
	s.events.InvalidateAvailability(ctx, eventID)

	logger.GetDefault().InfoContext(ctx, "Section Price Modified",
		slog.String("event_id", eventID.String()),
		slog.String("section_id", sectionID.String()),
		slog.String("price", price.StringFixed(2)),
	)
	snap := section.Snapshot()
	return &snap, nil
}

func (s *service) CreateDiscount(ctx context.Context, organizerID, eventID uuid.UUID, req CreateDiscountRequest) (*events.Discount, error) {
	event, err := s.ownedEvent(ctx, "organizers.CreateDiscount", organizerID, eventID)
	if err != nil {
		return nil, err
	}
	discount, err := event.CreateDiscount(req.Percent, req.StartsAt, req.EndsAt, req.SectionID)
	if err != nil {
		return nil, err
	}
	s.events.InvalidateAvailability(ctx, eventID)
	return &discount, nil
}

// GrantCourtesy issues a free, non-transferable ticket to a client, taking one place from the section.
func (s *service) GrantCourtesy(ctx context.Context, organizerID, eventID uuid.UUID, req CourtesyRequest) (*tickets.Snapshot, error) {
	const op = "organizers.GrantCourtesy"
	event, err := s.ownedEvent(ctx, op, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOnSale(s.now()) {
		return nil, apperr.InvalidState(op, "event %q is not open for tickets", event.Name())
	}
	section, ok := event.SectionByID(req.SectionID)
	if !ok {
		return nil, apperr.NotFound(op, "section %s not found in event %s", req.SectionID, eventID)
	}
	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	seat := tickets.Unnumbered
	if req.Seat != nil && section.Numbered() {
		seat = *req.Seat
	}
	if err := section.Reserve(seat); err != nil {
		return nil, err
	}

	// Nothing was paid, so a refund must credit nothing.
	ticket, err := tickets.NewTicket(decimal.Zero, event, section, client.ID(), seat)
	if err == nil {
		ticket.SetTransferable(false)
		err = ticket.SetIssuanceFee(decimal.Zero)
	}
	if err == nil {
		err = s.tickets.SaveTicket(ctx, ticket)
	}
	if err != nil {
		if releaseErr := section.Release(seat); releaseErr != nil {
			logger.GetDefault().ErrorContext(ctx, "Failed to release courtesy seat",
				slog.String("section_id", section.ID().String()),
				slog.String("error", releaseErr.Error()),
			)
		}
		return nil, err
	}

	metrics.TrackSeatsReserved(eventID.String(), 1)
	s.events.InvalidateAvailability(ctx, eventID)
	logger.GetDefault().InfoContext(ctx, "Courtesy Ticket Granted",
		slog.String("event_id", eventID.String()),
		slog.String("ticket_id", ticket.ID().String()),
		slog.String("client_id", client.ID().String()),
	)

	snap := ticket.Snapshot()
	return &snap, nil
}

// CheckIn marks a ticket for one of the organizer's events as used at the door.
func (s *service) CheckIn(ctx context.Context, organizerID, ticketID uuid.UUID) (*tickets.Snapshot, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.OrganizerID() != organizerID {
		return nil, apperr.InvalidArgument("organizers.CheckIn", "ticket %s is not for one of your events", ticketID)
	}
	if err := ticket.Use(); err != nil {
		return nil, err
	}

	logger.GetDefault().InfoContext(ctx, "Ticket Checked In",
		slog.String("ticket_id", ticketID.String()),
		slog.String("event_id", ticket.EventID().String()),
	)
	snap := ticket.Snapshot()
	return &snap, nil
}

// FinancialReport builds a sales report for one event and keeps it in the organizer's history.
func (s *service) FinancialReport(ctx context.Context, organizerID, eventID uuid.UUID) (*FinancialReport, error) {
	event, err := s.ownedEvent(ctx, "organizers.FinancialReport", organizerID, eventID)
	if err != nil {
		return nil, err
	}
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	sold, capacity := event.TicketsSold(), event.TotalCapacity()
	report := FinancialReport{
		ID:          uuid.New(),
		EventID:     eventID,
		EventName:   event.Name(),
		GeneratedAt: s.now().UTC(),
		TicketsSold: sold,
		Capacity:    capacity,
		Revenue:     event.Revenue(),
	}
	if capacity > 0 {
		report.OccupancyPercent = float64(sold) * 100 / float64(capacity)
	}
	organizer.addReport(report)
	return &report, nil
}

func (s *service) Reports(ctx context.Context, organizerID uuid.UUID) ([]FinancialReport, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	return organizer.Reports(), nil
}

func (s *service) ownedEvent(ctx context.Context, op string, organizerID, eventID uuid.UUID) (*events.Event, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID() != organizerID {
		return nil, apperr.InvalidArgument(op, "event %s does not belong to organizer %s", eventID, organizerID)
	}
	return event, nil
}
