package clients

import (
	"strings"
	"time"

	"boletamaster/internal/events"
	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var now = time.Now

// claims tracks seats already requested within one precompute so a product cannot ask for the same place twice.
type claims map[uuid.UUID]*sectionClaim

type sectionClaim struct {
	seats   map[int]bool
	general int
}

func (cl claims) check(op string, section *inventory.Section, seat int) error {
	claim, ok := cl[section.ID()]
	if !ok {
		claim = &sectionClaim{seats: make(map[int]bool)}
		cl[section.ID()] = claim
	}

	if section.Numbered() {
		if seat < 1 || seat > section.Capacity() {
			return apperr.InvalidArgument(op, "seat %d is outside 1..%d in section %q", seat, section.Capacity(), section.Name())
		}
		if claim.seats[seat] {
			return apperr.InvalidArgument(op, "seat %d requested twice", seat)
		}
		free, err := section.SeatAvailable(seat)
		if err != nil {
			return err
		}
		if !free {
			return apperr.InvalidArgument(op, "seat %d in section %q is taken", seat, section.Name())
		}
		claim.seats[seat] = true
		return nil
	}

	if seat != tickets.Unnumbered {
		return apperr.InvalidArgument(op, "section %q is general admission, no seat can be chosen", section.Name())
	}
	if section.Available() <= claim.general {
		return apperr.InvalidArgument(op, "section %q has no capacity left", section.Name())
	}
	claim.general++
	return nil
}

func checkOnSale(op string, event *events.Event, section *inventory.Section) error {
	if event == nil || section == nil {
		return apperr.InvalidArgument(op, "event and section are required")
	}
	if section.EventID() != event.ID() {
		return apperr.InvalidArgument(op, "section %q does not belong to event %q", section.Name(), event.Name())
	}
	if !event.IsOnSale(now()) {
		return apperr.InvalidArgument(op, "event %q is not on sale", event.Name())
	}
	return nil
}

// PrecomputePrice prices an unattached ticket at the section's base price. It reserves nothing.
func (c *Client) PrecomputePrice(event *events.Event, section *inventory.Section, seat int) (*tickets.Ticket, error) {
	if section == nil {
		return nil, apperr.InvalidArgument("clients.PrecomputePrice", "section is required")
	}
	return tickets.NewTicket(section.BasePrice(), event, section, c.id, seat)
}

// PrecomputeIndividual validates one admission and prices it with any active discount.
func (c *Client) PrecomputeIndividual(event *events.Event, section *inventory.Section, seat int) (*tickets.Ticket, error) {
	const op = "clients.PrecomputeIndividual"
	if err := checkOnSale(op, event, section); err != nil {
		return nil, err
	}
	if err := make(claims).check(op, section, seat); err != nil {
		return nil, err
	}
	price, err := event.PriceFor(section, now())
	if err != nil {
		return nil, err
	}
	return tickets.NewTicket(price, event, section, c.id, seat)
}

// PrecomputeMultiple validates quantity places in one section. Seats are ignored for general admission.
func (c *Client) PrecomputeMultiple(event *events.Event, section *inventory.Section, quantity int, seats []int) (*tickets.Multiple, error) {
	const op = "clients.PrecomputeMultiple"
	if err := checkOnSale(op, event, section); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperr.InvalidArgument(op, "quantity must be positive")
	}

	wanted := make([]int, quantity)
	if section.Numbered() {
		if len(seats) != quantity {
			return nil, apperr.InvalidArgument(op, "expected %d seats, got %d", quantity, len(seats))
		}
		copy(wanted, seats)
	} else {
		for i := range wanted {
			wanted[i] = tickets.Unnumbered
		}
	}

	cl := make(claims)
	for _, seat := range wanted {
		if err := cl.check(op, section, seat); err != nil {
			return nil, err
		}
	}

	unit := section.BundleUnitPrice()
	members := make([]*tickets.Ticket, 0, quantity)
	for _, seat := range wanted {
		t, err := tickets.NewTicket(unit, event, section, c.id, seat)
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	price := unit.Mul(decimal.NewFromInt(int64(quantity)))
	return tickets.NewMultiple(price, c.id, members, event.IssuanceFee())
}

// PrecomputeSeasonPass validates one admission per event. The price is the sum of the season unit prices.
func (c *Client) PrecomputeSeasonPass(evs []*events.Event, sections []*inventory.Section, seats []int) (*tickets.SeasonPass, error) {
	members, ids, price, err := c.series("clients.PrecomputeSeasonPass", evs, sections, seats,
		(*inventory.Section).SeasonPassUnitPrice)
	if err != nil {
		return nil, err
	}
	return tickets.NewSeasonPass(price, c.id, members, evs[0].IssuanceFee(), ids)
}

// PrecomputeDeluxe is PrecomputeSeasonPass at deluxe unit prices plus a benefits description.
func (c *Client) PrecomputeDeluxe(evs []*events.Event, sections []*inventory.Section, seats []int, benefits string) (*tickets.Deluxe, error) {
	const op = "clients.PrecomputeDeluxe"
	if strings.TrimSpace(benefits) == "" {
		return nil, apperr.InvalidArgument(op, "deluxe benefits are required")
	}
	members, ids, price, err := c.series(op, evs, sections, seats, (*inventory.Section).DeluxeUnitPrice)
	if err != nil {
		return nil, err
	}
	return tickets.NewDeluxe(price, c.id, members, evs[0].IssuanceFee(), ids, benefits)
}

func (c *Client) series(op string, evs []*events.Event, sections []*inventory.Section, seats []int,
	unitPrice func(*inventory.Section) decimal.Decimal) ([]*tickets.Ticket, []uuid.UUID, decimal.Decimal, error) {

	if len(evs) == 0 || len(evs) != len(sections) || len(evs) != len(seats) {
		return nil, nil, decimal.Zero, apperr.InvalidArgument(op, "events, sections and seats must be non-empty and of equal length")
	}

	cl := make(claims)
	for i := range evs {
		if err := checkOnSale(op, evs[i], sections[i]); err != nil {
			return nil, nil, decimal.Zero, err
		}
		if err := cl.check(op, sections[i], seats[i]); err != nil {
			return nil, nil, decimal.Zero, err
		}
	}

	total := decimal.Zero
	members := make([]*tickets.Ticket, 0, len(evs))
	ids := make([]uuid.UUID, 0, len(evs))
	for i := range evs {
		unit := unitPrice(sections[i])
		t, err := tickets.NewTicket(unit, evs[i], sections[i], c.id, seats[i])
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		members = append(members, t)
		ids = append(ids, evs[i].ID())
		total = total.Add(unit)
	}
	return members, ids, total, nil
}
