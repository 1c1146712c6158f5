package inventory

import (
	"sort"
	"strings"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SectionSpec carries what an organizer provides when opening a section.
type SectionSpec struct {
	Name                string          `json:"name" binding:"required"`
	Numbered            bool            `json:"numbered"`
	Capacity            int             `json:"capacity" binding:"required,gt=0"`
	BasePrice           decimal.Decimal `json:"base_price" binding:"gte=0"`
	BundleUnitPrice     decimal.Decimal `json:"bundle_unit_price" binding:"gte=0"`
	SeasonPassUnitPrice decimal.Decimal `json:"season_pass_unit_price" binding:"gte=0"`
	DeluxeUnitPrice     decimal.Decimal `json:"deluxe_unit_price" binding:"gte=0"`
}

// Section is a priced seating or capacity block of one event.
// For numbered sections every sold place is a seat number in [1, capacity].
type Section struct {
	mu sync.Mutex

	id                  uuid.UUID
	eventID             uuid.UUID
	name                string
	numbered            bool
	capacity            int
	basePrice           decimal.Decimal
	bundleUnitPrice     decimal.Decimal
	seasonPassUnitPrice decimal.Decimal
	deluxeUnitPrice     decimal.Decimal

	seatsSold int
	occupied  map[int]struct{}
}

// NewSection validates spec and returns an empty section bound to eventID.
func NewSection(eventID uuid.UUID, spec SectionSpec) (*Section, error) {
	const op = "inventory.NewSection"

	if strings.TrimSpace(spec.Name) == "" {
		return nil, apperr.InvalidArgument(op, "section name is required")
	}
	if spec.Capacity <= 0 {
		return nil, apperr.InvalidArgument(op, "capacity must be positive")
	}
	for label, price := range map[string]decimal.Decimal{
		"base price":             spec.BasePrice,
		"bundle unit price":      spec.BundleUnitPrice,
		"season pass unit price": spec.SeasonPassUnitPrice,
		"deluxe unit price":      spec.DeluxeUnitPrice,
	} {
		if price.IsNegative() {
			return nil, apperr.InvalidArgument(op, "%s cannot be negative", label)
		}
	}

	return &Section{
		id:                  uuid.New(),
		eventID:             eventID,
		name:                strings.TrimSpace(spec.Name),
		numbered:            spec.Numbered,
		capacity:            spec.Capacity,
		basePrice:           spec.BasePrice,
		bundleUnitPrice:     spec.BundleUnitPrice,
		seasonPassUnitPrice: spec.SeasonPassUnitPrice,
		deluxeUnitPrice:     spec.DeluxeUnitPrice,
		occupied:            make(map[int]struct{}),
	}, nil
}

func (s *Section) ID() uuid.UUID      { return s.id }
func (s *Section) EventID() uuid.UUID { return s.eventID }
func (s *Section) Name() string       { return s.name }
func (s *Section) Numbered() bool     { return s.numbered }
func (s *Section) Capacity() int      { return s.capacity }

func (s *Section) BasePrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basePrice
}

func (s *Section) BundleUnitPrice() decimal.Decimal     { return s.bundleUnitPrice }
func (s *Section) SeasonPassUnitPrice() decimal.Decimal { return s.seasonPassUnitPrice }
func (s *Section) DeluxeUnitPrice() decimal.Decimal     { return s.deluxeUnitPrice }

// SetBasePrice changes the price of future sales. Tickets already issued keep their frozen price.
func (s *Section) SetBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperr.InvalidArgument("inventory.SetBasePrice", "base price cannot be negative")
	}
	s.mu.Lock()
	s.basePrice = price
	s.mu.Unlock()
	return nil
}

func (s *Section) SeatsSold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatsSold
}

// Available is the number of places still for sale.
func (s *Section) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity - s.seatsSold
}

func (s *Section) HasAvailability() bool {
	return s.Available() > 0
}

// SeatAvailable reports whether seat n exists and is free. Out-of-range seats are never available.
func (s *Section) SeatAvailable(n int) (bool, error) {
	if !s.numbered {
		return false, apperr.InvalidState("inventory.SeatAvailable", "section %q is not numbered", s.name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > s.capacity {
		return false, nil
	}
	_, taken := s.occupied[n]
	return !taken, nil
}

// ReserveSeat marks seat n as sold. Check and commit happen under one lock.
func (s *Section) ReserveSeat(n int) error {
	const op = "inventory.ReserveSeat"

	if !s.numbered {
		return apperr.InvalidState(op, "section %q is not numbered", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > s.capacity {
		return apperr.InvalidArgument(op, "seat %d is outside 1..%d", n, s.capacity)
	}
	if _, taken := s.occupied[n]; taken {
		return apperr.InvalidState(op, "seat %d is already occupied", n)
	}
	if s.seatsSold >= s.capacity {
		return apperr.InvalidState(op, "section %q is sold out", s.name)
	}

	s.occupied[n] = struct{}{}
	s.seatsSold++
	return nil
}

// ReserveGeneral takes one place of an unnumbered section.
func (s *Section) ReserveGeneral() error {
	const op = "inventory.ReserveGeneral"

	if s.numbered {
		return apperr.InvalidState(op, "section %q is numbered", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seatsSold >= s.capacity {
		return apperr.InvalidState(op, "section %q is sold out", s.name)
	}
	s.seatsSold++
	return nil
}

// Reserve dispatches on the section kind: seat -1 means general admission.
func (s *Section) Reserve(seat int) error {
	if s.numbered {
		return s.ReserveSeat(seat)
	}
	return s.ReserveGeneral()
}

// ReleaseSeat frees seat n. Releasing a seat that is not occupied changes nothing.
func (s *Section) ReleaseSeat(n int) error {
	if !s.numbered {
		return apperr.InvalidState("inventory.ReleaseSeat", "section %q is not numbered", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.occupied[n]; !taken {
		return nil
	}
	delete(s.occupied, n)
	s.seatsSold--
	return nil
}

// ReleaseGeneral returns one place to an unnumbered section.
func (s *Section) ReleaseGeneral() error {
	const op = "inventory.ReleaseGeneral"

	if s.numbered {
		return apperr.InvalidState(op, "section %q is numbered", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seatsSold <= 0 {
		return apperr.InvalidState(op, "section %q has no reservations", s.name)
	}
	s.seatsSold--
	return nil
}

// Release is the inverse of Reserve.
func (s *Section) Release(seat int) error {
	if s.numbered {
		return s.ReleaseSeat(seat)
	}
	return s.ReleaseGeneral()
}

// OccupancyPercent is 100 * sold / capacity, or 0 for an empty section.
func (s *Section) OccupancyPercent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity == 0 {
		return 0
	}
	return float64(s.seatsSold) * 100 / float64(s.capacity)
}

// Revenue is seats sold at the current base price.
func (s *Section) Revenue() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basePrice.Mul(decimal.NewFromInt(int64(s.seatsSold)))
}

// OccupiedSeats returns the sold seat numbers in ascending order.
func (s *Section) OccupiedSeats() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupiedLocked()
}

func (s *Section) occupiedLocked() []int {
	seats := make([]int, 0, len(s.occupied))
	for n := range s.occupied {
		seats = append(seats, n)
	}
	sort.Ints(seats)
	return seats
}

// Snapshot is a read-only copy of a section for rendering and persistence.
type Snapshot struct {
	ID                  uuid.UUID       `json:"id"`
	EventID             uuid.UUID       `json:"event_id"`
	Name                string          `json:"name"`
	Numbered            bool            `json:"numbered"`
	Capacity            int             `json:"capacity"`
	BasePrice           decimal.Decimal `json:"base_price"`
	BundleUnitPrice     decimal.Decimal `json:"bundle_unit_price"`
	SeasonPassUnitPrice decimal.Decimal `json:"season_pass_unit_price"`
	DeluxeUnitPrice     decimal.Decimal `json:"deluxe_unit_price"`
	SeatsSold           int             `json:"seats_sold"`
	Available           int             `json:"available"`
	OccupiedSeats       []int           `json:"occupied_seats,omitempty"`
	OccupancyPercent    float64         `json:"occupancy_percent"`
}

func (s *Section) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var occupancy float64
	if s.capacity > 0 {
		occupancy = float64(s.seatsSold) * 100 / float64(s.capacity)
	}

	return Snapshot{
		ID:                  s.id,
		EventID:             s.eventID,
		Name:                s.name,
		Numbered:            s.numbered,
		Capacity:            s.capacity,
		BasePrice:           s.basePrice,
		BundleUnitPrice:     s.bundleUnitPrice,
		SeasonPassUnitPrice: s.seasonPassUnitPrice,
		DeluxeUnitPrice:     s.deluxeUnitPrice,
		SeatsSold:           s.seatsSold,
		Available:           s.capacity - s.seatsSold,
		OccupiedSeats:       s.occupiedLocked(),
		OccupancyPercent:    occupancy,
	}
}
