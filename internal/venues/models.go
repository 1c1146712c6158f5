package venues

import (
	"strings"
	"sync"
	"time"

	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

// Venue is a physical location. Organizers can only schedule events in approved venues,
// and the sections opened at a venue never add up to more than its capacity.
type Venue struct {
	mu sync.RWMutex

	id        uuid.UUID
	name      string
	location  string
	capacity  int
	approved  bool
	sections  []*inventory.Section
	createdAt time.Time
}

// NewVenue creates an unapproved venue.
func NewVenue(name, location string, capacity int) (*Venue, error) {
	const op = "venues.NewVenue"
	if strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidArgument(op, "venue name is required")
	}
	if capacity <= 0 {
		return nil, apperr.InvalidArgument(op, "capacity must be positive")
	}
	return &Venue{
		id:        uuid.New(),
		name:      strings.TrimSpace(name),
		location:  strings.TrimSpace(location),
		capacity:  capacity,
		createdAt: time.Now().UTC(),
	}, nil
}

func (v *Venue) ID() uuid.UUID    { return v.id }
func (v *Venue) Name() string     { return v.name }
func (v *Venue) Location() string { return v.location }
func (v *Venue) Capacity() int    { return v.capacity }

func (v *Venue) Approved() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.approved
}

func (v *Venue) Approve() {
	v.mu.Lock()
	v.approved = true
	v.mu.Unlock()
}

func (v *Venue) Disapprove() {
	v.mu.Lock()
	v.approved = false
	v.mu.Unlock()
}

// AddSection attaches a section, rejecting duplicates and capacity overflow.
func (v *Venue) AddSection(section *inventory.Section) error {
	const op = "venues.AddSection"
	if section == nil {
		return apperr.InvalidArgument(op, "section is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	total := 0
	for _, existing := range v.sections {
		if existing.ID() == section.ID() {
			return apperr.InvalidArgument(op, "section %s already attached", section.ID())
		}
		if existing.EventID() == section.EventID() && strings.EqualFold(existing.Name(), section.Name()) {
			return apperr.InvalidArgument(op, "section %q already exists", section.Name())
		}
		if existing.EventID() == section.EventID() {
			total += existing.Capacity()
		}
	}
	if total+section.Capacity() > v.capacity {
		return apperr.InvalidArgument(op, "section capacity %d exceeds remaining venue capacity %d",
			section.Capacity(), v.capacity-total)
	}

	v.sections = append(v.sections, section)
	return nil
}

// RemoveSection detaches a section. Unknown IDs are ignored.
func (v *Venue) RemoveSection(id uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.sections {
		if s.ID() == id {
			v.sections = append(v.sections[:i], v.sections[i+1:]...)
			return
		}
	}
}

func (v *Venue) Sections() []*inventory.Section {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*inventory.Section, len(v.sections))
	copy(out, v.sections)
	return out
}

// TotalCapacity sums the capacity of every attached section.
func (v *Venue) TotalCapacity() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	total := 0
	for _, s := range v.sections {
		total += s.Capacity()
	}
	return total
}

// Snapshot is a read-only copy of a venue.
type Snapshot struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	Approved      bool      `json:"approved"`
	SectionCount  int       `json:"section_count"`
	TotalCapacity int       `json:"sections_capacity"`
	CreatedAt     time.Time `json:"created_at"`
}

func (v *Venue) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	total := 0
	for _, s := range v.sections {
		total += s.Capacity()
	}
	return Snapshot{
		ID:            v.id,
		Name:          v.name,
		Location:      v.location,
		Capacity:      v.capacity,
		Approved:      v.approved,
		SectionCount:  len(v.sections),
		TotalCapacity: total,
		CreatedAt:     v.createdAt,
	}
}
