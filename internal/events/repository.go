package events

import (
	"context"
	"sort"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, status Status) ([]*Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*Event, error)
}

type repository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*Event
}

// NewRepository returns the in-process event registry.
func NewRepository() Repository {
	return &repository{events: make(map[uuid.UUID]*Event)}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if event == nil {
		return apperr.InvalidArgument("events.Create", "event is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID()] = event
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, apperr.NotFound("events.GetByID", "event %s not found", id)
	}
	return event, nil
}

// List returns events ordered by date; an empty status matches all.
func (r *repository) List(ctx context.Context, status Status) ([]*Event, error) {
	return r.filter(func(e *Event) bool {
		return status == "" || e.Status() == status
	}), nil
}

func (r *repository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*Event, error) {
	return r.filter(func(e *Event) bool {
		return e.OrganizerID() == organizerID
	}), nil
}

func (r *repository) filter(keep func(*Event) bool) []*Event {
	r.mu.RLock()
	out := make([]*Event, 0, len(r.events))
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date().Before(out[j].Date()) })
	return out
}
