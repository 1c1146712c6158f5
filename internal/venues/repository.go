package venues

import (
	"context"
	"sort"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	List(ctx context.Context, approvedOnly bool) ([]*Venue, error)
}

type repository struct {
	mu     sync.RWMutex
	venues map[uuid.UUID]*Venue
}

// NewRepository returns the in-process venue registry.
func NewRepository() Repository {
	return &repository{venues: make(map[uuid.UUID]*Venue)}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	if venue == nil {
		return apperr.InvalidArgument("venues.Create", "venue is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.venues[venue.ID()]; exists {
		return apperr.InvalidArgument("venues.Create", "venue %s already registered", venue.ID())
	}
	r.venues[venue.ID()] = venue
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	venue, ok := r.venues[id]
	if !ok {
		return nil, apperr.NotFound("venues.GetByID", "venue %s not found", id)
	}
	return venue, nil
}

func (r *repository) List(ctx context.Context, approvedOnly bool) ([]*Venue, error) {
	r.mu.RLock()
	out := make([]*Venue, 0, len(r.venues))
	for _, v := range r.venues {
		if approvedOnly && !v.Approved() {
			continue
		}
		out = append(out, v)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}
