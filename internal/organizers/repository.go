package organizers

import (
	"context"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, organizer *Organizer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organizer, error)
	List(ctx context.Context) ([]*Organizer, error)
}

type repository struct {
	mu         sync.RWMutex
	organizers map[uuid.UUID]*Organizer
}

func NewRepository() Repository {
	return &repository{organizers: make(map[uuid.UUID]*Organizer)}
}

func (r *repository) Create(ctx context.Context, organizer *Organizer) error {
	if organizer == nil {
		return apperr.InvalidArgument("organizers.Create", "organizer is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.organizers[organizer.ID()]; exists {
		return apperr.InvalidState("organizers.Create", "organizer %s already exists", organizer.ID())
	}
	r.organizers[organizer.ID()] = organizer
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Organizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	organizer, ok := r.organizers[id]
	if !ok {
		return nil, apperr.NotFound("organizers.GetByID", "organizer %s not found", id)
	}
	return organizer, nil
}

func (r *repository) List(ctx context.Context) ([]*Organizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Organizer, 0, len(r.organizers))
	for _, o := range r.organizers {
		out = append(out, o)
	}
	return out, nil
}
