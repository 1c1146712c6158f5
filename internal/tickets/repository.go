package tickets

import (
	"context"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

// Repository indexes issued tickets and bundles. Bundle members are reached through their bundle.
type Repository interface {
	SaveTicket(ctx context.Context, t *Ticket) error
	SaveBundle(ctx context.Context, b Bundle) error
	GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetBundle(ctx context.Context, id uuid.UUID) (Bundle, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Ticket, []Bundle, error)
}

type repository struct {
	mu      sync.RWMutex
	tickets map[uuid.UUID]*Ticket
	bundles map[uuid.UUID]Bundle
}

func NewRepository() Repository {
	return &repository{
		tickets: make(map[uuid.UUID]*Ticket),
		bundles: make(map[uuid.UUID]Bundle),
	}
}

func (r *repository) SaveTicket(ctx context.Context, t *Ticket) error {
	if t == nil {
		return apperr.InvalidArgument("tickets.SaveTicket", "ticket is required")
	}
	r.mu.Lock()
	r.tickets[t.ID()] = t
	r.mu.Unlock()
	return nil
}

func (r *repository) SaveBundle(ctx context.Context, b Bundle) error {
	if b == nil {
		return apperr.InvalidArgument("tickets.SaveBundle", "bundle is required")
	}
	r.mu.Lock()
	r.bundles[b.ID()] = b
	r.mu.Unlock()
	return nil
}

// GetTicket finds a standalone ticket first, then looks inside bundles.
func (r *repository) GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tickets[id]; ok {
		return t, nil
	}
	for _, b := range r.bundles {
		for _, t := range b.Tickets() {
			if t.ID() == id {
				return t, nil
			}
		}
	}
	return nil, apperr.NotFound("tickets.GetTicket", "ticket %s not found", id)
}

func (r *repository) GetBundle(ctx context.Context, id uuid.UUID) (Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bundles[id]
	if !ok {
		return nil, apperr.NotFound("tickets.GetBundle", "bundle %s not found", id)
	}
	return b, nil
}

// ListByOwner returns the standalone tickets and bundles currently owned by ownerID.
func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Ticket, []Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ts []*Ticket
	for _, t := range r.tickets {
		if !t.InBundle() && t.OwnerID() == ownerID {
			ts = append(ts, t)
		}
	}
	var bs []Bundle
	for _, b := range r.bundles {
		if b.OwnerID() == ownerID {
			bs = append(bs, b)
		}
	}
	return ts, bs, nil
}
