package clients

import (
	"context"
	"strings"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByLogin(ctx context.Context, login string) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
}

type repository struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewRepository() Repository {
	return &repository{clients: make(map[uuid.UUID]*Client)}
}

func (r *repository) Create(ctx context.Context, client *Client) error {
	if client == nil {
		return apperr.InvalidArgument("clients.Create", "client is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[client.ID()]; exists {
		return apperr.InvalidState("clients.Create", "client %s already exists", client.ID())
	}
	r.clients[client.ID()] = client
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, apperr.NotFound("clients.GetByID", "client %s not found", id)
	}
	return client, nil
}

func (r *repository) GetByLogin(ctx context.Context, login string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if strings.EqualFold(c.Login(), strings.TrimSpace(login)) {
			return c, nil
		}
	}
	return nil, apperr.NotFound("clients.GetByLogin", "client %q not found", login)
}

func (r *repository) List(ctx context.Context) ([]*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out, nil
}
