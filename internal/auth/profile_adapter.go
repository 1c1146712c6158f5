package auth

import (
	"context"
	"fmt"

	"boletamaster/internal/clients"
	"boletamaster/internal/organizers"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/users"
)

// Provisioner creates the domain profile that belongs to an account.
// Provision must be idempotent: it is called on registration and on every login.
type Provisioner interface {
	Provision(ctx context.Context, user *users.User) error
}

// ProfileAdapter provisions client and organizer profiles through their services.
type ProfileAdapter struct {
	clients    clients.Service
	organizers organizers.Service
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(clientSvc clients.Service, organizerSvc organizers.Service) *ProfileAdapter {
	return &ProfileAdapter{
		clients:    clientSvc,
		organizers: organizerSvc,
	}
}

func (pa *ProfileAdapter) Provision(ctx context.Context, user *users.User) error {
	switch user.Role {
	case users.RoleClient:
		if _, err := pa.clients.GetClient(ctx, user.ID); err == nil {
			return nil
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}
		if _, err := pa.clients.Register(ctx, user.ID, user.Name, user.Email); err != nil {
			return fmt.Errorf("failed to provision client %s: %w", user.ID, err)
		}
	case users.RoleOrganizer:
		if _, err := pa.organizers.GetOrganizer(ctx, user.ID); err == nil {
			return nil
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			return err
		}
		organizer, err := organizers.NewOrganizer(user.ID, user.Name, user.Organization)
		if err != nil {
			return err
		}
		if err := pa.organizers.Register(ctx, organizer); err != nil {
			return fmt.Errorf("failed to provision organizer %s: %w", user.ID, err)
		}
	}
	return nil
}
