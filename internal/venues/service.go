package venues

import (
	"context"
	"log/slog"

	"boletamaster/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error)
	GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error)
	ListVenues(ctx context.Context, approvedOnly bool) ([]Snapshot, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*Venue, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*Venue, error) {
	venue, err := NewVenue(req.Name, req.Location, req.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, err
	}

	logger.GetDefault().InfoContext(ctx, "Venue Created",
		slog.String("venue_id", venue.ID().String()),
		slog.String("name", venue.Name()),
		slog.Int("capacity", venue.Capacity()),
	)
	return venue, nil
}

func (s *service) GetVenue(ctx context.Context, id uuid.UUID) (*Venue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListVenues(ctx context.Context, approvedOnly bool) ([]Snapshot, error) {
	list, err := s.repo.List(ctx, approvedOnly)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(list))
	for _, v := range list {
		out = append(out, v.Snapshot())
	}
	return out, nil
}

// SetApproval approves or withdraws approval of a venue.
func (s *service) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*Venue, error) {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if approved {
		venue.Approve()
	} else {
		venue.Disapprove()
	}

	logger.GetDefault().InfoContext(ctx, "Venue Approval Changed",
		slog.String("venue_id", id.String()),
		slog.Bool("approved", approved),
	)
	return venue, nil
}
