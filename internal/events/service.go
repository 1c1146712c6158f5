package events

import (
	"context"
	"log/slog"
	"time"

	"boletamaster/internal/shared/constants"
	"boletamaster/pkg/cache"
	"boletamaster/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	Register(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, status Status) ([]EventResponse, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*Event, error)
	GetAvailability(ctx context.Context, id uuid.UUID) (*AvailabilityResponse, error)
	InvalidateAvailability(ctx context.Context, ids ...uuid.UUID)
	Cancel(ctx context.Context, id uuid.UUID, byAdmin bool, reason string) (*Event, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		now:   time.Now,
	}
}

func (s *service) Register(ctx context.Context, event *Event) error {
	if err := s.repo.Create(ctx, event); err != nil {
		return err
	}
	s.dropLists(ctx)

	logger.GetDefault().InfoContext(ctx, "Event Created",
		slog.String("event_id", event.ID().String()),
		slog.String("organizer_id", event.OrganizerID().String()),
		slog.String("type", event.Type()),
	)
	return nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListEvents(ctx context.Context, status Status) ([]EventResponse, error) {
	var out []EventResponse
	err := s.cache.GetOrSet(ctx, constants.BuildEventListKey(string(status)), constants.TTL_EVENT_LIST,
		func() (interface{}, error) {
			list, err := s.repo.List(ctx, status)
			if err != nil {
				return nil, err
			}
			resp := make([]EventResponse, 0, len(list))
			for _, e := range list {
				resp = append(resp, e.ToResponse())
			}
			return resp, nil
		}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

// GetAvailability serves the seat map of an event through the cache.
func (s *service) GetAvailability(ctx context.Context, id uuid.UUID) (*AvailabilityResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var out AvailabilityResponse
	err = s.cache.GetOrSet(ctx, constants.BuildEventAvailabilityKey(id.String()), constants.TTL_EVENT_AVAILABILITY,
		func() (interface{}, error) {
			return event.Availability(s.now()), nil
		}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// InvalidateAvailability drops cached seat maps after inventory changes.
func (s *service) InvalidateAvailability(ctx context.Context, ids ...uuid.UUID) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, constants.BuildEventAvailabilityKey(id.String()))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.GetDefault().WarnContext(ctx, "Failed to invalidate availability cache", slog.String("error", err.Error()))
	}
	s.dropLists(ctx)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, byAdmin bool, reason string) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	by := "organizer"
	if byAdmin {
		by = "admin"
		err = event.CancelByAdmin()
	} else {
		err = event.CancelByOrganizer(reason)
	}
	if err != nil {
		return nil, err
	}

	s.InvalidateAvailability(ctx, id)
	logger.GetDefault().LogEventCancelled(ctx, id.String(), by, reason)
	return event, nil
}

func (s *service) dropLists(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.CACHE_PATTERN_EVENT_LISTS_ALL); err != nil {
		logger.GetDefault().WarnContext(ctx, "Failed to invalidate event lists", slog.String("error", err.Error()))
	}
}
