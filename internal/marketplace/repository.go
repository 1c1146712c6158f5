package marketplace

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Append(ctx context.Context, entry *OfferLogEntry) error
	List(ctx context.Context, limit int) ([]OfferLogEntry, error)
	ListByOffer(ctx context.Context, offerID uuid.UUID) ([]OfferLogEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository persists the offer log through gorm. Without a database entries stay in memory.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return &memoryRepository{}
	}
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, entry *OfferLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append offer log entry: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, limit int) ([]OfferLogEntry, error) {
	var entries []OfferLogEntry
	query := r.db.WithContext(ctx).Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list offer log: %w", err)
	}
	return entries, nil
}

func (r *repository) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]OfferLogEntry, error) {
	var entries []OfferLogEntry
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("occurred_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get offer history: %w", err)
	}
	return entries, nil
}

type memoryRepository struct {
	mu      sync.Mutex
	entries []OfferLogEntry
}

func (m *memoryRepository) Append(_ context.Context, entry *OfferLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.mu.Lock()
	m.entries = append(m.entries, *entry)
	m.mu.Unlock()
	return nil
}

func (m *memoryRepository) List(_ context.Context, limit int) ([]OfferLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OfferLogEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memoryRepository) ListByOffer(_ context.Context, offerID uuid.UUID) ([]OfferLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []OfferLogEntry
	for _, e := range m.entries {
		if e.OfferID == offerID {
			out = append(out, e)
		}
	}
	return out, nil
}
