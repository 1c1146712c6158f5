package refunds

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateRecord(ctx context.Context, record *RefundRecord) error
	ListRecords(ctx context.Context, limit int) ([]RefundRecord, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]RefundRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository stores refund decisions through gorm. Without a database the records stay in memory.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return &memoryRepository{}
	}
	return &repository{db: db}
}

func (r *repository) CreateRecord(ctx context.Context, record *RefundRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create refund record: %w", err)
	}
	return nil
}

func (r *repository) ListRecords(ctx context.Context, limit int) ([]RefundRecord, error) {
	var records []RefundRecord
	query := r.db.WithContext(ctx).Order("decided_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list refund records: %w", err)
	}
	return records, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]RefundRecord, error) {
	var records []RefundRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("decided_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get client refund records: %w", err)
	}
	return records, nil
}

type memoryRepository struct {
	mu      sync.Mutex
	records []RefundRecord
}

func (m *memoryRepository) CreateRecord(_ context.Context, record *RefundRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.mu.Lock()
	m.records = append(m.records, *record)
	m.mu.Unlock()
	return nil
}

func (m *memoryRepository) ListRecords(_ context.Context, limit int) ([]RefundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RefundRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *memoryRepository) ListByClient(_ context.Context, clientID uuid.UUID) ([]RefundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RefundRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ClientID == clientID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}
