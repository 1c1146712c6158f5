package purchases

import (
	"context"
	"errors"
	"fmt"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	SaveReceipt(ctx context.Context, receipt *Receipt) error
	GetByReference(ctx context.Context, reference string) (*Receipt, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Receipt, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository persists receipts through gorm. A nil db yields a repository that discards writes.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return discard{}
	}
	return &repository{db: db}
}

func (r *repository) SaveReceipt(ctx context.Context, receipt *Receipt) error {
	if err := r.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", receipt.Reference, err)
	}
	return nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Receipt, error) {
	var receipt Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("reference = ?", reference).
		First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchases.GetByReference", "receipt %s not found", reference)
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return &receipt, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Receipt, error) {
	var receipts []Receipt
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

type discard struct{}

func (discard) SaveReceipt(context.Context, *Receipt) error { return nil }

func (discard) GetByReference(_ context.Context, reference string) (*Receipt, error) {
	return nil, apperr.NotFound("purchases.GetByReference", "receipt %s not found", reference)
}

func (discard) ListByClient(context.Context, uuid.UUID) ([]Receipt, error) { return nil, nil }
