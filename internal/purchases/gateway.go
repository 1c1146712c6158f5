package purchases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"boletamaster/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway charges a client through an external payment provider.
type Gateway interface {
	Charge(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal) (string, error)
}

// MockGateway approves every charge and hands back a synthetic transaction id.
type MockGateway struct{}

func (MockGateway) Charge(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal) (string, error) {
	txn := generateTransactionID()
	logger.GetDefault().InfoContext(ctx, "External Payment Processed",
		slog.String("client_id", clientID.String()),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("transaction_id", txn),
	)
	return txn, nil
}

func generateTransactionID() string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", time.Now().Unix(), strings.ToUpper(short))
}
