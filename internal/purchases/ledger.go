package purchases

import (
	"sync"
	"time"

	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
)

// Ledger is the process-wide, append-only record of finalized purchases.
type Ledger struct {
	mu        sync.RWMutex
	purchases []*Purchase
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Record(p *Purchase) error {
	if p == nil {
		return apperr.InvalidArgument("purchases.Ledger.Record", "purchase is required")
	}
	if !p.Finalized() {
		return apperr.InvalidState("purchases.Ledger.Record", "purchase %d is not finalized", p.ID())
	}
	l.mu.Lock()
	l.purchases = append(l.purchases, p)
	l.mu.Unlock()
	return nil
}

func (l *Ledger) All() []*Purchase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Purchase(nil), l.purchases...)
}

// On returns the purchases finalized on the given UTC calendar day.
func (l *Ledger) On(day time.Time) []*Purchase {
	y, m, d := day.UTC().Date()
	var out []*Purchase
	for _, p := range l.All() {
		py, pm, pd := p.CreatedAt().UTC().Date()
		if py == y && pm == m && pd == d {
			out = append(out, p)
		}
	}
	return out
}

func (l *Ledger) ByClient(clientID uuid.UUID) []*Purchase {
	var out []*Purchase
	for _, p := range l.All() {
		if p.ClientID() == clientID {
			out = append(out, p)
		}
	}
	return out
}
