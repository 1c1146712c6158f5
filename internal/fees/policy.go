package fees

import (
	"strings"
	"sync"

	"boletamaster/internal/shared/apperr"

	"github.com/shopspring/decimal"
)

// Policy is the administrator's fee table: one global issuance fee charged per ticket
// and a service-fee rate per event type.
type Policy struct {
	mu          sync.RWMutex
	issuanceFee decimal.Decimal
	rates       map[string]decimal.Decimal
}

// NewPolicy creates a policy with the given issuance fee and no rates.
func NewPolicy(issuanceFee decimal.Decimal) (*Policy, error) {
	p := &Policy{rates: make(map[string]decimal.Decimal)}
	if err := p.SetIssuanceFee(issuanceFee); err != nil {
		return nil, err
	}
	return p, nil
}

func normalizeType(eventType string) string {
	return strings.ToUpper(strings.TrimSpace(eventType))
}

func (p *Policy) SetIssuanceFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return apperr.InvalidArgument("fees.SetIssuanceFee", "issuance fee cannot be negative")
	}
	p.mu.Lock()
	p.issuanceFee = fee
	p.mu.Unlock()
	return nil
}

func (p *Policy) IssuanceFee() decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.issuanceFee
}

// SetServiceRate registers the service-fee rate (0.10 = 10%) for an event type.
func (p *Policy) SetServiceRate(eventType string, rate decimal.Decimal) error {
	key := normalizeType(eventType)
	if key == "" {
		return apperr.InvalidArgument("fees.SetServiceRate", "event type is required")
	}
	if rate.IsNegative() {
		return apperr.InvalidArgument("fees.SetServiceRate", "service rate cannot be negative")
	}
	p.mu.Lock()
	p.rates[key] = rate
	p.mu.Unlock()
	return nil
}

// ServiceRate returns the rate for an event type, zero when none was configured.
func (p *Policy) ServiceRate(eventType string) decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if rate, ok := p.rates[normalizeType(eventType)]; ok {
		return rate
	}
	return decimal.Zero
}

func (p *Policy) Rates() map[string]decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(p.rates))
	for k, v := range p.rates {
		out[k] = v
	}
	return out
}

// LoadRates applies a type -> rate table, stopping at the first invalid entry.
func (p *Policy) LoadRates(rates map[string]decimal.Decimal) error {
	for eventType, rate := range rates {
		if err := p.SetServiceRate(eventType, rate); err != nil {
			return err
		}
	}
	return nil
}
