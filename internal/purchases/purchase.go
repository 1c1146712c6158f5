package purchases

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodBalance  Method = "BALANCE"
	MethodExternal Method = "EXTERNAL"
)

var lastID atomic.Int64

// Purchase is the record of one checkout. It is frozen by Finalize.
type Purchase struct {
	mu sync.Mutex

	id        int64
	reference string
	clientID  uuid.UUID
	tickets   []*tickets.Ticket
	bundles   []tickets.Bundle
	value     decimal.Decimal
	method    Method
	createdAt time.Time
	finalized bool
}

func NewPurchase(clientID uuid.UUID) (*Purchase, error) {
	ref, err := generateReference(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to generate purchase reference: %w", err)
	}
	return &Purchase{
		id:        lastID.Add(1),
		reference: ref,
		clientID:  clientID,
		createdAt: time.Now().UTC(),
	}, nil
}

func (p *Purchase) ID() int64           { return p.id }
func (p *Purchase) Reference() string   { return p.reference }
func (p *Purchase) ClientID() uuid.UUID { return p.clientID }

func (p *Purchase) Value() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *Purchase) Method() Method {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.method
}

func (p *Purchase) CreatedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createdAt
}

func (p *Purchase) Finalized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finalized
}

func (p *Purchase) AddTicket(t *tickets.Ticket) error {
	if t == nil {
		return apperr.InvalidArgument("purchases.AddTicket", "ticket is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return apperr.InvalidState("purchases.AddTicket", "purchase %d is finalized", p.id)
	}
	for _, existing := range p.tickets {
		if existing.ID() == t.ID() {
			return nil
		}
	}
	p.tickets = append(p.tickets, t)
	return nil
}

func (p *Purchase) AddBundle(b tickets.Bundle) error {
	if b == nil {
		return apperr.InvalidArgument("purchases.AddBundle", "bundle is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return apperr.InvalidState("purchases.AddBundle", "purchase %d is finalized", p.id)
	}
	for _, existing := range p.bundles {
		if existing.ID() == b.ID() {
			return nil
		}
	}
	p.bundles = append(p.bundles, b)
	return nil
}

func (p *Purchase) RemoveTicket(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return apperr.InvalidState("purchases.RemoveTicket", "purchase %d is finalized", p.id)
	}
	for i, t := range p.tickets {
		if t.ID() == id {
			p.tickets = append(p.tickets[:i], p.tickets[i+1:]...)
			break
		}
	}
	return nil
}

func (p *Purchase) RemoveBundle(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return apperr.InvalidState("purchases.RemoveBundle", "purchase %d is finalized", p.id)
	}
	for i, b := range p.bundles {
		if b.ID() == id {
			p.bundles = append(p.bundles[:i], p.bundles[i+1:]...)
			break
		}
	}
	return nil
}

// Total sums price, service charge and issuance fee over every line.
func (p *Purchase) Total() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalLocked()
}

func (p *Purchase) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.tickets {
		total = total.Add(t.TotalCost())
	}
	for _, b := range p.bundles {
		total = total.Add(b.TotalCost())
	}
	return total
}

// Outstanding is the cost of the lines that have not been refunded.
func (p *Purchase) Outstanding() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := decimal.Zero
	for _, t := range p.tickets {
		if !t.IsRefunded() {
			total = total.Add(t.TotalCost())
		}
	}
	for _, b := range p.bundles {
		if b.Status() != tickets.BundleRefunded {
			total = total.Add(b.TotalCost())
		}
	}
	return total
}

// Finalize records the value and payment method and freezes the line items.
func (p *Purchase) Finalize(method Method) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return apperr.InvalidState("purchases.Finalize", "purchase %d is already finalized", p.id)
	}
	p.value = p.totalLocked()
	p.method = method
	p.createdAt = time.Now().UTC()
	p.finalized = true
	return nil
}

func (p *Purchase) Tickets() []*tickets.Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*tickets.Ticket(nil), p.tickets...)
}

func (p *Purchase) Bundles() []tickets.Bundle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]tickets.Bundle(nil), p.bundles...)
}

// Summary is the read-only view of a purchase.
type Summary struct {
	ID        int64              `json:"id"`
	Reference string             `json:"reference"`
	ClientID  uuid.UUID          `json:"client_id"`
	Value     decimal.Decimal    `json:"value"`
	Method    Method             `json:"method"`
	CreatedAt time.Time          `json:"created_at"`
	Tickets   []tickets.Snapshot `json:"tickets,omitempty"`
	Bundles   []tickets.Snapshot `json:"bundles,omitempty"`
}

func (p *Purchase) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Summary{
		ID:        p.id,
		Reference: p.reference,
		ClientID:  p.clientID,
		Value:     p.value,
		Method:    p.method,
		CreatedAt: p.createdAt,
	}
	for _, t := range p.tickets {
		s.Tickets = append(s.Tickets, t.Snapshot())
	}
	for _, b := range p.bundles {
		s.Bundles = append(s.Bundles, b.Snapshot())
	}
	return s
}

// generateReference builds BM-YYYYMMDD-XXXXXX with six random uppercase letters.
func generateReference(now time.Time) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}
	return fmt.Sprintf("BM-%s-%s", now.Format("20060102"), string(randomPart)), nil
}
