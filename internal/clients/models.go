package clients

import (
	"strings"
	"sync"
	"time"

	"boletamaster/internal/purchases"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a buyer account: a non-negative refund balance and an append-only purchase history.
type Client struct {
	mu sync.Mutex

	id        uuid.UUID
	name      string
	login     string
	balance   decimal.Decimal
	purchases []*purchases.Purchase
	createdAt time.Time
}

func NewClient(id uuid.UUID, name, login string) (*Client, error) {
	const op = "clients.NewClient"
	if id == uuid.Nil {
		return nil, apperr.InvalidArgument(op, "client id is required")
	}
	if strings.TrimSpace(login) == "" {
		return nil, apperr.InvalidArgument(op, "login is required")
	}
	return &Client{
		id:        id,
		name:      strings.TrimSpace(name),
		login:     strings.TrimSpace(login),
		balance:   decimal.Zero,
		createdAt: time.Now().UTC(),
	}, nil
}

func (c *Client) ID() uuid.UUID { return c.id }
func (c *Client) Name() string  { return c.name }
func (c *Client) Login() string { return c.login }

func (c *Client) Balance() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

func (c *Client) SetBalance(v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.InvalidArgument("clients.SetBalance", "balance cannot be negative")
	}
	c.mu.Lock()
	c.balance = v
	c.mu.Unlock()
	return nil
}

func (c *Client) Credit(v decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creditLocked(v)
}

// UseRefundBalance debits amount from the balance.
func (c *Client) UseRefundBalance(amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debitLocked(amount)
}

func (c *Client) creditLocked(v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.InvalidArgument("clients.Credit", "credit cannot be negative")
	}
	c.balance = c.balance.Add(v)
	return nil
}

func (c *Client) debitLocked(amount decimal.Decimal) error {
	const op = "clients.UseRefundBalance"
	if !amount.IsPositive() {
		return apperr.InvalidArgument(op, "amount must be positive")
	}
	if amount.GreaterThan(c.balance) {
		return apperr.InvalidArgument(op, "amount %s exceeds balance %s", amount.StringFixed(2), c.balance.StringFixed(2))
	}
	c.balance = c.balance.Sub(amount)
	return nil
}

func (c *Client) RegisterPurchase(p *purchases.Purchase) error {
	if p == nil {
		return apperr.InvalidArgument("clients.RegisterPurchase", "purchase is required")
	}
	c.mu.Lock()
	c.purchases = append(c.purchases, p)
	c.mu.Unlock()
	return nil
}

func (c *Client) Purchases() []*purchases.Purchase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*purchases.Purchase(nil), c.purchases...)
}

func (c *Client) PurchasedTickets() []*tickets.Ticket {
	var out []*tickets.Ticket
	for _, p := range c.Purchases() {
		out = append(out, p.Tickets()...)
	}
	return out
}

func (c *Client) PurchasedBundles() []tickets.Bundle {
	var out []tickets.Bundle
	for _, p := range c.Purchases() {
		out = append(out, p.Bundles()...)
	}
	return out
}

// Snapshot is the read-only view of a client.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Login         string          `json:"login"`
	Balance       decimal.Decimal `json:"balance"`
	PurchaseCount int             `json:"purchase_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ID:            c.id,
		Name:          c.name,
		Login:         c.login,
		Balance:       c.balance,
		PurchaseCount: len(c.purchases),
		CreatedAt:     c.createdAt,
	}
}
