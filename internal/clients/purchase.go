package clients

import (
	"context"
	"fmt"

	"boletamaster/internal/purchases"
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/shopspring/decimal"
)

// MakePurchase settles a cart. With useRefundBalance and enough balance the balance pays;
// otherwise the external gateway is charged. The purchase is always finalized, appended to
// the history and recorded in the ledger.
func (c *Client) MakePurchase(ctx context.Context, ts []*tickets.Ticket, bs []tickets.Bundle, useRefundBalance bool,
	gateway purchases.Gateway, ledger *purchases.Ledger) (*purchases.Purchase, string, error) {
	const op = "clients.MakePurchase"

	if len(ts) == 0 && len(bs) == 0 {
		return nil, "", apperr.InvalidArgument(op, "cart is empty")
	}

	p, err := purchases.NewPurchase(c.id)
	if err != nil {
		return nil, "", err
	}
	for _, t := range ts {
		if err := p.AddTicket(t); err != nil {
			return nil, "", err
		}
	}
	for _, b := range bs {
		if err := p.AddBundle(b); err != nil {
			return nil, "", err
		}
	}
	total := p.Total()

	method, err := c.payFromBalance(useRefundBalance, total)
	if err != nil {
		return nil, "", err
	}

	var transactionID string
	if method == purchases.MethodExternal {
		if gateway == nil {
			return nil, "", apperr.InvalidState(op, "no external payment method available")
		}
		transactionID, err = gateway.Charge(ctx, c.id, total)
		if err != nil {
			return nil, "", fmt.Errorf("failed to charge external payment: %w", err)
		}
	}

	if err := p.Finalize(method); err != nil {
		return nil, "", err
	}
	if err := c.RegisterPurchase(p); err != nil {
		return nil, "", err
	}
	if ledger != nil {
		if err := ledger.Record(p); err != nil {
			return nil, "", err
		}
	}
	return p, transactionID, nil
}

func (c *Client) payFromBalance(useRefundBalance bool, total decimal.Decimal) (purchases.Method, error) {
	if total.IsZero() {
		return purchases.MethodBalance, nil
	}
	if !useRefundBalance {
		return purchases.MethodExternal, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balance.LessThan(total) {
		return purchases.MethodExternal, nil
	}
	if err := c.debitLocked(total); err != nil {
		return "", err
	}
	return purchases.MethodBalance, nil
}
