package clients

import (
	"bytes"

	"boletamaster/internal/shared/apperr"

	"github.com/shopspring/decimal"
)

// Account is a balance handle valid only inside Settle. Its methods assume the lock is held.
type Account struct {
	c *Client
}

func (a Account) Credit(v decimal.Decimal) error { return a.c.creditLocked(v) }
func (a Account) Debit(v decimal.Decimal) error  { return a.c.debitLocked(v) }
func (a Account) Balance() decimal.Decimal       { return a.c.balance }

// Settle holds both clients' locks while fn runs. Locks are taken in id order so that
// two settlements between the same pair in opposite roles cannot deadlock. A client
// on both sides is locked once.
func Settle(seller, buyer *Client, fn func(seller, buyer Account) error) error {
	if seller == nil || buyer == nil {
		return apperr.InvalidArgument("clients.Settle", "seller and buyer are required")
	}

	if seller == buyer {
		seller.mu.Lock()
		defer seller.mu.Unlock()
		return fn(Account{seller}, Account{buyer})
	}

	first, second := seller, buyer
	if bytes.Compare(buyer.id[:], seller.id[:]) < 0 {
		first, second = buyer, seller
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	return fn(Account{seller}, Account{buyer})
}
