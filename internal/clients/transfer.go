package clients

import (
	"boletamaster/internal/shared/apperr"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
)

// RefundRegistrar files refund requests on behalf of a client.
type RefundRegistrar interface {
	RequestTicketRefund(c *Client, t *tickets.Ticket) error
	RequestBundleRefund(c *Client, b tickets.Bundle) error
}

func (c *Client) checkTransfer(op string, item tickets.Item, dest *Client) error {
	if item == nil {
		return apperr.InvalidArgument(op, "item is required")
	}
	if dest == nil {
		return apperr.InvalidArgument(op, "destination client is required")
	}
	if item.OwnerID() != c.id {
		return apperr.InvalidArgument(op, "%s %s is not owned by client %s", item.Kind(), item.ID(), c.id)
	}
	return nil
}

func (c *Client) TransferTicket(t *tickets.Ticket, dest *Client, authorized bool) (bool, error) {
	if t == nil {
		return false, apperr.InvalidArgument("clients.TransferTicket", "ticket is required")
	}
	if err := c.checkTransfer("clients.TransferTicket", t, dest); err != nil {
		return false, err
	}
	if t.InBundle() {
		return false, apperr.InvalidArgument("clients.TransferTicket", "ticket %s belongs to a bundle", t.ID())
	}
	return t.Transfer(dest.ID(), authorized)
}

func (c *Client) TransferBundle(b tickets.Bundle, dest *Client, authorized bool) (bool, error) {
	if b == nil {
		return false, apperr.InvalidArgument("clients.TransferBundle", "bundle is required")
	}
	if err := c.checkTransfer("clients.TransferBundle", b, dest); err != nil {
		return false, err
	}
	return b.Transfer(dest.ID(), authorized)
}

// TransferBundlePart hands some of a bundle's tickets to dest. The moved tickets leave the bundle.
func (c *Client) TransferBundlePart(b tickets.Bundle, ticketIDs []uuid.UUID, dest *Client, authorized bool) ([]*tickets.Ticket, error) {
	if b == nil {
		return nil, apperr.InvalidArgument("clients.TransferBundlePart", "bundle is required")
	}
	if err := c.checkTransfer("clients.TransferBundlePart", b, dest); err != nil {
		return nil, err
	}
	return b.TransferPart(ticketIDs, dest.ID(), authorized)
}

func (c *Client) RequestTicketRefund(t *tickets.Ticket, registrar RefundRegistrar) error {
	if registrar == nil {
		return apperr.InvalidArgument("clients.RequestTicketRefund", "refund desk is required")
	}
	return registrar.RequestTicketRefund(c, t)
}

func (c *Client) RequestBundleRefund(b tickets.Bundle, registrar RefundRegistrar) error {
	if registrar == nil {
		return apperr.InvalidArgument("clients.RequestBundleRefund", "refund desk is required")
	}
	return registrar.RequestBundleRefund(c, b)
}
