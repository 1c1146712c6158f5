package clients

import (
	"boletamaster/internal/tickets"
)

type WalletResponse struct {
	Client  Snapshot           `json:"client"`
	Tickets []tickets.Snapshot `json:"tickets"`
	Bundles []tickets.Snapshot `json:"bundles"`
}

type TransferResponse struct {
	Transferred bool               `json:"transferred"`
	Moved       []tickets.Snapshot `json:"moved,omitempty"`
}
