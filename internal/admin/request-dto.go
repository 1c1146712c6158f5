package admin

import "github.com/shopspring/decimal"

type SetIssuanceFeeRequest struct {
	Fee decimal.Decimal `json:"fee" binding:"gte=0"`
}

type SetServiceRateRequest struct {
	EventType string          `json:"event_type" binding:"required"`
	Rate      decimal.Decimal `json:"rate" binding:"gte=0"`
}
