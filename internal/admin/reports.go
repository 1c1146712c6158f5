package admin

import (
	"context"
	"time"

	"boletamaster/internal/shared/constants"
	"boletamaster/internal/tickets"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DailySalesReport struct {
	Day       string          `json:"day"`
	Purchases int             `json:"purchases"`
	Total     decimal.Decimal `json:"total"`
}

type EarningsReport struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	IssuanceFees  decimal.Decimal `json:"issuance_fees"`
	Total         decimal.Decimal `json:"total"`
}

type OrganizerSalesReport struct {
	OrganizerID uuid.UUID       `json:"organizer_id"`
	Tickets     int             `json:"tickets"`
	Total       decimal.Decimal `json:"total"`
}

// DailySales sums what purchases finalized on day (UTC) still hold after refunds.
// Checkout and refund approval drop the cached report.
func (a *Administrator) DailySales(ctx context.Context, day time.Time) (*DailySalesReport, error) {
	var out DailySalesReport
	err := a.cache.GetOrSet(ctx, constants.BuildDailySalesKey(day), constants.TTL_ADMIN_REPORTS,
		func() (interface{}, error) {
			report := DailySalesReport{Day: day.UTC().Format("2006-01-02"), Total: decimal.Zero}
			for _, p := range a.ledger.On(day) {
				report.Purchases++
				report.Total = report.Total.Add(p.Outstanding())
			}
			return report, nil
		}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChargeEarnings is the platform's surcharge income: service charge above price plus issuance fees,
// over every purchased item that was not refunded.
func (a *Administrator) ChargeEarnings(ctx context.Context) EarningsReport {
	report := EarningsReport{
		GeneratedAt:   time.Now().UTC(),
		ServiceCharge: decimal.Zero,
		IssuanceFees:  decimal.Zero,
	}
	add := func(item tickets.Item) {
		report.ServiceCharge = report.ServiceCharge.Add(item.ServiceCharge().Sub(item.Price()))
		report.IssuanceFees = report.IssuanceFees.Add(item.IssuanceFee())
	}
	for _, p := range a.ledger.All() {
		for _, t := range p.Tickets() {
			if !t.IsRefunded() {
				add(t)
			}
		}
		for _, b := range p.Bundles() {
			if b.Status() != tickets.BundleRefunded {
				add(b)
			}
		}
	}
	report.Total = report.ServiceCharge.Add(report.IssuanceFees)
	return report
}

// OrganizerSales sums base prices of purchased tickets for the organizer's events.
// A bundle member counts as an even share of the bundle price.
func (a *Administrator) OrganizerSales(ctx context.Context, organizerID uuid.UUID) OrganizerSalesReport {
	report := OrganizerSalesReport{OrganizerID: organizerID, Total: decimal.Zero}
	for _, p := range a.ledger.All() {
		for _, t := range p.Tickets() {
			if t.OrganizerID() == organizerID && !t.IsRefunded() {
				report.Tickets++
				report.Total = report.Total.Add(t.Price())
			}
		}
		for _, b := range p.Bundles() {
			members := b.Tickets()
			if len(members) == 0 || b.Status() == tickets.BundleRefunded {
				continue
			}
			share := b.Price().Div(decimal.NewFromInt(int64(len(members))))
			for _, t := range members {
				if t.OrganizerID() == organizerID {
					report.Tickets++
					report.Total = report.Total.Add(share)
				}
			}
		}
	}
	report.Total = report.Total.Round(2)
	return report
}
