package events

import (
	"time"

	"boletamaster/internal/inventory"
	"boletamaster/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is a time-boxed percentage off the base price of one section.
type Discount struct {
	ID        uuid.UUID       `json:"id"`
	SectionID uuid.UUID       `json:"section_id"`
	Percent   decimal.Decimal `json:"percent"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
}

func NewDiscount(percent decimal.Decimal, startsAt, endsAt time.Time, sectionID uuid.UUID) (Discount, error) {
	const op = "events.NewDiscount"
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return Discount{}, apperr.InvalidArgument(op, "discount must be between 0 and 100, got %s", percent)
	}
	if endsAt.Before(startsAt) {
		return Discount{}, apperr.InvalidArgument(op, "discount ends before it starts")
	}
	return Discount{
		ID:        uuid.New(),
		SectionID: sectionID,
		Percent:   percent,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}, nil
}

// ActiveAt reports whether at falls inside the window, both ends included.
func (d Discount) ActiveAt(at time.Time) bool {
	return !at.Before(d.StartsAt) && !at.After(d.EndsAt)
}

// Apply returns price reduced by the discount percentage.
func (d Discount) Apply(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, apperr.InvalidArgument("events.Discount.Apply", "price cannot be negative")
	}
	factor := hundred.Sub(d.Percent).Div(hundred)
	return price.Mul(factor), nil
}

// PriceFor is the section's base price after the deepest discount active at now.
func (e *Event) PriceFor(section *inventory.Section, now time.Time) (decimal.Decimal, error) {
	price := section.BasePrice()
	best := decimal.Zero
	var chosen *Discount
	for _, d := range e.ActiveDiscounts(now) {
		if d.SectionID == section.ID() && d.Percent.GreaterThan(best) {
			d := d
			best = d.Percent
			chosen = &d
		}
	}
	if chosen == nil {
		return price, nil
	}
	return chosen.Apply(price)
}
