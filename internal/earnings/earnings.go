package earnings

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/petalmart/storefront/internal/order"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/remote"
)

// Report is a derived, read-only revenue view over a user's orders.
// Orders that never got paid and the terminal failure branches do not
// count toward revenue.
type Report struct {
	Orders     int                        `json:"orders"`
	Gross      decimal.Decimal            `json:"gross"`
	Commission decimal.Decimal            `json:"commission"`
	Net        decimal.Decimal            `json:"net"`
	BySeller   map[string]decimal.Decimal `json:"bySeller"`
}

type Aggregator struct {
	source *remote.Source
	rate   decimal.Decimal
}

// NewAggregator takes the platform commission rate as a fraction, e.g.
// 0.1 for 10%.
func NewAggregator(source *remote.Source, rate decimal.Decimal) *Aggregator {
	return &Aggregator{source: source, rate: rate}
}

func (a *Aggregator) Earnings(c context.Context, userID string) Report {
	c, span := otel.Tracer.Start(c, "Aggregator Earnings")
	defer span.End()

	report := Report{
		Gross:      decimal.Zero,
		Commission: decimal.Zero,
		Net:        decimal.Zero,
		BySeller:   map[string]decimal.Decimal{},
	}
	for _, o := range a.source.OrdersFor(c, userID) {
		if !countsTowardRevenue(o.Status) {
			continue
		}
		report.Orders++
		report.Gross = report.Gross.Add(o.Total)
		for _, item := range o.Items {
			line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			current, ok := report.BySeller[item.Seller]
			if !ok {
				current = decimal.Zero
			}
			report.BySeller[item.Seller] = current.Add(line)
		}
	}
	report.Commission = report.Gross.Mul(a.rate)
	report.Net = report.Gross.Sub(report.Commission)
	return report
}

func countsTowardRevenue(status order.Status) bool {
	switch status {
	case order.StatusPaid, order.StatusProcessing, order.StatusShipped, order.StatusDelivered:
		return true
	}
	return false
}
