// Package pricing turns packed layouts into carrier quotes. Every money
// amount is a decimal; shipping prices come from the carriers' discrete
// size/weight tier tables, billed at the greater of actual and volumetric
// weight per box.
package pricing

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/ShipPack/internal/catalog"
	"github.com/piwi3910/ShipPack/internal/model"
)

// Optimizer quotes box sets against a fixed carrier list and picks the
// cheapest total. Carrier order is the catalog order; ties keep the
// earlier carrier.
type Optimizer struct {
	carriers []catalog.Carrier
	logger   *slog.Logger
}

// New creates a pricing optimizer over the given carriers. A nil logger
// falls back to the default logger.
func New(carriers []catalog.Carrier, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{carriers: carriers, logger: logger}
}

// Quote prices the layouts with every carrier and returns the cheapest
// quote by total cost (shipping plus box unit costs). Carriers that cannot
// service the box set are reported in the NoRate slice; if none can, the
// ok flag is false.
func (o *Optimizer) Quote(layouts []model.Layout, zone string) (model.Quote, []model.NoRate, bool) {
	var (
		best    model.Quote
		found   bool
		norates []model.NoRate
	)

	for _, carrier := range o.carriers {
		quote, norate := o.quoteCarrier(carrier, layouts, zone)
		if norate != nil {
			norates = append(norates, *norate)
			continue
		}
		// Strict less keeps the first carrier on equal totals.
		if !found || quote.Total.LessThan(best.Total) {
			best = quote
			found = true
		}
	}

	if !found {
		o.logger.Debug("no carrier can service box set", "zone", zone, "exclusions", len(norates))
	}
	return best, norates, found
}

// QuoteAll prices the layouts with every carrier, preserving catalog
// order. Serviceable carriers yield quotes; the rest yield exclusions.
func (o *Optimizer) QuoteAll(layouts []model.Layout, zone string) ([]model.Quote, []model.NoRate) {
	var (
		quotes  []model.Quote
		norates []model.NoRate
	)
	for _, carrier := range o.carriers {
		quote, norate := o.quoteCarrier(carrier, layouts, zone)
		if norate != nil {
			norates = append(norates, *norate)
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes, norates
}

// quoteCarrier prices every box with one carrier. Any box the carrier
// cannot take excludes the carrier for the whole set.
func (o *Optimizer) quoteCarrier(carrier catalog.Carrier, layouts []model.Layout, zone string) (model.Quote, *model.NoRate) {
	quote := model.Quote{
		Carrier:      carrier.ID,
		Zone:         zone,
		Shipping:     decimal.Zero,
		BoxCost:      decimal.Zero,
		DeliveryDays: carrier.DeliveryDays,
	}

	for _, layout := range layouts {
		box := layout.Box
		sizeSum := box.SizeSum()
		billable := carrier.BillableWeight(layout.TotalWeight(), box.OuterVolume())

		if carrier.MaxSize > 0 && sizeSum > carrier.MaxSize {
			return model.Quote{}, &model.NoRate{
				Carrier: carrier.ID,
				Detail:  fmt.Sprintf("box %s size %.1f cm exceeds carrier limit %.0f cm", box.ID, sizeSum, carrier.MaxSize),
			}
		}
		if carrier.MaxWeight > 0 && billable > carrier.MaxWeight {
			return model.Quote{}, &model.NoRate{
				Carrier: carrier.ID,
				Detail:  fmt.Sprintf("box %s billable weight %.1f kg exceeds carrier limit %.0f kg", box.ID, billable, carrier.MaxWeight),
			}
		}

		t, ok := carrier.TierFor(sizeSum, billable)
		if !ok {
			return model.Quote{}, &model.NoRate{
				Carrier: carrier.ID,
				Detail:  fmt.Sprintf("box %s fits no rate tier (size %.1f cm, billable %.1f kg)", box.ID, sizeSum, billable),
			}
		}
		price, ok := t.Prices[zone]
		if !ok {
			return model.Quote{}, &model.NoRate{
				Carrier: carrier.ID,
				Detail:  fmt.Sprintf("zone %q not served", zone),
			}
		}

		quote.Boxes = append(quote.Boxes, model.BoxQuote{
			BoxID:          box.ID,
			SizeTier:       t.Size,
			BillableWeight: billable,
			Price:          price,
		})
		quote.Shipping = quote.Shipping.Add(price)
		quote.BoxCost = quote.BoxCost.Add(box.UnitCost)
	}

	quote.Total = quote.Shipping.Add(quote.BoxCost)
	return quote, nil
}
