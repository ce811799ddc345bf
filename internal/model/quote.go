package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BoxQuote prices one box of a shipment with a single carrier.
type BoxQuote struct {
	BoxID          string          `json:"box_id"`
	SizeTier       int             `json:"size_tier"`       // carrier size tier, e.g. 100 for "100 size"
	BillableWeight float64         `json:"billable_weight"` // kg, max of actual and volumetric
	Price          decimal.Decimal `json:"price"`
}

// Quote is a full carrier quote for a box set: per-box prices plus the cost
// of the boxes themselves. Derived data, never persisted beyond a response.
type Quote struct {
	Carrier      string          `json:"carrier"`
	Zone         string          `json:"zone"`
	Boxes        []BoxQuote      `json:"boxes"`
	Shipping     decimal.Decimal `json:"shipping"` // sum of per-box prices
	BoxCost      decimal.Decimal `json:"box_cost"` // sum of box unit costs
	Total        decimal.Decimal `json:"total"`    // shipping + box cost
	DeliveryDays int             `json:"delivery_days"`
}

// NoRate explains why a carrier cannot service a box set. Expected result
// value; it excludes that carrier only, never the whole candidate.
type NoRate struct {
	Carrier string `json:"carrier"`
	Detail  string `json:"detail"`
}

func (n NoRate) String() string {
	return fmt.Sprintf("%s: %s", n.Carrier, n.Detail)
}

// BestResult is the final answer of an optimization run: the winning box
// set with its layouts and the cheapest carrier quote.
type BestResult struct {
	Layouts []Layout `json:"layouts"`
	Quote   Quote    `json:"quote"`

	// CandidateIndex is the position of the winning candidate in the
	// selector's deterministic enumeration order.
	CandidateIndex int `json:"candidate_index"`

	// Evaluated counts candidates that finished before the deadline.
	Evaluated int `json:"evaluated"`

	// Partial is set when the time budget expired before every candidate
	// was evaluated; the result is the best among those that finished.
	Partial bool `json:"partial,omitempty"`
}

// BoxIDs lists the box type of each layout in order.
func (r BestResult) BoxIDs() []string {
	ids := make([]string, len(r.Layouts))
	for i, l := range r.Layouts {
		ids[i] = l.Box.ID
	}
	return ids
}

// TotalWeight returns the payload weight across all boxes.
func (r BestResult) TotalWeight() float64 {
	var total float64
	for _, l := range r.Layouts {
		total += l.TotalWeight()
	}
	return total
}

// ItemCount returns the number of placed items across all boxes.
func (r BestResult) ItemCount() int {
	var n int
	for _, l := range r.Layouts {
		n += len(l.Placements)
	}
	return n
}
