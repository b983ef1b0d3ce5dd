package ledger

import (
	"costline/internal/core/id"
)

// Row is the per-item, per-period, per-location reconciliation result.
// Rows are derived values: created fresh per query, never persisted.
type Row struct {
	ItemID   id.ID  `json:"itemId"`
	ItemName string `json:"itemName"`
	Category string `json:"category"`
	Unit     string `json:"unit"`

	// AvgCost is the current average cost per stock unit, read once per
	// computation. Historical periods are valued at today's cost.
	AvgCost float64 `json:"avgCost"`

	OpeningQty   float64 `json:"openingQty"`
	OpeningValue float64 `json:"openingValue"`

	ReceivingQty   float64 `json:"receivingQty"`
	ReceivingValue float64 `json:"receivingValue"`

	ConsumptionQty   float64 `json:"consumptionQty"`
	ConsumptionValue float64 `json:"consumptionValue"`

	// ClosingBookQty = OpeningQty + ReceivingQty - ConsumptionQty.
	// Negative values are allowed; they signal a data-quality issue.
	ClosingBookQty   float64 `json:"closingBookQty"`
	ClosingBookValue float64 `json:"closingBookValue"`

	// HasPhysicalCount distinguishes "counted zero" from "no count in
	// period". Without a count PhysicalQty stays 0 and variance is not
	// computed.
	HasPhysicalCount bool    `json:"hasPhysicalCount"`
	PhysicalQty      float64 `json:"physicalQty"`
	PhysicalValue    float64 `json:"physicalValue"`

	VarianceQty   float64 `json:"varianceQty"`
	VarianceValue float64 `json:"varianceValue"`

	// CurrentStock is the live balance from master data, carried through
	// for the velocity/turnover analytics.
	CurrentStock float64 `json:"currentStock"`
}

// Totals holds summed numeric fields for a category or the whole report.
type Totals struct {
	OpeningQty       float64 `json:"openingQty"`
	OpeningValue     float64 `json:"openingValue"`
	ReceivingQty     float64 `json:"receivingQty"`
	ReceivingValue   float64 `json:"receivingValue"`
	ConsumptionQty   float64 `json:"consumptionQty"`
	ConsumptionValue float64 `json:"consumptionValue"`
	ClosingBookQty   float64 `json:"closingBookQty"`
	ClosingBookValue float64 `json:"closingBookValue"`
	PhysicalQty      float64 `json:"physicalQty"`
	PhysicalValue    float64 `json:"physicalValue"`
	VarianceQty      float64 `json:"varianceQty"`
	VarianceValue    float64 `json:"varianceValue"`
}

func (t *Totals) add(r Row) {
	t.OpeningQty += r.OpeningQty
	t.OpeningValue += r.OpeningValue
	t.ReceivingQty += r.ReceivingQty
	t.ReceivingValue += r.ReceivingValue
	t.ConsumptionQty += r.ConsumptionQty
	t.ConsumptionValue += r.ConsumptionValue
	t.ClosingBookQty += r.ClosingBookQty
	t.ClosingBookValue += r.ClosingBookValue
	t.PhysicalQty += r.PhysicalQty
	t.PhysicalValue += r.PhysicalValue
	t.VarianceQty += r.VarianceQty
	t.VarianceValue += r.VarianceValue
}

// CategoryTotal is the subtotal for one item category.
type CategoryTotal struct {
	Category string `json:"category"`
	Totals
}

// Result is the full output of one reconciliation: rows sorted by
// category and name, per-category subtotals and a grand total.
type Result struct {
	Period     PeriodWindow    `json:"-"`
	Rows       []Row           `json:"rows"`
	Categories []CategoryTotal `json:"categories"`
	Total      Totals          `json:"total"`
}
