// Package analytics derives strategic classifications from ledger rows:
// ABC/Pareto value classes, velocity and turnover, and variance audit
// summaries. Like the ledger engine, everything here is a pure
// computation over already-derived rows.
package analytics

import (
	"costline/internal/core/id"
	"costline/internal/domain/ledger"
)

// ABCClass buckets items by share of consumption value.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// Velocity buckets items by how fast stock cycles.
type Velocity string

const (
	VelocityFast   Velocity = "fast"
	VelocityStable Velocity = "stable"
	VelocitySlow   Velocity = "slow"
	VelocityDead   Velocity = "dead"
)

// Row is a ledger row annotated with usage analytics.
type Row struct {
	ItemID   id.ID  `json:"itemId"`
	ItemName string `json:"itemName"`
	Category string `json:"category"`
	Unit     string `json:"unit"`

	AvgCost        float64 `json:"avgCost"`
	ConsumptionQty float64 `json:"consumptionQty"`
	CurrentStock   float64 `json:"currentStock"`
	VarianceQty    float64 `json:"varianceQty"`
	VarianceValue  float64 `json:"varianceValue"`

	// UsageValue = ConsumptionQty * AvgCost; the ranking basis for ABC.
	UsageValue         float64  `json:"usageValue"`
	CumulativeSharePct float64  `json:"cumulativeSharePct"`
	Class              ABCClass `json:"abcClass"`

	DailyUsageRate  float64  `json:"dailyUsageRate"`
	TurnoverRatio   float64  `json:"turnoverRatio"`
	DaysOfInventory float64  `json:"daysOfInventory"`
	Velocity        Velocity `json:"velocity"`
}

// RowsFromLedger projects ledger rows into analytics rows.
func RowsFromLedger(rows []ledger.Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{
			ItemID:         r.ItemID,
			ItemName:       r.ItemName,
			Category:       r.Category,
			Unit:           r.Unit,
			AvgCost:        r.AvgCost,
			ConsumptionQty: r.ConsumptionQty,
			CurrentStock:   r.CurrentStock,
			VarianceQty:    r.VarianceQty,
			VarianceValue:  r.VarianceValue,
			UsageValue:     r.ConsumptionQty * r.AvgCost,
		}
	}
	return out
}
