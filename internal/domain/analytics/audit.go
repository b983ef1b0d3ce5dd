package analytics

import (
	"math"
	"sort"

	"costline/internal/core/id"
	"costline/internal/domain/ledger"
)

// VarianceEpsilon is the tolerance below which a book-vs-physical gap
// is treated as rounding noise rather than a discrepancy.
const VarianceEpsilon = 0.001

// Discrepancy is one item whose physical count disagrees with the book
// balance beyond tolerance.
type Discrepancy struct {
	ItemID        id.ID   `json:"itemId"`
	ItemName      string  `json:"itemName"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	ClosingBook   float64 `json:"closingBookQty"`
	PhysicalQty   float64 `json:"physicalQty"`
	VarianceQty   float64 `json:"varianceQty"`
	VarianceValue float64 `json:"varianceValue"`
}

// Summary rolls ledger rows into the figures audit views render.
type Summary struct {
	Total ledger.Totals `json:"total"`

	RowCount    int `json:"rowCount"`
	CountedRows int `json:"countedRows"`

	DiscrepancyCount   int     `json:"discrepancyCount"`
	TotalVarianceValue float64 `json:"totalVarianceValue"`

	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Aggregate computes grand totals and the discrepancy summary.
// Discrepancies are ordered by absolute variance value, largest first;
// ties fall back to item name so output stays deterministic.
func Aggregate(rows []ledger.Row) Summary {
	s := Summary{RowCount: len(rows)}

	for _, r := range rows {
		s.Total.OpeningQty += r.OpeningQty
		s.Total.OpeningValue += r.OpeningValue
		s.Total.ReceivingQty += r.ReceivingQty
		s.Total.ReceivingValue += r.ReceivingValue
		s.Total.ConsumptionQty += r.ConsumptionQty
		s.Total.ConsumptionValue += r.ConsumptionValue
		s.Total.ClosingBookQty += r.ClosingBookQty
		s.Total.ClosingBookValue += r.ClosingBookValue
		s.Total.PhysicalQty += r.PhysicalQty
		s.Total.PhysicalValue += r.PhysicalValue
		s.Total.VarianceQty += r.VarianceQty
		s.Total.VarianceValue += r.VarianceValue

		if r.HasPhysicalCount {
			s.CountedRows++
		}

		if math.Abs(r.VarianceQty) > VarianceEpsilon {
			s.DiscrepancyCount++
			s.Discrepancies = append(s.Discrepancies, Discrepancy{
				ItemID:        r.ItemID,
				ItemName:      r.ItemName,
				Category:      r.Category,
				Unit:          r.Unit,
				ClosingBook:   r.ClosingBookQty,
				PhysicalQty:   r.PhysicalQty,
				VarianceQty:   r.VarianceQty,
				VarianceValue: r.VarianceValue,
			})
		}
	}

	s.TotalVarianceValue = s.Total.VarianceValue

	sort.SliceStable(s.Discrepancies, func(a, b int) bool {
		av := math.Abs(s.Discrepancies[a].VarianceValue)
		bv := math.Abs(s.Discrepancies[b].VarianceValue)
		if av != bv {
			return av > bv
		}
		return s.Discrepancies[a].ItemName < s.Discrepancies[b].ItemName
	})

	return s
}
