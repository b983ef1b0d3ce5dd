package ledger

import (
	"sort"

	"costline/internal/core/id"
)

// Engine computes period ledgers from a snapshot. It holds no state;
// a single Engine may serve concurrent callers.
type Engine struct{}

// NewEngine creates a reconciliation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Reconcile derives a ledger row for every active stock item matching
// categoryFilter (empty matches all). Re-running with identical inputs
// reproduces identical output: no clock, no randomness, no caches.
func (e *Engine) Reconcile(snap *Snapshot, period PeriodWindow, loc LocationFilter, categoryFilter string) *Result {
	exploder := NewExploder(snap.Recipes, snap.Items)
	idx := snap.itemIndex()

	receiving := make(map[id.ID]float64)
	consumption := make(map[id.ID]float64)

	add := func(m map[id.ID]float64, itemID id.ID, qty float64) {
		// Unknown item ids contribute nothing rather than aborting.
		if _, ok := idx[itemID]; !ok {
			return
		}
		m[itemID] += qty
	}

	for _, p := range snap.Purchases {
		if !IsPosted(p) || !period.Contains(p.Date) || !loc.Matches(p) {
			continue
		}
		for _, l := range p.Lines {
			add(receiving, l.ItemID, l.Qty)
		}
	}

	for _, pr := range snap.ProductionRuns {
		if !IsPosted(pr) || !period.Contains(pr.Date) || !loc.Matches(pr) {
			continue
		}
		add(receiving, pr.ProductID, pr.ProducedQty)
		for _, ing := range pr.Ingredients {
			add(consumption, ing.ItemID, ing.RequiredQty)
		}
	}

	for _, t := range snap.Transfers {
		if !IsPosted(t) || !period.Contains(t.Date) {
			continue
		}
		in := loc.MatchesID(t.DestinationID)
		out := loc.MatchesID(t.SourceID)
		if !in && !out {
			continue
		}
		for _, l := range t.Lines {
			if in {
				add(receiving, l.ItemID, l.Qty)
			}
			if out {
				add(consumption, l.ItemID, l.Qty)
			}
		}
	}

	for _, w := range snap.WasteEntries {
		if !IsPosted(w) || !period.Contains(w.Date) || !loc.Matches(w) {
			continue
		}
		for _, l := range w.Lines {
			add(consumption, l.ItemID, l.Qty)
		}
	}

	for _, s := range snap.Sales {
		if !IsPosted(s) || !period.Contains(s.Date) || !loc.Matches(s) {
			continue
		}
		for _, l := range s.Lines {
			for _, c := range exploder.Explode(l.MenuItemID, l.Qty) {
				add(consumption, c.ItemID, c.Qty)
			}
		}
	}

	opening := e.openingCount(snap.Stocktakes, period, loc)
	physical := e.physicalCount(snap.Stocktakes, period, loc)

	rows := make([]Row, 0, len(snap.Items))
	for i := range snap.Items {
		it := &snap.Items[i]
		if !it.Active {
			continue
		}
		if categoryFilter != "" && it.Category != categoryFilter {
			continue
		}

		cost := it.AvgCost.InexactFloat64()
		row := Row{
			ItemID:       it.ID,
			ItemName:     it.Name,
			Category:     it.Category,
			Unit:         it.StockUnit,
			AvgCost:      cost,
			CurrentStock: it.CurrentStock,
		}

		if opening != nil {
			row.OpeningQty = opening.CountedQtyFor(it.ID)
		}
		row.ReceivingQty = receiving[it.ID]
		row.ConsumptionQty = consumption[it.ID]
		row.ClosingBookQty = row.OpeningQty + row.ReceivingQty - row.ConsumptionQty

		if physical != nil {
			row.HasPhysicalCount = true
			row.PhysicalQty = physical.CountedQtyFor(it.ID)
			row.VarianceQty = row.PhysicalQty - row.ClosingBookQty
		}

		row.OpeningValue = row.OpeningQty * cost
		row.ReceivingValue = row.ReceivingQty * cost
		row.ConsumptionValue = row.ConsumptionQty * cost
		row.ClosingBookValue = row.ClosingBookQty * cost
		row.PhysicalValue = row.PhysicalQty * cost
		row.VarianceValue = row.VarianceQty * cost

		rows = append(rows, row)
	}

	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Category != rows[b].Category {
			return rows[a].Category < rows[b].Category
		}
		if rows[a].ItemName != rows[b].ItemName {
			return rows[a].ItemName < rows[b].ItemName
		}
		return rows[a].ItemID.String() < rows[b].ItemID.String()
	})

	result := &Result{Period: period, Rows: rows}
	for _, r := range rows {
		n := len(result.Categories)
		if n == 0 || result.Categories[n-1].Category != r.Category {
			result.Categories = append(result.Categories, CategoryTotal{Category: r.Category})
			n++
		}
		result.Categories[n-1].add(r)
		result.Total.add(r)
	}

	return result
}

// openingCount returns the posted opening/closing stocktake with the
// latest date strictly before the period start, location-matching.
// On equal dates the later record in the collection wins, so reruns
// over the same snapshot are reproducible.
func (e *Engine) openingCount(stocktakes []StocktakeCount, period PeriodWindow, loc LocationFilter) *StocktakeCount {
	var best *StocktakeCount
	for i := range stocktakes {
		st := &stocktakes[i]
		if !IsPosted(st) || !loc.Matches(st) {
			continue
		}
		if st.Type != StocktakeOpening && st.Type != StocktakeClosing {
			continue
		}
		if !period.StrictlyBefore(st.Date) {
			continue
		}
		if best == nil || !dateOf(st.Date).Before(dateOf(best.Date)) {
			best = st
		}
	}
	return best
}

// physicalCount returns the posted non-opening stocktake with the latest
// date inside the period, location-matching. Absent one, physical
// quantities default to 0 by policy and variance is left uncomputed.
func (e *Engine) physicalCount(stocktakes []StocktakeCount, period PeriodWindow, loc LocationFilter) *StocktakeCount {
	var best *StocktakeCount
	for i := range stocktakes {
		st := &stocktakes[i]
		if !IsPosted(st) || !loc.Matches(st) {
			continue
		}
		if st.Type == StocktakeOpening {
			continue
		}
		if !period.Contains(st.Date) {
			continue
		}
		if best == nil || !dateOf(st.Date).Before(dateOf(best.Date)) {
			best = st
		}
	}
	return best
}
