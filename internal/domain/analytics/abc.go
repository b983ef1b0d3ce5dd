package analytics

import (
	"sort"
)

// ABC share thresholds: class A covers the top 70% of consumption
// value, class B the next 20%, class C the tail.
const (
	classAThresholdPct = 70.0
	classBThresholdPct = 90.0
)

// ClassifyABC sorts rows descending by usage value and assigns Pareto
// classes by cumulative share. The sort is stable: ties keep their
// original relative order. When total usage value is zero every row is
// class C by convention. The input slice is not modified.
func ClassifyABC(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].UsageValue > out[b].UsageValue
	})

	var total float64
	for _, r := range out {
		total += r.UsageValue
	}

	if total == 0 {
		for i := range out {
			out[i].Class = ClassC
			out[i].CumulativeSharePct = 0
		}
		return out
	}

	var cumulative float64
	for i := range out {
		cumulative += out[i].UsageValue
		share := cumulative / total * 100
		out[i].CumulativeSharePct = share

		switch {
		case share <= classAThresholdPct:
			out[i].Class = ClassA
		case share <= classBThresholdPct:
			out[i].Class = ClassB
		default:
			out[i].Class = ClassC
		}
	}

	return out
}
