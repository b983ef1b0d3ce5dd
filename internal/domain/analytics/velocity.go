package analytics

// Sentinels for degenerate divisions. Reports render these as "fully
// turned" and "effectively infinite runway" instead of propagating a
// division-by-zero to callers.
const (
	TurnoverFullyTurned = 10.0
	DaysOfInventoryMax  = 999.0
)

// Velocity thresholds on turnover ratio.
const (
	fastTurnover   = 3.0
	stableTurnover = 1.0
)

// ClassifyVelocity computes usage rate, turnover ratio, days of
// inventory and the velocity bucket for each row. periodDayCount must
// be >= 1 (ledger.PeriodWindow.DayCount guarantees this). The input
// slice is not modified.
func ClassifyVelocity(rows []Row, periodDayCount int) []Row {
	if periodDayCount < 1 {
		periodDayCount = 1
	}

	out := make([]Row, len(rows))
	copy(out, rows)

	for i := range out {
		r := &out[i]
		r.DailyUsageRate = r.ConsumptionQty / float64(periodDayCount)

		switch {
		case r.CurrentStock > 0:
			r.TurnoverRatio = r.ConsumptionQty / r.CurrentStock
		case r.ConsumptionQty > 0:
			r.TurnoverRatio = TurnoverFullyTurned
		default:
			r.TurnoverRatio = 0
		}

		switch {
		case r.DailyUsageRate > 0:
			r.DaysOfInventory = r.CurrentStock / r.DailyUsageRate
		case r.CurrentStock > 0:
			r.DaysOfInventory = DaysOfInventoryMax
		default:
			r.DaysOfInventory = 0
		}

		switch {
		case r.ConsumptionQty == 0:
			r.Velocity = VelocityDead
		case r.TurnoverRatio >= fastTurnover:
			r.Velocity = VelocityFast
		case r.TurnoverRatio >= stableTurnover:
			r.Velocity = VelocityStable
		default:
			r.Velocity = VelocitySlow
		}
	}

	return out
}
