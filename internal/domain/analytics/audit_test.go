package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costline/internal/core/id"
	"costline/internal/domain/ledger"
)

func TestAggregate(t *testing.T) {
	rows := []ledger.Row{
		{
			ItemID: id.New(), ItemName: "Beef", Category: "Proteins",
			OpeningQty: 50, ReceivingQty: 25, ConsumptionQty: 30,
			ClosingBookQty: 45, HasPhysicalCount: true,
			PhysicalQty: 43, VarianceQty: -2, VarianceValue: -19,
		},
		{
			ItemID: id.New(), ItemName: "Buns", Category: "Bakery",
			OpeningQty: 400, ReceivingQty: 200, ConsumptionQty: 180,
			ClosingBookQty: 420, HasPhysicalCount: true,
			PhysicalQty: 420.0005, VarianceQty: 0.0005, VarianceValue: 0.0002,
		},
		{
			ItemID: id.New(), ItemName: "Cream", Category: "Dairy",
			OpeningQty: 10, ReceivingQty: 5, ConsumptionQty: 3,
			ClosingBookQty: 12,
		},
	}

	s := Aggregate(rows)

	assert.Equal(t, 3, s.RowCount)
	assert.Equal(t, 2, s.CountedRows)
	assert.InDelta(t, 460, s.Total.OpeningQty, 1e-9)
	assert.InDelta(t, 477, s.Total.ClosingBookQty, 1e-9)
	assert.InDelta(t, -19, s.TotalVarianceValue, 1e-6)

	// 0.0005 is inside the rounding tolerance; only Beef is a discrepancy.
	require.Equal(t, 1, s.DiscrepancyCount)
	require.Len(t, s.Discrepancies, 1)
	assert.Equal(t, "Beef", s.Discrepancies[0].ItemName)
	assert.InDelta(t, -2, s.Discrepancies[0].VarianceQty, 1e-9)
}

func TestAggregateDiscrepancyOrdering(t *testing.T) {
	rows := []ledger.Row{
		{ItemID: id.New(), ItemName: "small", HasPhysicalCount: true, VarianceQty: 1, VarianceValue: 2},
		{ItemID: id.New(), ItemName: "big", HasPhysicalCount: true, VarianceQty: -4, VarianceValue: -40},
		{ItemID: id.New(), ItemName: "alpha tie", HasPhysicalCount: true, VarianceQty: 2, VarianceValue: 2},
	}

	s := Aggregate(rows)
	require.Len(t, s.Discrepancies, 3)

	// Largest absolute value first, name breaks ties.
	assert.Equal(t, "big", s.Discrepancies[0].ItemName)
	assert.Equal(t, "alpha tie", s.Discrepancies[1].ItemName)
	assert.Equal(t, "small", s.Discrepancies[2].ItemName)
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	assert.Zero(t, s.RowCount)
	assert.Zero(t, s.DiscrepancyCount)
	assert.Empty(t, s.Discrepancies)
}
