package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costline/internal/core/id"
)

func usageRow(name string, usageValue float64) Row {
	return Row{ItemID: id.New(), ItemName: name, UsageValue: usageValue}
}

func TestClassifyABC(t *testing.T) {
	// 60 + 25 + 10 + 5 = 100: shares 60, 85, 95, 100.
	rows := []Row{
		usageRow("minor", 5),
		usageRow("top", 60),
		usageRow("tail", 10),
		usageRow("second", 25),
	}

	out := ClassifyABC(rows)
	require.Len(t, out, 4)

	assert.Equal(t, "top", out[0].ItemName)
	assert.Equal(t, ClassA, out[0].Class)
	assert.InDelta(t, 60, out[0].CumulativeSharePct, 1e-9)

	assert.Equal(t, "second", out[1].ItemName)
	assert.Equal(t, ClassB, out[1].Class)
	assert.InDelta(t, 85, out[1].CumulativeSharePct, 1e-9)

	assert.Equal(t, ClassC, out[2].Class)
	assert.Equal(t, ClassC, out[3].Class)

	// Input order is untouched.
	assert.Equal(t, "minor", rows[0].ItemName)
	assert.Empty(t, rows[0].Class)
}

func TestClassifyABCPartition(t *testing.T) {
	rows := []Row{
		usageRow("a", 420), usageRow("b", 130), usageRow("c", 88),
		usageRow("d", 70), usageRow("e", 12), usageRow("f", 0),
	}

	out := ClassifyABC(rows)
	require.Len(t, out, len(rows))

	// Every row gets exactly one class and no row is lost.
	seen := make(map[id.ID]bool)
	for _, r := range out {
		assert.Contains(t, []ABCClass{ClassA, ClassB, ClassC}, r.Class)
		assert.False(t, seen[r.ItemID], "duplicate row %s", r.ItemName)
		seen[r.ItemID] = true
	}

	// Cumulative share is non-decreasing and ends at 100.
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i].CumulativeSharePct, out[i-1].CumulativeSharePct)
	}
	assert.InDelta(t, 100, out[len(out)-1].CumulativeSharePct, 1e-9)
}

func TestClassifyABCZeroTotal(t *testing.T) {
	rows := []Row{usageRow("x", 0), usageRow("y", 0)}

	out := ClassifyABC(rows)
	for _, r := range out {
		assert.Equal(t, ClassC, r.Class)
		assert.Zero(t, r.CumulativeSharePct)
	}
}

func TestClassifyABCStableOnTies(t *testing.T) {
	rows := []Row{usageRow("first", 50), usageRow("second", 50), usageRow("third", 50)}

	out := ClassifyABC(rows)
	assert.Equal(t, "first", out[0].ItemName)
	assert.Equal(t, "second", out[1].ItemName)
	assert.Equal(t, "third", out[2].ItemName)
}

func TestClassifyABCEmpty(t *testing.T) {
	assert.Empty(t, ClassifyABC(nil))
}
