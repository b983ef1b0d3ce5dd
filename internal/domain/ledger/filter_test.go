package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2026-06-01", "2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01..2026-06-30", p.String())

	tests := []struct {
		name     string
		from, to string
	}{
		{"garbage from", "June 1st", "2026-06-30"},
		{"garbage to", "2026-06-01", "30/06/2026"},
		{"inverted", "2026-06-30", "2026-06-01"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePeriod(tt.from, tt.to)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeBadPeriod, appErr.Code)
		})
	}
}

func TestPeriodWindowContains(t *testing.T) {
	p := period("2026-06-01", "2026-06-30")

	// Inclusive on both ends, date granularity.
	assert.True(t, p.Contains(date("2026-06-01")))
	assert.True(t, p.Contains(date("2026-06-30")))
	assert.True(t, p.Contains(date("2026-06-30").Add(23*time.Hour)))
	assert.False(t, p.Contains(date("2026-05-31")))
	assert.False(t, p.Contains(date("2026-07-01")))

	assert.True(t, p.StrictlyBefore(date("2026-05-31")))
	assert.False(t, p.StrictlyBefore(date("2026-06-01")))
}

func TestPeriodWindowDayCount(t *testing.T) {
	assert.Equal(t, 29, period("2026-06-01", "2026-06-30").DayCount())
	assert.Equal(t, 1, period("2026-06-01", "2026-06-01").DayCount())
	assert.Equal(t, 30, period("2026-06-01", "2026-07-01").DayCount())
}

func TestLocationFilter(t *testing.T) {
	branch := id.New()
	other := id.New()

	all := AllLocations()
	assert.True(t, all.IsAll())
	assert.True(t, all.MatchesID(branch))
	assert.True(t, all.MatchesID(id.Nil()))
	assert.Equal(t, "all", all.String())

	at := AtLocation(branch)
	assert.False(t, at.IsAll())
	assert.True(t, at.MatchesID(branch))
	assert.False(t, at.MatchesID(other))
	assert.False(t, at.MatchesID(id.Nil()))

	rec := PurchaseReceipt{RecordHeader: header("2026-06-05"), BranchID: branch}
	assert.True(t, at.Matches(rec))
	assert.False(t, AtLocation(other).Matches(rec))
	assert.True(t, all.Matches(rec))
}

func TestIsPosted(t *testing.T) {
	assert.True(t, IsPosted(PurchaseReceipt{RecordHeader: header("2026-06-05")}))
	assert.False(t, IsPosted(PurchaseReceipt{RecordHeader: draftHeader("2026-06-05")}))
}
