package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aglafone/stokpos/cmd/tui/internal/view"
)

func TestTimeframe_Contains(t *testing.T) {
	type testCase struct {
		name string
		tf   view.Timeframe
		ts   time.Time
		want bool
	}

	// Sunday
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	tests := []testCase{
		{name: "AllMatchesAnything", tf: view.TimeframeAll, ts: time.Time{}, want: true},
		{name: "Today", tf: view.TimeframeToday, ts: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), want: true},
		{name: "Yesterday", tf: view.TimeframeToday, ts: time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC), want: false},
		{name: "WeekStartsMonday", tf: view.TimeframeThisWeek, ts: time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC), want: true},
		{name: "PreviousSunday", tf: view.TimeframeThisWeek, ts: time.Date(2026, 10, 11, 8, 0, 0, 0, time.UTC), want: false},
		{name: "ThisMonth", tf: view.TimeframeThisMonth, ts: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), want: true},
		{name: "LastMonth", tf: view.TimeframeLastMonth, ts: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), want: true},
		{name: "NotLastMonth", tf: view.TimeframeLastMonth, ts: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tf.Contains(tt.ts, now))
		})
	}
}

func TestTimeframe_NextWraps(t *testing.T) {
	assert.Equal(t, view.TimeframeToday, view.TimeframeAll.Next())
	assert.Equal(t, view.TimeframeAll, view.TimeframeLastMonth.Next())
}
