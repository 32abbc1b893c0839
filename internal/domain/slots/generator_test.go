package slots

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiG180/trimminflow/internal/domain/appointment"
)

func day(h, m int) time.Time {
	return time.Date(2026, time.July, 14, h, m, 0, 0, time.UTC)
}

func TestGenerateFullDay(t *testing.T) {
	open := appointment.Interval{Start: day(9, 0), End: day(18, 0)}

	got := slices.Collect(Generate(open, 30, 30))

	require.Len(t, got, 18)
	assert.Equal(t, day(9, 0), got[0])
	assert.Equal(t, day(17, 30), got[17])
	assert.True(t, slices.IsSortedFunc(got, func(a, b time.Time) int { return a.Compare(b) }))
}

func TestGenerateStaysInsideInterval(t *testing.T) {
	open := appointment.Interval{Start: day(9, 0), End: day(12, 10)}

	for _, tc := range []struct{ duration, granularity int }{
		{45, 15}, {30, 10}, {60, 30}, {25, 5}, {190, 5},
	} {
		for start := range Generate(open, tc.duration, tc.granularity) {
			slot := appointment.NewInterval(start, time.Duration(tc.duration)*time.Minute)
			assert.True(t, open.Contains(slot), "duration %d granularity %d start %s", tc.duration, tc.granularity, start)
		}
	}

	// 45 minute service on a 15 minute grid: last start is 11:15 (ends 12:00), 11:30 would end 12:15.
	got := slices.Collect(Generate(open, 45, 15))
	assert.Equal(t, day(11, 15), got[len(got)-1])
}

func TestGenerateEmpty(t *testing.T) {
	open := appointment.Interval{Start: day(9, 0), End: day(9, 30)}

	assert.Empty(t, slices.Collect(Generate(open, 31, 15)), "duration longer than interval")
	assert.Empty(t, slices.Collect(Generate(open, 0, 15)))
	assert.Empty(t, slices.Collect(Generate(open, 30, 0)))
	assert.Empty(t, slices.Collect(Generate(appointment.Interval{Start: day(9, 0), End: day(9, 0)}, 5, 5)))
	assert.Equal(t, []time.Time{day(9, 0)}, slices.Collect(Generate(open, 30, 15)))
}

func TestGenerateIsRestartable(t *testing.T) {
	seq := Generate(appointment.Interval{Start: day(9, 0), End: day(11, 0)}, 30, 20)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	var prefix []time.Time
	for s := range seq {
		prefix = append(prefix, s)
		if len(prefix) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], prefix)
}
