package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewComputesSlotsPerDay(t *testing.T) {
	g := New(7, 21, 6)
	assert.Equal(t, 28, g.SlotsPerDay)
	assert.Equal(t, 168, g.TotalSlots)
}

func TestLunchSlotsDefaultGrid(t *testing.T) {
	g := New(7, 21, 6)
	lunch := g.LunchSlots()
	assert.Len(t, lunch, 2)
	_, hasStart := lunch[9]
	_, hasNext := lunch[10]
	assert.True(t, hasStart)
	assert.True(t, hasNext)
}

func TestLunchSlotsEmptyWhenGridStartsAtNoon(t *testing.T) {
	g := New(12, 21, 6)
	assert.Empty(t, g.LunchSlots())
}

func TestFormatPeriodNoonAndMidnight(t *testing.T) {
	g := New(7, 21, 6)
	// slot 10 -> offset 10 -> 7:00 + 5.0h = 12:00 noon
	assert.Equal(t, "12:00 PM", formatClock(g.SlotToWallHour(10)))
	assert.Equal(t, "12:00 AM", formatClock(0))
	assert.Equal(t, "12:00 AM", formatClock(24))
}

func TestFormatPeriodLeadingZeroMinutes(t *testing.T) {
	g := New(7, 21, 6)
	period := g.FormatPeriod(g.GlobalSlot(0, 3), 3) // offset 3 -> 8:30, 3 slots -> 10:00
	assert.Equal(t, "8:30 AM - 10:00 AM", period)
}

func TestDayOffsetRoundTrip(t *testing.T) {
	g := New(7, 21, 6)
	for day := 0; day < g.NumDays; day++ {
		for offset := 0; offset < g.SlotsPerDay; offset++ {
			global := g.GlobalSlot(day, offset)
			assert.Equal(t, day, g.Day(global))
			assert.Equal(t, offset, g.Offset(global))
		}
	}
}

func TestInDayRangeRejectsCrossingDayBoundary(t *testing.T) {
	g := New(7, 21, 6)
	last := g.SlotsPerDay - 2
	assert.True(t, g.InDayRange(last, 2))
	assert.False(t, g.InDayRange(last, 3))
}
