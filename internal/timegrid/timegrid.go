// Package timegrid discretizes the working day into half-hour slots,
// computes the lunch window, and converts slot indices to wall-clock
// strings. See spec.md §3 and §4.1.
package timegrid

import (
	"fmt"
	"math"
)

const incrementHours = 0.5

// Grid is the immutable time discretization for one scheduler run.
type Grid struct {
	StartHour    float64
	EndHour      float64
	SlotsPerDay  int
	NumDays      int
	TotalSlots   int
	lunchOffsets map[int]struct{}
}

// New builds a Grid for the given working window and day count.
func New(startHour, endHour float64, numDays int) Grid {
	slotsPerDay := int(math.Round((endHour - startHour) / incrementHours))
	g := Grid{
		StartHour:   startHour,
		EndHour:     endHour,
		SlotsPerDay: slotsPerDay,
		NumDays:     numDays,
		TotalSlots:  slotsPerDay * numDays,
	}
	g.lunchOffsets = computeLunchOffsets(startHour, slotsPerDay)
	return g
}

func computeLunchOffsets(startHour float64, slotsPerDay int) map[int]struct{} {
	startOffsetHours := 11.5 - startHour
	if startOffsetHours < 0 {
		return map[int]struct{}{}
	}
	idx := int(startOffsetHours / incrementHours)
	return map[int]struct{}{idx: {}, idx + 1: {}}
}

// LunchSlots returns the in-day slot offsets overlapping 11:30-12:30,
// or an empty set if the grid starts after 11:30.
func (g Grid) LunchSlots() map[int]struct{} {
	out := make(map[int]struct{}, len(g.lunchOffsets))
	for k := range g.lunchOffsets {
		out[k] = struct{}{}
	}
	return out
}

// Day returns the day index a global slot belongs to.
func (g Grid) Day(globalSlot int) int {
	if g.SlotsPerDay == 0 {
		return 0
	}
	return globalSlot / g.SlotsPerDay
}

// Offset returns the in-day offset of a global slot.
func (g Grid) Offset(globalSlot int) int {
	if g.SlotsPerDay == 0 {
		return 0
	}
	return globalSlot % g.SlotsPerDay
}

// GlobalSlot composes a day index and in-day offset into a global slot.
func (g Grid) GlobalSlot(day, offset int) int {
	return day*g.SlotsPerDay + offset
}

// SlotToWallHour converts a global slot into the fractional wall-clock
// hour at which it starts.
func (g Grid) SlotToWallHour(globalSlot int) float64 {
	return g.StartHour + float64(g.Offset(globalSlot))*incrementHours
}

// FormatPeriod renders "h:MM AM/PM - h:MM AM/PM" for a session starting
// at startSlot (a global slot) running for durationSlots.
func (g Grid) FormatPeriod(startSlot, durationSlots int) string {
	startHour := g.SlotToWallHour(startSlot)
	endHour := startHour + float64(durationSlots)*incrementHours
	return fmt.Sprintf("%s - %s", formatClock(startHour), formatClock(endHour))
}

// formatClock renders a fractional hour as "h:MM AM/PM", 12-hour clock,
// leading-zero minutes, noon as "12:00 PM", midnight as "12:00 AM".
func formatClock(hour float64) string {
	h := int(hour)
	m := int(math.Round((hour - float64(h)) * 60))
	if m == 60 {
		m = 0
		h++
	}
	ampm := "AM"
	if h%24 >= 12 {
		ampm = "PM"
	}
	displayHour := h % 12
	if displayHour == 0 {
		displayHour = 12
	}
	// An exact-noon hour (12) renders as 12:00 PM, and midnight (hour 0,
	// or hour 24 at the end of a day) renders as 12:00 AM - handled by the
	// h%24>=12 test and the displayHour==0 fold above.
	return fmt.Sprintf("%d:%02d %s", displayHour, m, ampm)
}

// InDayRange reports whether [startSlot, startSlot+duration) stays
// within a single day — the invariant every session must satisfy.
func (g Grid) InDayRange(startSlot, duration int) bool {
	day := g.Day(startSlot)
	return startSlot+duration <= (day+1)*g.SlotsPerDay
}
