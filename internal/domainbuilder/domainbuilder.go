// Package domainbuilder computes the legal start-slot domain for a
// session given its category, in-phase occupancy, and the lunch
// policy. See spec.md §4.3.
package domainbuilder

import (
	"github.com/deptsched/coursetime/internal/timegrid"
)

// GEC/MAT's hard-coded offsets (7:00, 8:30, 10:00, 12:30, 14:00,
// 15:30, 17:30, 19:00 for a 7:00-start grid) and NSTP's (9:00, 13:00,
// 15:00). spec.md §9 Open Question 4: these are literal offsets tied to
// a 7:00 start, preserved as-is per spec.
var gecOffsets = []int{0, 3, 6, 11, 14, 17, 21, 24}
var nstpOffsets = []int{4, 12, 16}

// Flags carries the category flags DomainBuilder needs. PracticumWindow
// is 0 (days 0-2) or 1 (days 3-5); its zero value is meaningless unless
// IsPracticum is set.
type Flags struct {
	IsGec           bool
	IsNSTP          bool
	IsPE            bool
	IsPracticum     bool
	PracticumWindow int
}

// Build returns the legal start slots for a session of the given
// duration, given the slots already occupied in its section
// (global slot indices) and the category flags. Strict (no lunch
// overlap) candidates precede relaxed (lunch-overlapping) ones.
func Build(grid timegrid.Grid, durationSlots int, occupied map[int]struct{}, flags Flags) []int {
	lunch := grid.LunchSlots()

	var strict, relaxed []int

	for day := 0; day < grid.NumDays; day++ {
		if !dayAllowed(day, flags) {
			continue
		}

		for _, offset := range candidateOffsets(grid, day, durationSlots, occupied, flags) {
			start := grid.GlobalSlot(day, offset)
			if !grid.InDayRange(start, durationSlots) {
				continue
			}
			if rangeIntersects(start, durationSlots, occupied) {
				continue
			}

			if rangeOverlapsLunch(start, durationSlots, grid.SlotsPerDay, lunch) {
				relaxed = append(relaxed, start)
			} else {
				strict = append(strict, start)
			}
		}
	}

	combined := make([]int, 0, len(strict)+len(relaxed))
	combined = append(combined, strict...)
	combined = append(combined, relaxed...)
	return combined
}

func dayAllowed(day int, flags Flags) bool {
	switch {
	case flags.IsNSTP:
		return day == 4 || day == 5
	case flags.IsGec:
		return day >= 0 && day <= 3
	case flags.IsPracticum:
		if flags.PracticumWindow == 0 {
			return day <= 2
		}
		return day >= 3
	default:
		return true
	}
}

// candidateOffsets returns the in-day start offsets to try before
// fit/collision/lunch filtering. PE picks offsets adjacent to existing
// in-day occupancy; GEC/NSTP use their fixed offset sets; everything
// else tries every offset.
func candidateOffsets(grid timegrid.Grid, day, durationSlots int, occupied map[int]struct{}, flags Flags) []int {
	switch {
	case flags.IsPE:
		return peAdjacentOffsets(grid, day, durationSlots, occupied)
	case flags.IsGec:
		return gecOffsets
	case flags.IsNSTP:
		return nstpOffsets
	default:
		offsets := make([]int, 0, grid.SlotsPerDay)
		for o := 0; o <= grid.SlotsPerDay-durationSlots; o++ {
			offsets = append(offsets, o)
		}
		return offsets
	}
}

func peAdjacentOffsets(grid timegrid.Grid, day, durationSlots int, occupied map[int]struct{}) []int {
	base := day * grid.SlotsPerDay
	minOffset, maxOffset := -1, -1
	for slot := range occupied {
		if slot < base || slot >= base+grid.SlotsPerDay {
			continue
		}
		offset := slot - base
		if minOffset == -1 || offset < minOffset {
			minOffset = offset
		}
		if offset > maxOffset {
			maxOffset = offset
		}
	}
	if minOffset == -1 {
		return []int{0}
	}

	var offsets []int
	if before := minOffset - durationSlots; before >= 0 {
		offsets = append(offsets, before)
	}
	if after := maxOffset + 1; after+durationSlots <= grid.SlotsPerDay {
		offsets = append(offsets, after)
	}
	return offsets
}

func rangeIntersects(start, duration int, occupied map[int]struct{}) bool {
	for s := start; s < start+duration; s++ {
		if _, ok := occupied[s]; ok {
			return true
		}
	}
	return false
}

func rangeOverlapsLunch(start, duration, slotsPerDay int, lunch map[int]struct{}) bool {
	for s := start; s < start+duration; s++ {
		if _, ok := lunch[s%slotsPerDay]; ok {
			return true
		}
	}
	return false
}
