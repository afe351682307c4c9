package domainbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deptsched/coursetime/internal/timegrid"
)

func TestBuildNSTPOnlyFridaySaturday(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	domain := Build(g, 6, map[int]struct{}{}, Flags{IsNSTP: true})
	assert.NotEmpty(t, domain)
	for _, s := range domain {
		day := g.Day(s)
		assert.Contains(t, []int{4, 5}, day)
		assert.Contains(t, nstpOffsets, g.Offset(s))
	}
}

func TestBuildGecOnlyMonToThuFixedOffsets(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	domain := Build(g, 3, map[int]struct{}{}, Flags{IsGec: true})
	assert.NotEmpty(t, domain)
	for _, s := range domain {
		day := g.Day(s)
		assert.True(t, day >= 0 && day <= 3)
		assert.Contains(t, gecOffsets, g.Offset(s))
	}
}

func TestBuildPracticumWindowRestriction(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	early := Build(g, 10, map[int]struct{}{}, Flags{IsPracticum: true, PracticumWindow: 0})
	for _, s := range early {
		assert.LessOrEqual(t, g.Day(s), 2)
	}
	late := Build(g, 10, map[int]struct{}{}, Flags{IsPracticum: true, PracticumWindow: 1})
	for _, s := range late {
		assert.GreaterOrEqual(t, g.Day(s), 3)
	}
}

func TestBuildPEEmptyDayOnlyOffsetZero(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	domain := Build(g, 4, map[int]struct{}{}, Flags{IsPE: true})
	for _, s := range domain {
		assert.Equal(t, 0, g.Offset(s))
	}
}

func TestBuildPEAdjacentToOccupancy(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	// Occupy day 0, offsets [10, 11]; a PE session of duration 2 should be
	// offered on day 0 only immediately before (offset 8) or after
	// (offset 12) the existing occupancy.
	occupied := map[int]struct{}{
		g.GlobalSlot(0, 10): {},
		g.GlobalSlot(0, 11): {},
	}
	domain := Build(g, 2, occupied, Flags{IsPE: true})
	for _, s := range domain {
		if g.Day(s) != 0 {
			continue
		}
		assert.Contains(t, []int{8, 12}, g.Offset(s))
	}
}

func TestBuildRejectsCollisionWithOccupied(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	occupied := map[int]struct{}{g.GlobalSlot(1, 5): {}}
	domain := Build(g, 2, occupied, Flags{})
	for _, s := range domain {
		if g.Day(s) != 1 {
			continue
		}
		o := g.Offset(s)
		assert.False(t, o <= 5 && 5 < o+2, "slot 5 on day 1 must not be double-booked")
	}
}

func TestBuildStrictPrecedesRelaxedOnLunchOverlap(t *testing.T) {
	g := timegrid.New(7, 21, 6)
	domain := Build(g, 2, map[int]struct{}{}, Flags{})
	lunch := g.LunchSlots()
	sawRelaxed := false
	for _, s := range domain {
		overlaps := false
		for d := 0; d < 2; d++ {
			if _, ok := lunch[g.Offset(s+d)]; ok {
				overlaps = true
			}
		}
		if overlaps {
			sawRelaxed = true
		} else {
			assert.False(t, sawRelaxed, "a strict candidate appeared after a relaxed one")
		}
	}
}

func TestBuildNoLunchWindowWhenGridStartsAtNoon(t *testing.T) {
	g := timegrid.New(12, 21, 6)
	domain := Build(g, 2, map[int]struct{}{}, Flags{})
	assert.NotEmpty(t, domain)
	lunch := g.LunchSlots()
	assert.Empty(t, lunch)
}
