// Package solver hand-rolls the bounded, randomized-restart search that
// stands in for a CP-SAT model: build every session's domain once
// (SessionFactory already did that), then search for a joint
// day/start/room assignment that respects every relation the factory
// attached to the sessions, giving up after a phase-specific timeout.
//
// There is no constraint-programming solver library in the available
// dependency corpus (no ortools/cp-sat equivalent, no general-purpose
// CSP/SAT package), so this package plays that role directly, grounded
// on the teacher's own heuristic `schedulerState` scan-and-commit style
// and on the multi-attempt randomized search used elsewhere in the
// example pack.
package solver

import (
	"sort"

	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/occupancy"
)

// Model is every session and cross-session relation one phase's worth
// of courses produced, aggregated from each course's sessionfactory.Plan.
type Model struct {
	Sessions              []*models.Session
	DailyCapGroups        [][]*models.Session
	AllDifferentDayGroups [][]*models.Session
	GecPairs              []models.GecPair
	ConsecutiveGroups     []models.ConsecutiveGroup
	RoomConsistencyGroups [][]*models.Session

	RoomCounts map[string]int
}

// NewModel merges the per-course plans produced for one phase into a
// single Model ready for the solver.
func NewModel(plans []*models.Plan, rooms models.RoomCatalog) *Model {
	m := &Model{RoomCounts: make(map[string]int)}
	for roomType, names := range rooms {
		m.RoomCounts[roomType] = len(names)
	}
	for _, p := range plans {
		m.Sessions = append(m.Sessions, p.Sessions...)
		m.DailyCapGroups = append(m.DailyCapGroups, p.DailyCapGroups...)
		m.AllDifferentDayGroups = append(m.AllDifferentDayGroups, p.AllDifferentDayGroups...)
		m.GecPairs = append(m.GecPairs, p.GecPairs...)
		m.ConsecutiveGroups = append(m.ConsecutiveGroups, p.ConsecutiveGroups...)
		m.RoomConsistencyGroups = append(m.RoomConsistencyGroups, p.RoomConsistencyGroups...)
	}
	return m
}

// preblockedRooms expands the occupancy ledger's coalesced runs for
// every room back into a flat slot set, one per RoomKey, for the
// search's room no-overlap check. Coalescing first (rather than
// consulting the ledger's raw slot sets) keeps this step in the same
// shape as the blockage-interval construction the design calls for,
// even though either source yields the same membership test here.
func preblockedRooms(ledger *occupancy.Ledger) map[models.RoomKey]map[int]struct{} {
	out := make(map[models.RoomKey]map[int]struct{})
	for _, key := range ledger.RoomKeys() {
		slots := ledger.RoomSlots(key.RoomType, key.Index)
		runs := occupancy.CoalesceRuns(slots)
		set := make(map[int]struct{})
		for _, run := range runs {
			start, length := run[0], run[1]
			for s := start; s < start+length; s++ {
				set[s] = struct{}{}
			}
		}
		out[key] = set
	}
	return out
}

// groupCounter tracks, per day, how many physical sessions of one
// DailyCapGroup have already been committed in the current attempt.
type groupCounter struct {
	counts map[int]int
}

func buildCapIndex(groups [][]*models.Session) map[*models.Session]*groupCounter {
	idx := make(map[*models.Session]*groupCounter)
	for _, group := range groups {
		gc := &groupCounter{counts: make(map[int]int)}
		for _, s := range group {
			idx[s] = gc
		}
	}
	return idx
}

// sortedRoomIndices returns 0..n-1, used so room-selection order can be
// shuffled deterministically per attempt.
func sortedRoomIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	sort.Ints(out)
	return out
}
