package solver

import (
	"math/rand"
	"sort"

	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/sessionfactory"
	"github.com/deptsched/coursetime/internal/timegrid"
)

// assignment is one session's tentative placement within a single
// search attempt; it is only copied onto the real *models.Session once
// a whole attempt succeeds.
type assignment struct {
	Day       int
	Start     int
	RoomIndex int
}

// sessionIndex precomputes, once per Solve call and shared read-only
// across every worker goroutine, the per-day breakdown of a session's
// static domain.
type sessionIndex struct {
	domain      []int
	domainByDay map[int][]int
}

func buildIndex(sessions []*models.Session, grid timegrid.Grid) map[*models.Session]*sessionIndex {
	out := make(map[*models.Session]*sessionIndex, len(sessions))
	for _, s := range sessions {
		byDay := make(map[int][]int)
		for _, slot := range s.Domain {
			d := grid.Day(slot)
			byDay[d] = append(byDay[d], slot)
		}
		out[s] = &sessionIndex{domain: s.Domain, domainByDay: byDay}
	}
	return out
}

// runAttempt makes one randomized pass at placing every session in the
// model. It mutates nothing outside its own local state; callers must
// copy a successful result onto the real sessions themselves.
func runAttempt(rng *rand.Rand, model *Model, grid timegrid.Grid, index map[*models.Session]*sessionIndex, basePreblocked map[models.RoomKey]map[int]struct{}) (map[*models.Session]assignment, bool) {
	sectionBusy := make(map[models.SectionKey]map[int]struct{})
	capIdx := buildCapIndex(model.DailyCapGroups)
	assigned := make(map[*models.Session]assignment, len(model.Sessions))
	handled := make(map[*models.Session]bool, len(model.Sessions))

	commit := func(sess *models.Session, day, start int) {
		for _, key := range sess.SectionKeys {
			busy := sectionBusy[key]
			if busy == nil {
				busy = make(map[int]struct{})
				sectionBusy[key] = busy
			}
			for s := start; s < start+sess.Duration; s++ {
				busy[s] = struct{}{}
			}
		}
		if sess.Physical {
			if gc := capIdx[sess]; gc != nil {
				gc.counts[day]++
			}
		}
		assigned[sess] = assignment{Day: day, Start: start, RoomIndex: -1}
		handled[sess] = true
	}

	for _, g := range model.ConsecutiveGroups {
		if !placeConsecutive(g, index, grid, rng, sectionBusy, commit) {
			return nil, false
		}
	}

	for _, pair := range model.GecPairs {
		if handled[pair.First] || handled[pair.Second] {
			continue
		}
		if !placeGecPair(pair, index, grid, rng, sectionBusy, capIdx, commit) {
			return nil, false
		}
	}

	for _, group := range model.AllDifferentDayGroups {
		usedDays := make(map[int]bool)
		for _, s := range group {
			if handled[s] {
				usedDays[assigned[s].Day] = true
			}
		}
		for _, s := range group {
			if handled[s] {
				continue
			}
			day, start, ok := placeFree(s, index[s], grid, rng, sectionBusy, usedDays, capIdx)
			if !ok {
				return nil, false
			}
			commit(s, day, start)
			usedDays[day] = true
		}
	}

	for _, s := range model.Sessions {
		if handled[s] {
			continue
		}
		day, start, ok := placeFree(s, index[s], grid, rng, sectionBusy, nil, capIdx)
		if !ok {
			return nil, false
		}
		commit(s, day, start)
	}

	if !assignRooms(model, assigned, rng, basePreblocked) {
		return nil, false
	}

	return assigned, true
}

func placeFree(sess *models.Session, idx *sessionIndex, grid timegrid.Grid, rng *rand.Rand, sectionBusy map[models.SectionKey]map[int]struct{}, excludeDays map[int]bool, capIdx map[*models.Session]*groupCounter) (int, int, bool) {
	for _, start := range rotate(idx.domain, rng) {
		day := grid.Day(start)
		if excludeDays != nil && excludeDays[day] {
			continue
		}
		if !sectionFits(sess, start, sectionBusy) {
			continue
		}
		if sess.Physical {
			if gc := capIdx[sess]; gc != nil && gc.counts[day] >= sessionfactory.MaxPhysicalSessionsPerDay {
				continue
			}
		}
		return day, start, true
	}
	return 0, 0, false
}

func placeGecPair(pair models.GecPair, index map[*models.Session]*sessionIndex, grid timegrid.Grid, rng *rand.Rand, sectionBusy map[models.SectionKey]map[int]struct{}, capIdx map[*models.Session]*groupCounter, commit func(*models.Session, int, int)) bool {
	allowedPairs := [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 2}}
	rng.Shuffle(len(allowedPairs), func(i, j int) { allowedPairs[i], allowedPairs[j] = allowedPairs[j], allowedPairs[i] })

	idxA, idxB := index[pair.First], index[pair.Second]

	for _, dp := range allowedPairs {
		d1, d2 := dp[0], dp[1]
		offsetsA := make(map[int]int, len(idxA.domainByDay[d1]))
		for _, s := range idxA.domainByDay[d1] {
			offsetsA[grid.Offset(s)] = s
		}
		for _, s2 := range shuffleCopy(idxB.domainByDay[d2], rng) {
			off := grid.Offset(s2)
			s1, ok := offsetsA[off]
			if !ok {
				continue
			}
			if !sectionFits(pair.First, s1, sectionBusy) || !sectionFits(pair.Second, s2, sectionBusy) {
				continue
			}
			if pair.First.Physical {
				if gc := capIdx[pair.First]; gc != nil && gc.counts[d1] >= sessionfactory.MaxPhysicalSessionsPerDay {
					continue
				}
			}
			if pair.Second.Physical {
				if gc := capIdx[pair.Second]; gc != nil && gc.counts[d2] >= sessionfactory.MaxPhysicalSessionsPerDay {
					continue
				}
			}
			commit(pair.First, d1, s1)
			commit(pair.Second, d2, s2)
			return true
		}
	}
	return false
}

func placeConsecutive(group models.ConsecutiveGroup, index map[*models.Session]*sessionIndex, grid timegrid.Grid, rng *rand.Rand, sectionBusy map[models.SectionKey]map[int]struct{}, commit func(*models.Session, int, int)) bool {
	n := len(group.Sessions)
	if n == 0 {
		return true
	}
	idx0 := index[group.Sessions[0]]
	days := make([]int, 0, len(idx0.domainByDay))
	for d := range idx0.domainByDay {
		days = append(days, d)
	}
	sort.Ints(days)
	days = shuffleCopy(days, rng)

	key := group.Sessions[0].SectionKeys[0]
	base := sectionBusy[key]

	for _, d0 := range days {
		if d0+n-1 >= grid.NumDays {
			continue
		}
		temp := cloneIntSet(base)
		type placement struct{ day, start int }
		chosen := make([]placement, 0, n)
		ok := true
		for i := 0; i < n; i++ {
			day := d0 + i
			sess := group.Sessions[i]
			candidates := shuffleCopy(index[sess].domainByDay[day], rng)
			found := -1
			for _, start := range candidates {
				free := true
				for s := start; s < start+sess.Duration; s++ {
					if _, busy := temp[s]; busy {
						free = false
						break
					}
				}
				if free {
					found = start
					break
				}
			}
			if found == -1 {
				ok = false
				break
			}
			for s := found; s < found+sess.Duration; s++ {
				temp[s] = struct{}{}
			}
			chosen = append(chosen, placement{day: day, start: found})
		}
		if !ok {
			continue
		}
		for i, c := range chosen {
			commit(group.Sessions[i], c.day, c.start)
		}
		return true
	}
	return false
}

// assignRooms is the final pass: room-consistency groups first (every
// physical session in the group takes the same room), then any
// remaining standalone physical session.
func assignRooms(model *Model, assigned map[*models.Session]assignment, rng *rand.Rand, basePreblocked map[models.RoomKey]map[int]struct{}) bool {
	roomBusy := make(map[models.RoomKey]map[int]struct{})
	roomSlots := func(key models.RoomKey) map[int]struct{} {
		if set, ok := roomBusy[key]; ok {
			return set
		}
		set := cloneIntSet(basePreblocked[key])
		roomBusy[key] = set
		return set
	}

	roomHandled := make(map[*models.Session]bool)
	for _, group := range model.RoomConsistencyGroups {
		roomType := group[0].RoomType
		count := model.RoomCounts[roomType]
		if count == 0 {
			return false
		}
		placed := false
		for _, candidate := range shuffleCopy(sortedRoomIndices(count), rng) {
			key := models.RoomKey{RoomType: roomType, Index: candidate}
			slots := roomSlots(key)
			ok := true
			for _, s := range group {
				a := assigned[s]
				for sl := a.Start; sl < a.Start+s.Duration; sl++ {
					if _, busy := slots[sl]; busy {
						ok = false
						break
					}
				}
				if !ok {
					break
				}
			}
			if !ok {
				continue
			}
			for _, s := range group {
				a := assigned[s]
				for sl := a.Start; sl < a.Start+s.Duration; sl++ {
					slots[sl] = struct{}{}
				}
				a.RoomIndex = candidate
				assigned[s] = a
				roomHandled[s] = true
			}
			placed = true
			break
		}
		if !placed {
			return false
		}
	}

	for _, s := range model.Sessions {
		if !s.Physical || roomHandled[s] {
			continue
		}
		count := model.RoomCounts[s.RoomType]
		if count == 0 {
			return false
		}
		a := assigned[s]
		placed := false
		for _, candidate := range shuffleCopy(sortedRoomIndices(count), rng) {
			key := models.RoomKey{RoomType: s.RoomType, Index: candidate}
			slots := roomSlots(key)
			ok := true
			for sl := a.Start; sl < a.Start+s.Duration; sl++ {
				if _, busy := slots[sl]; busy {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			for sl := a.Start; sl < a.Start+s.Duration; sl++ {
				slots[sl] = struct{}{}
			}
			a.RoomIndex = candidate
			assigned[s] = a
			placed = true
			break
		}
		if !placed {
			return false
		}
	}
	return true
}

func sectionFits(sess *models.Session, start int, sectionBusy map[models.SectionKey]map[int]struct{}) bool {
	for _, key := range sess.SectionKeys {
		busy := sectionBusy[key]
		for s := start; s < start+sess.Duration; s++ {
			if _, ok := busy[s]; ok {
				return false
			}
		}
	}
	return true
}

func rotate(domain []int, rng *rand.Rand) []int {
	n := len(domain)
	if n == 0 {
		return nil
	}
	off := rng.Intn(n)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = domain[(off+i)%n]
	}
	return out
}

func shuffleCopy(in []int, rng *rand.Rand) []int {
	out := make([]int, len(in))
	copy(out, in)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func cloneIntSet(in map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
