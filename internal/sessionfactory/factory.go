// Package sessionfactory expands one course into the sessions a
// PhaseSolver must place, along with the relations (all-different-day
// groups, GEC pairings, daily caps, room consistency, practicum
// consecutive-day chains) those sessions must satisfy. See spec.md §4.4.
package sessionfactory

import (
	"math"

	"github.com/deptsched/coursetime/internal/domainbuilder"
	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/occupancy"
	"github.com/deptsched/coursetime/internal/timegrid"
)

const (
	// PhysicalSessionLimit caps how many of one course-block-kind's
	// sessions get a room variable at all; later sessions go online.
	PhysicalSessionLimit = 6
	// MaxPhysicalSessionsPerDay bounds how many physical sessions of
	// one course-block may land on the same day.
	MaxPhysicalSessionsPerDay = 2
	slotHours                 = 0.5
)

// Factory builds Plans for one phase's worth of courses. Rooms is
// expected to already be normalized and, per room type, shuffled, so
// the first physical sessions drawn against it land on a varied set of
// rooms across runs.
type Factory struct {
	Grid     timegrid.Grid
	Rooms    models.RoomCatalog
	IDs      *IDSequence
	Balancer *Balancer
}

// New returns a Factory. ids and balancer are shared across every
// course and phase of one run.
func New(grid timegrid.Grid, rooms models.RoomCatalog, ids *IDSequence, balancer *Balancer) *Factory {
	return &Factory{Grid: grid, Rooms: rooms, IDs: ids, Balancer: balancer}
}

// Build expands one course into a Plan. It returns ok=false when any
// session in the course has an empty domain, signaling the caller
// (the Orchestrator) that the whole phase is infeasible.
func (f *Factory) Build(course models.Course, ledger *occupancy.Ledger) (*models.Plan, bool) {
	if course.IsPracticum() {
		return f.buildPracticum(course, ledger)
	}
	return f.buildRegular(course, ledger)
}

func (f *Factory) buildRegular(course models.Course, ledger *occupancy.Ledger) (*models.Plan, bool) {
	blockLetters := course.BlockLetters()
	isNSTP := course.IsNSTP()
	isGec := course.IsGecMat()
	isPE := course.IsPE()

	plan := &models.Plan{}

	if course.UnitsLecture > 0 {
		shouldMerge := course.YearLevel == 1 || course.YearLevel == 2 || isNSTP
		count, dur := lectureCountDuration(course.UnitsLecture, isPE, isNSTP)
		flags := domainbuilder.Flags{IsGec: isGec, IsNSTP: isNSTP, IsPE: isPE}
		mergeFlags := domainbuilder.Flags{IsGec: isGec, IsNSTP: isNSTP}

		processed := make(map[int]bool, len(blockLetters))
		for i, blk := range blockLetters {
			if processed[i] {
				continue
			}

			if shouldMerge && i+1 < len(blockLetters) {
				batch, ok := f.createSharedSession(course, blk, blockLetters[i+1], models.KindLecture, count, dur, mergeFlags, isGec, ledger)
				if ok {
					plan.Sessions = append(plan.Sessions, batch...)
					addGroups(plan, batch, isGec)
					processed[i], processed[i+1] = true, true
					continue
				}
			}

			batch, ok := f.createConstrainedSession(course, blk, models.KindLecture, count, dur, flags, ledger)
			if !ok {
				return nil, false
			}
			plan.Sessions = append(plan.Sessions, batch...)
			addGroups(plan, batch, isGec)
			processed[i] = true
		}
	}

	if course.UnitsLab > 0 {
		count, dur := labCountDuration(course.UnitsLab)
		for _, blk := range blockLetters {
			batch, ok := f.createConstrainedSession(course, blk, models.KindLab, count, dur, domainbuilder.Flags{}, ledger)
			if !ok {
				return nil, false
			}
			plan.Sessions = append(plan.Sessions, batch...)
			addGroups(plan, batch, false)
		}
	}

	for _, blk := range blockLetters {
		var blkSess []*models.Session
		for _, s := range plan.Sessions {
			if containsBlock(s.Blocks, blk) {
				blkSess = append(blkSess, s)
			}
		}
		if len(blkSess) > 0 {
			plan.DailyCapGroups = append(plan.DailyCapGroups, blkSess)
		}
	}

	return plan, true
}

func (f *Factory) buildPracticum(course models.Course, ledger *occupancy.Ledger) (*models.Plan, bool) {
	totalHours := course.UnitsLab*3 + course.UnitsLecture
	if totalHours == 0 {
		totalHours = 6
	}
	numDays := 2
	if totalHours > 18 {
		numDays = 3
	}
	hoursPerDay := totalHours / float64(numDays)
	slotsPerDay := int(math.Ceil(hoursPerDay / slotHours))

	plan := &models.Plan{}
	for _, blk := range course.BlockLetters() {
		key := models.SectionKey{Program: course.Program, Year: course.YearLevel, Block: blk}
		occupied := ledger.SectionSlots(key)

		window := f.Balancer.PreferredWindow()
		domain := domainbuilder.Build(f.Grid, slotsPerDay, occupied, domainbuilder.Flags{IsPracticum: true, PracticumWindow: window})
		if len(domain) == 0 {
			window = 1 - window
			domain = domainbuilder.Build(f.Grid, slotsPerDay, occupied, domainbuilder.Flags{IsPracticum: true, PracticumWindow: window})
		}
		if len(domain) == 0 {
			return nil, false
		}
		f.Balancer.NoteOffered(window)

		group := models.ConsecutiveGroup{}
		for i := 0; i < numDays; i++ {
			s := &models.Session{
				BaseID:      f.IDs.Next(),
				CourseCode:  course.CourseCode,
				Title:       course.Title,
				Program:     course.Program,
				Year:        course.YearLevel,
				Blocks:      []string{blk},
				Kind:        models.KindPracticum,
				Duration:    slotsPerDay,
				Domain:      domain,
				SectionKeys: []models.SectionKey{key},
				RoomIndex:   -1,
			}
			plan.Sessions = append(plan.Sessions, s)
			group.Sessions = append(group.Sessions, s)
		}
		plan.ConsecutiveGroups = append(plan.ConsecutiveGroups, group)
	}
	return plan, true
}

func (f *Factory) createConstrainedSession(course models.Course, blk string, kind models.SessionKind, count, dur int, flags domainbuilder.Flags, ledger *occupancy.Ledger) ([]*models.Session, bool) {
	key := models.SectionKey{Program: course.Program, Year: course.YearLevel, Block: blk}
	occupied := ledger.SectionSlots(key)

	domain := domainbuilder.Build(f.Grid, dur, occupied, flags)
	if len(domain) == 0 {
		return nil, false
	}

	roomType := string(kind)
	rooms := f.Rooms.RoomsOf(roomType)

	batch := make([]*models.Session, 0, count)
	for i := 0; i < count; i++ {
		batch = append(batch, &models.Session{
			BaseID:      f.IDs.Next(),
			CourseCode:  course.CourseCode,
			Title:       course.Title,
			Program:     course.Program,
			Year:        course.YearLevel,
			Blocks:      []string{blk},
			Kind:        kind,
			Duration:    dur,
			RoomType:    roomType,
			Physical:    i < PhysicalSessionLimit && len(rooms) > 0,
			Domain:      domain,
			SectionKeys: []models.SectionKey{key},
			RoomIndex:   -1,
		})
	}
	return batch, true
}

func (f *Factory) createSharedSession(course models.Course, blk1, blk2 string, kind models.SessionKind, count, dur int, flags domainbuilder.Flags, isGec bool, ledger *occupancy.Ledger) ([]*models.Session, bool) {
	key1 := models.SectionKey{Program: course.Program, Year: course.YearLevel, Block: blk1}
	key2 := models.SectionKey{Program: course.Program, Year: course.YearLevel, Block: blk2}
	combined := ledger.SectionSlots(key1)
	for s := range ledger.SectionSlots(key2) {
		combined[s] = struct{}{}
	}

	domain := domainbuilder.Build(f.Grid, dur, combined, flags)
	if len(domain) == 0 {
		return nil, false
	}

	roomType := string(kind)
	rooms := f.Rooms.RoomsOf(roomType)

	batch := make([]*models.Session, 0, count)
	for i := 0; i < count; i++ {
		batch = append(batch, &models.Session{
			BaseID:      f.IDs.Next(),
			CourseCode:  course.CourseCode,
			Title:       course.Title,
			Program:     course.Program,
			Year:        course.YearLevel,
			Blocks:      []string{blk1, blk2},
			Kind:        kind,
			Duration:    dur,
			RoomType:    roomType,
			Physical:    i < PhysicalSessionLimit && len(rooms) > 0,
			Domain:      domain,
			SectionKeys: []models.SectionKey{key1, key2},
			RoomIndex:   -1,
		})
	}
	return batch, true
}

// addGroups folds one just-created batch of sessions into the plan's
// all-different-day, GEC-pair and room-consistency groups.
func addGroups(plan *models.Plan, batch []*models.Session, isGec bool) {
	if len(batch) > 1 {
		plan.AllDifferentDayGroups = append(plan.AllDifferentDayGroups, batch)
	}
	if isGec && len(batch) == 2 {
		plan.GecPairs = append(plan.GecPairs, models.GecPair{First: batch[0], Second: batch[1]})
	}

	var physical []*models.Session
	for _, s := range batch {
		if s.Physical {
			physical = append(physical, s)
		}
	}
	if len(physical) > 1 {
		plan.RoomConsistencyGroups = append(plan.RoomConsistencyGroups, physical)
	}
}

func containsBlock(blocks []string, blk string) bool {
	for _, b := range blocks {
		if b == blk {
			return true
		}
	}
	return false
}

// lectureCountDuration mirrors the original's session-count/duration
// cascade: PE gets one long block split in two past 4 hours; everything
// else splits past 1.5 hours unless it's NSTP.
func lectureCountDuration(lecUnits float64, isPE, isNSTP bool) (int, int) {
	totalSlots := int(lecUnits * 2)
	if isPE {
		count, dur := 1, totalSlots
		if dur > 8 {
			count, dur = 2, totalSlots/2
		}
		return count, dur
	}
	if totalSlots > 3 && !isNSTP {
		return 2, totalSlots / 2
	}
	return 1, totalSlots
}

// labCountDuration mirrors the original's lab rule: exactly one unit
// becomes two 1.5-hour blocks, anything else splits its total hours
// into two equal blocks.
func labCountDuration(labUnits float64) (int, int) {
	if labUnits == 1 {
		return 2, 3
	}
	total := int(labUnits * 6)
	return 2, total / 2
}
