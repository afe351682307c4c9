// Package orchestrator drives one end-to-end schedule generation run:
// partition courses into phases, expand each phase's courses into
// sessions, solve the phase, fold its placements into the occupancy
// ledger, and move on to the next phase in the fixed solve order. See
// spec.md §4.5.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/occupancy"
	"github.com/deptsched/coursetime/internal/partition"
	"github.com/deptsched/coursetime/internal/sessionfactory"
	"github.com/deptsched/coursetime/internal/solver"
	"github.com/deptsched/coursetime/internal/timegrid"
	apperrors "github.com/deptsched/coursetime/pkg/errors"
)

// Settings carries the tunables the original hard-codes as module
// constants: per-phase search timeout composition and search worker
// count.
type Settings struct {
	Workers              int
	Seed                 int64
	BaseTimeoutSeconds   int
	PerCourseSeconds     int
	GecBoostSeconds      int
	PeBoostSeconds       int
	MajorsY3BoostSeconds int
}

// Reporter receives coarse progress updates (0-100) as a run advances,
// and -1 if the run fails with an internal (non-infeasibility) error.
type Reporter func(value int)

// PhaseObserver is notified once a phase finishes solving, for metrics.
type PhaseObserver func(phase models.Phase, elapsed time.Duration, attempts int, feasible bool)

// Orchestrator holds the read-only snapshots a run needs: the time
// grid, room catalog, and day names (index i is the grid's day i).
type Orchestrator struct {
	Grid     timegrid.Grid
	Rooms    models.RoomCatalog
	Days     []string
	Settings Settings
}

// New returns an Orchestrator over the given snapshots and settings.
// The room catalog is normalized and each room list is shuffled once,
// seeded from settings.Seed.
func New(grid timegrid.Grid, rooms models.RoomCatalog, days []string, settings Settings) *Orchestrator {
	normalized := rooms.Normalize()
	roomTypes := make([]string, 0, len(normalized))
	for roomType := range normalized {
		roomTypes = append(roomTypes, roomType)
	}
	sort.Strings(roomTypes)
	rng := rand.New(rand.NewSource(settings.Seed))
	for _, roomType := range roomTypes {
		list := normalized[roomType]
		rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	}
	return &Orchestrator{Grid: grid, Rooms: normalized, Days: days, Settings: settings}
}

// Run solves every phase in order and returns the combined schedule.
// report, if non-nil, is called with values in [50, 95] as phases
// complete (the caller is expected to have already reported the 5-50
// range while loading data). A returned error is always
// apperrors.ErrScheduleInfeasible for an infeasible phase; any other
// error reflects an unexpected internal failure.
func (o *Orchestrator) Run(ctx context.Context, courses []models.Course, report Reporter, observe PhaseObserver) ([]models.ScheduleEvent, error) {
	if report != nil {
		report(52)
	}

	grouped := partition.GroupByPhase(courses)
	phases := partition.Partition(courses)

	ids := sessionfactory.NewIDSequence()
	balancer := sessionfactory.NewBalancer()
	ledger := occupancy.New()

	var combined []models.ScheduleEvent
	total := len(phases)

	for i, phase := range phases {
		phaseCourses := grouped[phase]
		if len(phaseCourses) == 0 {
			continue
		}

		timeout := o.phaseTimeout(phase, len(phaseCourses))
		factory := sessionfactory.New(o.Grid, o.Rooms, ids, balancer)

		plans := make([]*models.Plan, 0, len(phaseCourses))
		for _, c := range phaseCourses {
			plan, ok := factory.Build(c, ledger)
			if !ok {
				if observe != nil {
					observe(phase, 0, 0, false)
				}
				return nil, apperrors.ErrScheduleInfeasible
			}
			plans = append(plans, plan)
		}

		model := solver.NewModel(plans, o.Rooms)
		solveCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		feasible, attempts := solver.Solve(solveCtx, model, o.Grid, ledger, o.Settings.Workers, o.Settings.Seed)
		elapsed := time.Since(start)
		cancel()

		if observe != nil {
			observe(phase, elapsed, attempts, feasible)
		}
		if !feasible {
			return nil, apperrors.ErrScheduleInfeasible
		}

		o.absorb(ledger, model.Sessions, balancer)
		combined = append(combined, o.extract(model.Sessions)...)

		if report != nil {
			report(50 + int(float64(i+1)/float64(total)*45))
		}
	}

	return combined, nil
}

// phaseTimeout mirrors base_timeout = 30 + courses*2, with phase-specific boosts.
func (o *Orchestrator) phaseTimeout(phase models.Phase, numCourses int) time.Duration {
	seconds := o.Settings.BaseTimeoutSeconds + numCourses*o.Settings.PerCourseSeconds
	switch phase {
	case models.PhaseGecMat:
		seconds += o.Settings.GecBoostSeconds
	case models.PhasePE:
		seconds += o.Settings.PeBoostSeconds
	case models.PhaseMajorsY3:
		seconds += o.Settings.MajorsY3BoostSeconds
	}
	return time.Duration(seconds) * time.Second
}

// absorb folds one phase's placements into the occupancy ledger so
// later phases see them as blockages, and re-notes practicum load
// against the day each session actually landed on.
func (o *Orchestrator) absorb(ledger *occupancy.Ledger, sessions []*models.Session, balancer *sessionfactory.Balancer) {
	for _, s := range sessions {
		slots := make([]int, s.Duration)
		for i := 0; i < s.Duration; i++ {
			slots[i] = s.Start + i
		}
		for _, key := range s.SectionKeys {
			ledger.BlockSection(key, slots)
		}
		if s.Physical && s.RoomIndex != -1 {
			ledger.BlockRoom(s.RoomType, s.RoomIndex, slots)
		}
		if s.Kind == models.KindPracticum {
			balancer.NoteExtracted(s.Day)
		}
	}
}

// extract turns solved sessions into output events, one per block (two
// for a shared session).
func (o *Orchestrator) extract(sessions []*models.Session) []models.ScheduleEvent {
	events := make([]models.ScheduleEvent, 0, len(sessions))
	for _, s := range sessions {
		room := "online"
		if s.Physical && s.RoomIndex != -1 {
			names := o.Rooms.RoomsOf(s.RoomType)
			if s.RoomIndex >= 0 && s.RoomIndex < len(names) {
				room = names[s.RoomIndex]
			}
		}
		dayName := "UNKNOWN"
		if s.Day >= 0 && s.Day < len(o.Days) {
			dayName = o.Days[s.Day]
		}
		period := o.Grid.FormatPeriod(s.Start, s.Duration)

		for i, blk := range s.Blocks {
			id := fmt.Sprintf("%d", s.BaseID)
			if s.IsShared() {
				if i == 0 {
					id += "-A"
				} else {
					id += "-B"
				}
			}
			events = append(events, models.ScheduleEvent{
				ScheduleID:     id,
				CourseCode:     s.CourseCode,
				BaseCourseCode: s.CourseCode,
				Title:          s.Title,
				Program:        s.Program,
				Year:           s.Year,
				SessionKind:    s.Kind.EventKind(),
				Block:          blk,
				Day:            dayName,
				Period:         period,
				Room:           room,
			})
		}
	}
	return events
}
