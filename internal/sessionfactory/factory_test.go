package sessionfactory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/occupancy"
	"github.com/deptsched/coursetime/internal/timegrid"
)

func newFactory() *Factory {
	grid := timegrid.New(7, 21, 6)
	rooms := models.RoomCatalog{"lecture": {"R101", "R102"}, "lab": {"L201"}}
	return New(grid, rooms, NewIDSequence(), NewBalancer())
}

func TestLectureCountDurationSplitsPastThreeSlots(t *testing.T) {
	count, dur := lectureCountDuration(3, false, false)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, dur)

	count, dur = lectureCountDuration(1, false, false)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, dur)
}

func TestLectureCountDurationNSTPNeverSplits(t *testing.T) {
	count, dur := lectureCountDuration(3, false, true)
	assert.Equal(t, 1, count)
	assert.Equal(t, 6, dur)
}

func TestLectureCountDurationPESplitsPastFourHours(t *testing.T) {
	count, dur := lectureCountDuration(5, true, false)
	assert.Equal(t, 2, count)
	assert.Equal(t, 5, dur)
}

func TestLabCountDurationSingleUnit(t *testing.T) {
	count, dur := labCountDuration(1)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, dur)
}

func TestBuildRegularCourseMergesBlocksForYearOne(t *testing.T) {
	f := newFactory()
	ledger := occupancy.New()
	course := models.Course{CourseCode: "CS101", Title: "Intro", Program: "BSCS", YearLevel: 1, UnitsLecture: 3, Blocks: 2}

	plan, ok := f.Build(course, ledger)
	assert.True(t, ok)
	assert.NotEmpty(t, plan.Sessions)
	for _, s := range plan.Sessions {
		assert.ElementsMatch(t, []string{"A", "B"}, s.Blocks)
		assert.True(t, s.IsShared())
	}
}

func TestBuildRegularCourseYearThreeDoesNotMerge(t *testing.T) {
	f := newFactory()
	ledger := occupancy.New()
	course := models.Course{CourseCode: "CS301", Title: "Algorithms", Program: "BSCS", YearLevel: 3, UnitsLecture: 3, Blocks: 2}

	plan, ok := f.Build(course, ledger)
	assert.True(t, ok)
	for _, s := range plan.Sessions {
		assert.Len(t, s.Blocks, 1)
		assert.False(t, s.IsShared())
	}
}

func TestBuildGecCourseProducesPairedSessions(t *testing.T) {
	f := newFactory()
	ledger := occupancy.New()
	course := models.Course{CourseCode: "GEC101", Title: "Ethics", Program: "BSCS", YearLevel: 3, UnitsLecture: 3, Blocks: 1}

	plan, ok := f.Build(course, ledger)
	assert.True(t, ok)
	assert.Len(t, plan.GecPairs, 1)
	assert.NotSame(t, plan.GecPairs[0].First, plan.GecPairs[0].Second)
}

func TestBuildLabProducesRoomConsistencyGroup(t *testing.T) {
	f := newFactory()
	ledger := occupancy.New()
	course := models.Course{CourseCode: "CS302", Title: "OS Lab", Program: "BSCS", YearLevel: 3, UnitsLab: 1, Blocks: 1}

	plan, ok := f.Build(course, ledger)
	assert.True(t, ok)
	assert.Len(t, plan.RoomConsistencyGroups, 1)
	assert.Len(t, plan.RoomConsistencyGroups[0], 2)
}

func TestBuildPracticumProducesConsecutiveGroup(t *testing.T) {
	f := newFactory()
	ledger := occupancy.New()
	course := models.Course{CourseCode: "CS400", Title: "Practicum", Program: "BSCS", YearLevel: 4, UnitsLab: 6, Blocks: 1}

	plan, ok := f.Build(course, ledger)
	assert.True(t, ok)
	assert.Len(t, plan.ConsecutiveGroups, 1)
	assert.Len(t, plan.ConsecutiveGroups[0].Sessions, 2)
	for _, s := range plan.ConsecutiveGroups[0].Sessions {
		assert.Equal(t, models.KindPracticum, s.Kind)
		assert.False(t, s.Physical)
	}
}

func TestBuildPracticumFallsBackToOtherWindowWhenExhausted(t *testing.T) {
	grid := timegrid.New(7, 21, 6)
	ids := NewIDSequence()
	balancer := NewBalancer()
	f := New(grid, models.RoomCatalog{}, ids, balancer)
	ledger := occupancy.New()

	key := models.SectionKey{Program: "BSCS", Year: 4, Block: "A"}
	occupiedEarly := make([]int, 0)
	for day := 0; day <= 2; day++ {
		for off := 0; off < grid.SlotsPerDay; off++ {
			occupiedEarly = append(occupiedEarly, grid.GlobalSlot(day, off))
		}
	}
	ledger.BlockSection(key, occupiedEarly)

	course := models.Course{CourseCode: "CS401", Title: "Practicum", Program: "BSCS", YearLevel: 4, UnitsLab: 6, Blocks: 1}
	plan, ok := f.Build(course, ledger)
	assert.True(t, ok)
	for _, s := range plan.Sessions {
		assert.GreaterOrEqual(t, grid.Day(s.Domain[0]), 3)
	}
}

func TestBuildFailsWhenDomainExhausted(t *testing.T) {
	grid := timegrid.New(12, 21, 6)
	f := New(grid, models.RoomCatalog{"lecture": {"R1"}}, NewIDSequence(), NewBalancer())
	ledger := occupancy.New()

	key := models.SectionKey{Program: "BSCS", Year: 3, Block: "A"}
	full := make([]int, 0)
	for day := 0; day < grid.NumDays; day++ {
		for off := 0; off < grid.SlotsPerDay; off++ {
			full = append(full, grid.GlobalSlot(day, off))
		}
	}
	ledger.BlockSection(key, full)

	course := models.Course{CourseCode: "CS303", Title: "Full", Program: "BSCS", YearLevel: 3, UnitsLecture: 3, Blocks: 1}
	_, ok := f.Build(course, ledger)
	assert.False(t, ok)
}
