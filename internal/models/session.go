package models

// SessionKind distinguishes the three meeting types a course can
// schedule.
type SessionKind string

const (
	KindLecture   SessionKind = "lecture"
	KindLab       SessionKind = "lab"
	KindPracticum SessionKind = "practicum"
)

// EventKind is the label SessionKind maps onto in an emitted
// ScheduleEvent (spec.md §3: "Lecture"|"Laboratory"|"Practicum").
func (k SessionKind) EventKind() string {
	switch k {
	case KindLecture:
		return "Lecture"
	case KindLab:
		return "Laboratory"
	case KindPracticum:
		return "Practicum"
	default:
		return string(k)
	}
}

// Session is one meeting the PhaseSolver must place: a day, a starting
// slot, a duration, and (if Physical) a room. A Session with two
// SectionKeys is a shared/merged meeting attended by both sections at
// once; it still has one start/day/room decision.
type Session struct {
	BaseID     int
	CourseCode string
	Title      string
	Program    string
	Year       int
	Blocks     []string
	Kind       SessionKind
	Duration   int
	RoomType   string
	Physical   bool
	Domain     []int
	SectionKeys []SectionKey

	// Assigned by the PhaseSolver once a feasible placement is found.
	Day       int
	Start     int
	RoomIndex int // -1 when online or unassigned
}

// IsShared reports whether this session is attended by two sections at
// once (a merged lecture for two consecutive blocks).
func (s *Session) IsShared() bool { return len(s.SectionKeys) == 2 }

// End returns the global slot one past the session's last occupied
// slot.
func (s *Session) End() int { return s.Start + s.Duration }

// GecPair links the two lecture sessions of one course-block (or
// merged block pair) that must meet on a Mon/Tue or Wed/Thu pairing
// with matching in-day start offsets (spec.md §4.4).
type GecPair struct {
	First  *Session
	Second *Session
}

// ConsecutiveGroup lists a practicum block's sessions in meeting order;
// each session's day must be exactly one more than the previous.
type ConsecutiveGroup struct {
	Sessions []*Session
}

// Plan is everything the SessionFactory derives for one course: the
// sessions themselves, plus the relations the PhaseSolver must enforce
// across them.
type Plan struct {
	Sessions []*Session

	// DailyCapGroups group a course-block's non-practicum sessions
	// (lecture and lab together) for the MAX_PHYSICAL_SESSIONS_PER_DAY
	// cap.
	DailyCapGroups [][]*Session

	// AllDifferentDayGroups group sessions of one course-block-kind
	// (k>=2) whose Day values must be pairwise distinct.
	AllDifferentDayGroups [][]*Session

	GecPairs []GecPair

	ConsecutiveGroups []ConsecutiveGroup

	// RoomConsistencyGroups group physical sessions that must end up
	// in the very same room.
	RoomConsistencyGroups [][]*Session
}
