// Package models holds the data types shared across the scheduler
// pipeline: input snapshots, the internal session representation, and
// the output schedule events.
package models

import "strings"

// Phase is the coarse grouping used to serialize the scheduling problem
// into smaller constraint problems solved in a fixed order.
type Phase int

const (
	PhaseNSTP Phase = iota
	PhaseGecMat
	PhaseMajorsY4
	PhaseMajorsY3
	PhaseMajorsY2
	PhaseMajorsY1
	PhasePE
)

// order is the fixed solve order for phases; never rely on the
// underlying iota value for comparisons across packages.
func (p Phase) order() int { return int(p) }

// Before reports whether p must be solved before other in the
// orchestrator's phase loop.
func (p Phase) Before(other Phase) bool { return p.order() < other.order() }

func (p Phase) String() string {
	switch p {
	case PhaseNSTP:
		return "NSTP"
	case PhaseGecMat:
		return "GEC_MAT"
	case PhaseMajorsY4:
		return "MAJORS_Y4"
	case PhaseMajorsY3:
		return "MAJORS_Y3"
	case PhaseMajorsY2:
		return "MAJORS_Y2"
	case PhaseMajorsY1:
		return "MAJORS_Y1"
	case PhasePE:
		return "PE"
	default:
		return "UNKNOWN"
	}
}

// AllPhasesInOrder lists every phase in the order the orchestrator
// must solve them.
func AllPhasesInOrder() []Phase {
	return []Phase{PhaseNSTP, PhaseGecMat, PhaseMajorsY4, PhaseMajorsY3, PhaseMajorsY2, PhaseMajorsY1, PhasePE}
}

// Course is a read-only input snapshot describing one offered course.
type Course struct {
	CourseCode   string
	Title        string
	Program      string
	YearLevel    int
	UnitsLecture float64
	UnitsLab     float64
	Blocks       int
}

// Classify determines which phase a course belongs to. Matches the
// priority cascade of spec.md §4.2 exactly: NSTP, then GEC/MAT, then
// PE, then majors by year level (defaulting to year 1 if missing).
func (c Course) Classify() Phase {
	code := strings.ToUpper(c.CourseCode)
	switch {
	case strings.Contains(code, "NSTP"):
		return PhaseNSTP
	case strings.HasPrefix(code, "GEC") || strings.HasPrefix(code, "MAT"):
		return PhaseGecMat
	case strings.Contains(code, "PE") || strings.Contains(code, "PATHFIT"):
		return PhasePE
	default:
		switch c.YearLevel {
		case 4:
			return PhaseMajorsY4
		case 3:
			return PhaseMajorsY3
		case 2:
			return PhaseMajorsY2
		default:
			return PhaseMajorsY1
		}
	}
}

// PriorityScore ranks courses within a phase: lab-bearing, high-block,
// high-unit courses sort first (descending).
func (c Course) PriorityScore() float64 {
	labTerm := 0.0
	if c.UnitsLab != 0 {
		labTerm = 1000
	}
	blocks := c.Blocks
	if blocks < 1 {
		blocks = 1
	}
	return labTerm + float64(blocks)*100 + (c.UnitsLecture+c.UnitsLab)*10
}

// IsNSTP, IsGecMat and IsPE reflect the same substring rules used by
// Classify, exposed individually because DomainBuilder and
// SessionFactory each need a subset of these flags independently of
// the course's overall phase (a GEC course lives in PhaseGecMat, but a
// shared/merged session still needs the is_gec flag directly).
func (c Course) IsNSTP() bool {
	return strings.Contains(strings.ToUpper(c.CourseCode), "NSTP")
}

func (c Course) IsGecMat() bool {
	code := strings.ToUpper(c.CourseCode)
	return strings.HasPrefix(code, "GEC") || strings.HasPrefix(code, "MAT")
}

func (c Course) IsPE() bool {
	code := strings.ToUpper(c.CourseCode)
	return strings.Contains(code, "PE") || strings.Contains(code, "PATHFIT")
}

// IsPracticum mirrors the original's ad-hoc substring detection:
// title containing "PRACTICUM", or code containing "422" or "131".
func (c Course) IsPracticum() bool {
	return strings.Contains(strings.ToUpper(c.Title), "PRACTICUM") ||
		strings.Contains(c.CourseCode, "422") ||
		strings.Contains(c.CourseCode, "131")
}

// BlockLetters returns "A", "B", ... for the course's Blocks count.
func (c Course) BlockLetters() []string {
	n := c.Blocks
	if n < 1 {
		n = 1
	}
	letters := make([]string, n)
	for i := 0; i < n; i++ {
		letters[i] = string(rune('A' + i))
	}
	return letters
}

// ClassifiedCourse pairs a course with the phase it was classified
// into, produced once by the CoursePartitioner and never recomputed.
type ClassifiedCourse struct {
	Course Course
	Phase  Phase
}
