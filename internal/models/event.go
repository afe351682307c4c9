package models

// ScheduleEvent is one emitted row of the final timetable: a single
// section's single meeting. A shared/merged session contributes two
// events (one per block) carrying the same ScheduleID with an "-A"/"-B"
// suffix.
type ScheduleEvent struct {
	ScheduleID     string
	CourseCode     string
	BaseCourseCode string
	Title          string
	Program        string
	Year           int
	SessionKind    string
	Block          string
	Day            string
	Period         string
	Room           string
}
