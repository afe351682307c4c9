// Package repository provides the read-only snapshot adapters the
// Orchestrator needs before it can run: the offered courses, the room
// catalog, the working-day time settings, and the day names. None of
// these are written back; schedule generation never persists anything
// beyond the in-memory/Redis progress and result store (internal/progress).
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/deptsched/coursetime/internal/models"
)

// courseRow is the wire shape of one offered-course row.
type courseRow struct {
	CourseCode   string  `db:"course_code"`
	Title        string  `db:"title"`
	Program      string  `db:"program"`
	YearLevel    int     `db:"year_level"`
	UnitsLecture float64 `db:"units_lecture"`
	UnitsLab     float64 `db:"units_lab"`
	Blocks       int     `db:"blocks"`
}

// roomRow is one row of the room catalog: a room name under a room type.
type roomRow struct {
	RoomType string `db:"room_type"`
	Name     string `db:"name"`
}

// timeSettingsRow is the single working-day configuration row.
type timeSettingsRow struct {
	StartTime float64 `db:"start_time"`
	EndTime   float64 `db:"end_time"`
}

// dayRow is one day-of-week name, ordered by its index.
type dayRow struct {
	Name string `db:"name"`
}

// SnapshotRepository loads the read-only inputs a scheduling run needs.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository returns a repository backed by db.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// LoadCourses returns every offered course.
func (r *SnapshotRepository) LoadCourses(ctx context.Context) ([]models.Course, error) {
	var rows []courseRow
	query := `SELECT course_code, title, program, year_level, units_lecture, units_lab, blocks FROM courses`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, models.Course{
			CourseCode:   row.CourseCode,
			Title:        row.Title,
			Program:      row.Program,
			YearLevel:    row.YearLevel,
			UnitsLecture: row.UnitsLecture,
			UnitsLab:     row.UnitsLab,
			Blocks:       row.Blocks,
		})
	}
	return courses, nil
}

// LoadRooms returns the room catalog, normalized (lower-cased room
// type keys).
func (r *SnapshotRepository) LoadRooms(ctx context.Context) (models.RoomCatalog, error) {
	var rows []roomRow
	query := `SELECT room_type, name FROM rooms ORDER BY room_type, name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	catalog := make(models.RoomCatalog)
	for _, row := range rows {
		catalog[row.RoomType] = append(catalog[row.RoomType], row.Name)
	}
	return catalog.Normalize(), nil
}

// LoadTimeSettings returns the working-day bounds, defaulting to 7-21
// when the query fails for any reason, including when no row is
// configured.
func (r *SnapshotRepository) LoadTimeSettings(ctx context.Context) (models.TimeSettings, error) {
	var row timeSettingsRow
	query := `SELECT start_time, end_time FROM time_settings LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return models.TimeSettings{StartHour: 7, EndHour: 21}, nil
	}
	return models.TimeSettings{StartHour: row.StartTime, EndHour: row.EndTime}, nil
}

// LoadDays returns the day names in grid-index order.
func (r *SnapshotRepository) LoadDays(ctx context.Context) ([]string, error) {
	var rows []dayRow
	query := `SELECT name FROM scheduling_days ORDER BY day_index`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, nil
	}
	days := make([]string, len(rows))
	for i, row := range rows {
		days[i] = row.Name
	}
	return days, nil
}
