package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewSnapshotRepository(sqlxDB), mock
}

func TestLoadCoursesMapsRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"course_code", "title", "program", "year_level", "units_lecture", "units_lab", "blocks"}).
		AddRow("CS301", "Algorithms", "BSCS", 3, 3.0, 1.0, 2)
	mock.ExpectQuery("SELECT course_code, title, program, year_level, units_lecture, units_lab, blocks FROM courses").WillReturnRows(rows)

	courses, err := repo.LoadCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS301", courses[0].CourseCode)
	assert.Equal(t, 2, courses[0].Blocks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRoomsNormalizesKeys(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"room_type", "name"}).
		AddRow("Lecture", "R101").
		AddRow("Lecture", "R102").
		AddRow("Lab", "L201")
	mock.ExpectQuery("SELECT room_type, name FROM rooms").WillReturnRows(rows)

	catalog, err := repo.LoadRooms(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"R101", "R102"}, catalog.RoomsOf("LECTURE"))
	assert.ElementsMatch(t, []string{"L201"}, catalog.RoomsOf("lab"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTimeSettingsDefaultsOnError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT start_time, end_time FROM time_settings").WillReturnError(sqlmock.ErrCancelled)

	settings, err := repo.LoadTimeSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.0, settings.StartHour)
	assert.Equal(t, 21.0, settings.EndHour)
}

func TestLoadDaysDefaultsWhenEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"name"})
	mock.ExpectQuery("SELECT name FROM scheduling_days").WillReturnRows(rows)

	days, err := repo.LoadDays(context.Background())
	require.NoError(t, err)
	assert.Len(t, days, 6)
	assert.Equal(t, "Monday", days[0])
}
