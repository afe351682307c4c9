package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/coursetime/internal/dto"
	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/orchestrator"
	"github.com/deptsched/coursetime/internal/progress"
)

type fakeRepo struct {
	courses      []models.Course
	rooms        models.RoomCatalog
	days         []string
	timeSettings models.TimeSettings
}

func (f fakeRepo) LoadCourses(ctx context.Context) ([]models.Course, error) { return f.courses, nil }
func (f fakeRepo) LoadRooms(ctx context.Context) (models.RoomCatalog, error) { return f.rooms, nil }
func (f fakeRepo) LoadTimeSettings(ctx context.Context) (models.TimeSettings, error) {
	if f.timeSettings == (models.TimeSettings{}) {
		return models.TimeSettings{StartHour: 7, EndHour: 21}, nil
	}
	return f.timeSettings, nil
}
func (f fakeRepo) LoadDays(ctx context.Context) ([]string, error) { return f.days, nil }

func testSettings() orchestrator.Settings {
	return orchestrator.Settings{
		Workers:            2,
		Seed:               1,
		BaseTimeoutSeconds: 5,
		PerCourseSeconds:   1,
	}
}

func TestGenerateThenStatusReachesDone(t *testing.T) {
	repo := fakeRepo{
		courses: []models.Course{{CourseCode: "CS301", Title: "Algorithms", Program: "BSCS", YearLevel: 3, UnitsLecture: 3, Blocks: 1}},
		rooms:   models.RoomCatalog{"lecture": {"R101", "R102"}, "lab": {"L201"}},
		days:    []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	}
	store := progress.New(nil, time.Minute)
	svc := New(repo, store, testSettings(), nil, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ProcessID)

	var final *dto.ScheduleStatusResponse
	for i := 0; i < 100; i++ {
		status, ok, err := svc.Status(context.Background(), resp.ProcessID)
		require.NoError(t, err)
		require.True(t, ok)
		if status.Status != "running" {
			final = status
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	require.NotNil(t, final)
	assert.Equal(t, "done", final.Status)
	assert.NotEmpty(t, final.Events)
}

func TestGenerateInfeasiblePublishesImpossibleSentinel(t *testing.T) {
	repo := fakeRepo{
		courses:      []models.Course{{CourseCode: "CS301", Title: "Algorithms", Program: "BSCS", YearLevel: 3, UnitsLecture: 3, Blocks: 1}},
		rooms:        models.RoomCatalog{"lecture": {"R101"}, "lab": {"L201"}},
		days:         []string{"Monday"},
		timeSettings: models.TimeSettings{StartHour: 7, EndHour: 7.5},
	}
	store := progress.New(nil, time.Minute)
	svc := New(repo, store, testSettings(), nil, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{})
	require.NoError(t, err)

	var final *dto.ScheduleStatusResponse
	for i := 0; i < 100; i++ {
		status, ok, err := svc.Status(context.Background(), resp.ProcessID)
		require.NoError(t, err)
		require.True(t, ok)
		if status.Status != "running" {
			final = status
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	require.NotNil(t, final)
	assert.Equal(t, "failed", final.Status)
	assert.Equal(t, progress.Impossible, final.Error)
	assert.NotEqual(t, -1, final.Progress, "PhaseInfeasible must not reuse the InternalError crash sentinel")
	assert.Empty(t, final.Events)
}

func TestStatusUnknownProcessReturnsFalse(t *testing.T) {
	store := progress.New(nil, time.Minute)
	svc := New(fakeRepo{}, store, testSettings(), nil, nil)

	_, ok, err := svc.Status(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}
