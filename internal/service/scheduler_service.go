// Package service wires the snapshot repository, the orchestrator, and
// the progress store into the two operations the HTTP surface exposes:
// start a generation run and poll its status.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deptsched/coursetime/internal/dto"
	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/orchestrator"
	"github.com/deptsched/coursetime/internal/progress"
	"github.com/deptsched/coursetime/internal/timegrid"
	appErrors "github.com/deptsched/coursetime/pkg/errors"
	"github.com/deptsched/coursetime/pkg/metrics"
)

// snapshotLoader is the subset of SnapshotRepository the service needs,
// narrowed to an interface so tests can fake it.
type snapshotLoader interface {
	LoadCourses(ctx context.Context) ([]models.Course, error)
	LoadRooms(ctx context.Context) (models.RoomCatalog, error)
	LoadTimeSettings(ctx context.Context) (models.TimeSettings, error)
	LoadDays(ctx context.Context) ([]string, error)
}

// SchedulerService runs a generation asynchronously and reports back
// through the progress store, mirroring the shape of a request/poll
// pair rather than blocking an HTTP request for the whole solve.
type SchedulerService struct {
	repo      snapshotLoader
	store     *progress.Store
	settings  orchestrator.Settings
	metrics   *metrics.SchedulerMetrics
	logger    *zap.Logger
	validator *validator.Validate
}

// New wires a SchedulerService.
func New(repo snapshotLoader, store *progress.Store, settings orchestrator.Settings, m *metrics.SchedulerMetrics, logger *zap.Logger) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulerService{repo: repo, store: store, settings: settings, metrics: m, logger: logger, validator: validator.New()}
}

// Generate accepts a request, allocates a process id, and launches the
// run in the background. It returns as soon as the id is minted; the
// caller polls Status for progress and, eventually, the schedule.
func (s *SchedulerService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	processID := uuid.NewString()

	settings := s.settings
	if req.Seed != nil {
		settings.Seed = *req.Seed
	}

	if err := s.store.SetProgress(ctx, processID, 0); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record run")
	}

	go s.run(processID, settings)

	return &dto.GenerateScheduleResponse{ProcessID: processID}, nil
}

// run executes one full generation, detached from the originating
// request's context so a client disconnect never aborts a solve in
// progress.
func (s *SchedulerService) run(processID string, settings orchestrator.Settings) {
	ctx := context.Background()
	if s.metrics != nil {
		s.metrics.IncRunStarted()
	}

	lastProgress := 0
	report := func(value int) {
		lastProgress = value
		if err := s.store.SetProgress(ctx, processID, value); err != nil {
			s.logger.Warn("failed to publish progress", zap.String("process_id", processID), zap.Error(err))
		}
	}

	courses, err := s.repo.LoadCourses(ctx)
	if err != nil {
		s.fail(ctx, processID, lastProgress, err)
		return
	}
	report(5)

	rooms, err := s.repo.LoadRooms(ctx)
	if err != nil {
		s.fail(ctx, processID, lastProgress, err)
		return
	}
	report(15)

	timeSettings, err := s.repo.LoadTimeSettings(ctx)
	if err != nil {
		s.fail(ctx, processID, lastProgress, err)
		return
	}
	report(35)

	days, err := s.repo.LoadDays(ctx)
	if err != nil {
		s.fail(ctx, processID, lastProgress, err)
		return
	}
	report(45)

	grid := timegrid.New(timeSettings.StartHour, timeSettings.EndHour, len(days))
	orch := orchestrator.New(grid, rooms, days, settings)
	report(50)

	observe := func(phase models.Phase, elapsed time.Duration, attempts int, feasible bool) {
		if s.metrics == nil {
			return
		}
		s.metrics.ObservePhase(phase.String(), elapsed.Seconds(), attempts)
		if !feasible {
			s.metrics.IncPhaseInfeasible(phase.String())
		}
	}

	events, err := orch.Run(ctx, courses, report, observe)
	if err != nil {
		s.fail(ctx, processID, lastProgress, err)
		return
	}

	if err := s.store.SetDone(ctx, processID, events); err != nil {
		s.logger.Error("failed to publish completed schedule", zap.String("process_id", processID), zap.Error(err))
	}
}

// fail publishes a run's terminal failure, distinguishing spec.md §7's
// two distinct kinds: a PhaseInfeasible (the orchestrator ran a phase
// to INFEASIBLE/timeout) publishes the "impossible" sentinel and
// preserves the last reported progress; anything else is an
// InternalError and publishes the -1 crash sentinel.
func (s *SchedulerService) fail(ctx context.Context, processID string, lastProgress int, cause error) {
	if s.metrics != nil {
		s.metrics.IncRunFailed()
	}
	s.logger.Warn("schedule generation failed", zap.String("process_id", processID), zap.Error(cause))

	var publishErr error
	if errors.Is(cause, appErrors.ErrScheduleInfeasible) {
		publishErr = s.store.SetInfeasible(ctx, processID, lastProgress)
	} else {
		publishErr = s.store.SetFailed(ctx, processID, cause)
	}
	if publishErr != nil {
		s.logger.Error("failed to publish failed status", zap.String("process_id", processID), zap.Error(publishErr))
	}
}

// Status reads back a run's current record, converting it to the wire
// shape. The bool return is false when the process id is unknown (or
// its record has expired).
func (s *SchedulerService) Status(ctx context.Context, processID string) (*dto.ScheduleStatusResponse, bool, error) {
	rec, ok, err := s.store.Get(ctx, processID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read run status")
	}
	if !ok {
		return nil, false, nil
	}

	resp := &dto.ScheduleStatusResponse{
		ProcessID: processID,
		Status:    string(rec.Status),
		Progress:  rec.Progress,
		Error:     rec.Error,
	}
	if len(rec.Events) > 0 {
		resp.Events = make([]dto.ScheduleEventResponse, len(rec.Events))
		for i, e := range rec.Events {
			resp.Events[i] = dto.ScheduleEventResponse{
				ScheduleID:  e.ScheduleID,
				CourseCode:  e.CourseCode,
				Title:       e.Title,
				Program:     e.Program,
				Year:        e.Year,
				SessionKind: e.SessionKind,
				Block:       e.Block,
				Day:         e.Day,
				Period:      e.Period,
				Room:        e.Room,
			}
		}
	}
	return resp, true, nil
}
