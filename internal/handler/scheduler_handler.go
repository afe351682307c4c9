// Package handler exposes the scheduler's HTTP surface: start a run,
// poll its progress or retrieve the finished schedule.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deptsched/coursetime/internal/dto"
	appErrors "github.com/deptsched/coursetime/pkg/errors"
	"github.com/deptsched/coursetime/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Status(ctx context.Context, processID string) (*dto.ScheduleStatusResponse, bool, error)
}

// SchedulerHandler exposes the generate/status endpoints.
type SchedulerHandler struct {
	service scheduleGenerator
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(svc scheduleGenerator) *SchedulerHandler {
	return &SchedulerHandler{service: svc}
}

// Generate godoc
// @Summary Start a timetable generation run
// @Description Accepts an optional seed and kicks off an asynchronous hierarchical constraint solve over the current course, room, and calendar snapshot. Poll /schedules/status/{processId} for progress.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest false "Generate schedule payload"
// @Success 202 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *SchedulerHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
			return
		}
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// Status godoc
// @Summary Poll a generation run's progress or result
// @Tags Scheduler
// @Produce json
// @Param process_id path string true "Process ID returned by /schedules/generate"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/status/{process_id} [get]
func (h *SchedulerHandler) Status(c *gin.Context) {
	processID := c.Param("process_id")
	status, ok, err := h.service.Status(c.Request.Context(), processID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown process id"))
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
