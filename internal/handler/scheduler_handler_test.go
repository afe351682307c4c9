package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/coursetime/internal/dto"
	appErrors "github.com/deptsched/coursetime/pkg/errors"
)

type schedulerServiceMock struct {
	processID string
	status    *dto.ScheduleStatusResponse
	found     bool
	statusErr error
}

func (m *schedulerServiceMock) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	return &dto.GenerateScheduleResponse{ProcessID: m.processID}, nil
}

func (m *schedulerServiceMock) Status(ctx context.Context, processID string) (*dto.ScheduleStatusResponse, bool, error) {
	return m.status, m.found, m.statusErr
}

func TestGenerateAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerServiceMock{processID: "proc-1"}
	handler := NewSchedulerHandler(mockSvc)

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), "proc-1")
}

func TestStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerServiceMock{found: false}
	handler := NewSchedulerHandler(mockSvc)

	req, _ := http.NewRequest(http.MethodGet, "/schedules/status/missing", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "process_id", Value: "missing"}}

	handler.Status(c)

	require.Equal(t, appErrors.ErrNotFound.Status, w.Code)
}

func TestStatusFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerServiceMock{
		found:  true,
		status: &dto.ScheduleStatusResponse{ProcessID: "proc-1", Status: "running", Progress: 40},
	}
	handler := NewSchedulerHandler(mockSvc)

	req, _ := http.NewRequest(http.MethodGet, "/schedules/status/proc-1", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "process_id", Value: "proc-1"}}

	handler.Status(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "running")
}
