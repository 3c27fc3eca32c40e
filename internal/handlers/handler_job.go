package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"
	"github.com/JobSiteOps/job_tracking_app/internal/utils/pagination"

	"github.com/gin-gonic/gin"
)

// jobHandler handles HTTP requests related to jobs.
type jobHandler struct {
	jobService portssvc.JobSvcFacade
}

func newJobHandler(js portssvc.JobSvcFacade) *jobHandler {
	return &jobHandler{
		jobService: js,
	}
}

// RegisterJobRoutes registers all job-related routes.
func RegisterJobRoutes(rg *gin.RouterGroup, jobService portssvc.JobSvcFacade) {
	h := newJobHandler(jobService)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/board", h.getBoard)
		jobs.GET("/stream", h.streamJobs)
		jobs.GET("/:id", h.getJob)
		jobs.POST("/:id/handoff", h.handoff)
		jobs.POST("/:id/lane", h.moveLane)
		jobs.PUT("/:id/phase-stage", h.updatePhaseStage)
		jobs.PUT("/:id/assignments", h.updateAssignments)
		jobs.GET("/:id/assignments/effective", h.getEffectiveAssignments)
		jobs.GET("/:id/activity", h.listActivity)
	}
}

// createJob godoc
// @Summary Create a new job
// @Description Opens a new job with one ACTIVE phase in the creator's department
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   job body dto.CreateJobRequest true "Job details"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /jobs [post]
func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create job request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create job in service", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to create job"})
		return
	}

	logger.Info("Job created", slog.String("job_id", job.JobID))
	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

// getJob godoc
// @Summary Get a job by ID
// @Description Retrieves a job with its full phase history; out-of-scope jobs return 403
// @Tags jobs
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 403 {object} ErrorResponse "Job outside your scope"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *jobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), jobID, userID)
	if err != nil {
		logger.Warn("Failed to get job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to retrieve job"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// listJobs godoc
// @Summary List visible jobs
// @Description Retrieves a page of jobs visible to the authenticated user
// @Tags jobs
// @Produce  json
// @Param   limit query int false "Limit (default 20)"
// @Param   offset query int false "Offset (default 0)"
// @Param   pageToken query string false "Opaque cursor from a previous page"
// @Success 200 {object} dto.ListJobsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListJobsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	if params.PageToken != "" {
		offset, err := pagination.DecodeOffsetToken(params.PageToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid page token"})
			return
		}
		params.Offset = offset
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to list jobs"})
		return
	}

	resp := dto.ToListJobsResponse(jobs)
	resp.NextPageToken = pagination.NextToken(params.Offset, params.Limit, len(jobs))
	c.JSON(http.StatusOK, resp)
}

// getBoard godoc
// @Summary Get the Kanban board
// @Description Retrieves the viewer's visible jobs bucketed by lane; every lane is present even when empty
// @Tags jobs
// @Produce  json
// @Success 200 {object} dto.BoardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /jobs/board [get]
func (h *jobHandler) getBoard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	buckets, err := h.jobService.BoardJobs(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to build board", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to build board"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(buckets))
}

// streamJobs godoc
// @Summary Stream visible jobs over SSE
// @Description Pushes the viewer's visible job set as a server-sent event after every committed mutation; the first snapshot arrives immediately
// @Tags jobs
// @Produce  text/event-stream
// @Success 200 {object} dto.ListJobsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /jobs/stream [get]
func (h *jobHandler) streamJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	updates, cancel, err := h.jobService.SubscribeVisibleJobs(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to subscribe to job updates", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to open job stream"})
		return
	}
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case jobs, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("jobs", dto.ToListJobsResponse(jobs))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// handoff godoc
// @Summary Hand a job off to another department
// @Description Completes the ACTIVE phase and opens a new one in the target department; atomic on the job
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   handoff body dto.HandoffRequest true "Target department"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse "Invalid transition"
// @Failure 403 {object} ErrorResponse "Not permitted to transfer"
// @Failure 409 {object} ErrorResponse "Job modified concurrently"
// @Security BearerAuth
// @Router /jobs/{id}/handoff [post]
func (h *jobHandler) handoff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.HandoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.jobService.Handoff(c.Request.Context(), jobID, req.TargetDepartmentID, userID)
	if err != nil {
		logger.Warn("Handoff failed",
			slog.String("job_id", jobID),
			slog.String("target_department_id", req.TargetDepartmentID),
			slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to hand off job"})
		return
	}

	logger.Info("Job handed off",
		slog.String("job_id", jobID),
		slog.String("target_department_id", req.TargetDepartmentID))
	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// moveLane godoc
// @Summary Move a job to another Kanban lane
// @Description Applies the mutation a board drop implies; moving to the current lane is a no-op
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   move body dto.LaneMoveRequest true "Target lane"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse "Invalid lane"
// @Failure 409 {object} ErrorResponse "Job modified concurrently"
// @Security BearerAuth
// @Router /jobs/{id}/lane [post]
func (h *jobHandler) moveLane(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.LaneMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.jobService.ApplyLaneMove(c.Request.Context(), jobID, domain.Lane(req.TargetLane), userID)
	if err != nil {
		logger.Warn("Lane move failed",
			slog.String("job_id", jobID),
			slog.String("target_lane", req.TargetLane),
			slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to move job"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// updatePhaseStage godoc
// @Summary Advance a completed phase's stage
// @Description Moves a department's completed phase from REVIEW to BILLING; forward only
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   stage body dto.UpdatePhaseStageRequest true "Department and target stage"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse "Invalid stage transition"
// @Failure 403 {object} ErrorResponse "Not permitted"
// @Security BearerAuth
// @Router /jobs/{id}/phase-stage [put]
func (h *jobHandler) updatePhaseStage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePhaseStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.jobService.UpdateCompletedPhaseStage(c.Request.Context(), jobID, req.DepartmentID, domain.PhaseStage(req.Stage), userID)
	if err != nil {
		logger.Warn("Phase stage update failed",
			slog.String("job_id", jobID),
			slog.String("department_id", req.DepartmentID),
			slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to update phase stage"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// updateAssignments godoc
// @Summary Replace a job's live assignments
// @Description Replaces the assignment record of the job's ACTIVE phase; rejected for departments holding only a completed phase
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   assignments body dto.UpdateAssignmentsRequest true "New assignments"
// @Success 200 {object} dto.JobResponse
// @Failure 403 {object} ErrorResponse "Assignments are frozen for your department"
// @Failure 409 {object} ErrorResponse "Job modified concurrently"
// @Security BearerAuth
// @Router /jobs/{id}/assignments [put]
func (h *jobHandler) updateAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.jobService.UpdateAssignments(c.Request.Context(), jobID, req.Assignments.ToDomain(), userID)
	if err != nil {
		logger.Warn("Assignment update failed", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to update assignments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// getEffectiveAssignments godoc
// @Summary Get the effective assignment view
// @Description Resolves live vs. frozen snapshot assignments and the status label for the viewer's department context
// @Tags jobs
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} dto.EffectiveAssignmentsResponse
// @Failure 403 {object} ErrorResponse "Job outside your scope"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/assignments/effective [get]
func (h *jobHandler) getEffectiveAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	effective, err := h.jobService.GetEffectiveAssignments(c.Request.Context(), jobID, userID)
	if err != nil {
		logger.Warn("Failed to resolve assignments", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to resolve assignments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEffectiveAssignmentsResponse(*effective))
}

// listActivity godoc
// @Summary List a job's activity trail
// @Description Retrieves the job's audit trail, newest first
// @Tags jobs
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   limit query int false "Limit (default 50)"
// @Success 200 {array} dto.ActivityResponse
// @Failure 403 {object} ErrorResponse "Job outside your scope"
// @Failure 404 {object} ErrorResponse "Job not found"
// @Security BearerAuth
// @Router /jobs/{id}/activity [get]
func (h *jobHandler) listActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params struct {
		Limit int `form:"limit,default=50"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.jobService.ListActivity(c.Request.Context(), jobID, userID, params.Limit)
	if err != nil {
		logger.Warn("Failed to list activity", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to list activity"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListActivityResponse(entries))
}
