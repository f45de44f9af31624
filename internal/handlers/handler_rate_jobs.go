package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/dto"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// rateJobHandler handles HTTP requests related to the exchange rate job pipeline.
type rateJobHandler struct {
	plannerService portssvc.RatePlannerSvcFacade
	workerService  portssvc.RateWorkerSvcFacade
	jobService     portssvc.RateJobReaderSvc
	batchLimit     int
}

// newRateJobHandler creates a new rateJobHandler.
func newRateJobHandler(ps portssvc.RatePlannerSvcFacade, ws portssvc.RateWorkerSvcFacade, js portssvc.RateJobReaderSvc, batchLimit int) *rateJobHandler {
	return &rateJobHandler{
		plannerService: ps,
		workerService:  ws,
		jobService:     js,
		batchLimit:     batchLimit,
	}
}

// registerRateJobRoutes registers routes related to rate job planning and processing.
func registerRateJobRoutes(rg *gin.RouterGroup, plannerService portssvc.RatePlannerSvcFacade, workerService portssvc.RateWorkerSvcFacade, jobService portssvc.RateJobReaderSvc, batchLimit int) {
	h := newRateJobHandler(plannerService, workerService, jobService, batchLimit)

	// Planning and processing call out to the rate provider, so the
	// mutation routes get their own per-IP limit on top of auth.
	rate, _ := limiter.NewRateFromFormatted("10-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	rateJobs := rg.Group("/rate-jobs")
	{
		rateJobs.POST("/plan", limitMiddleware, h.planJobs)
		rateJobs.POST("/process", limitMiddleware, h.processPendingJobs)
		rateJobs.POST("/:job_id/process", limitMiddleware, h.processJob)
		rateJobs.GET("/:job_id", h.getJob)
	}
}

// planJobs godoc
// @Summary Plan exchange rate backfill jobs
// @Description Detects missing exchange rates and creates pending fetch jobs, skipping ranges already in flight
// @Tags rate jobs
// @Accept  json
// @Produce  json
// @Param   request body dto.PlanJobsRequest false "Optional planning scope"
// @Success 200 {object} dto.PlanJobsResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to plan jobs"
// @Security BearerAuth
// @Router /rate-jobs/plan [post]
func (h *rateJobHandler) planJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PlanJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for PlanJobs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		date = &parsed
	}

	logger.Info("Received request to plan rate jobs")

	result, err := h.plannerService.PlanJobs(c.Request.Context(), date)
	if err != nil {
		logger.Error("Failed to plan rate jobs in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to plan jobs"})
		return
	}

	logger.Info("Rate job planning completed",
		slog.Int("jobs_created", result.JobsCreated),
		slog.Int("jobs_skipped", result.JobsSkipped),
		slog.Int("jobs_reclaimed", result.JobsReclaimed),
	)
	c.JSON(http.StatusOK, dto.ToPlanJobsResponse(result))
}

// processJob godoc
// @Summary Process a single rate job
// @Description Claims the given job, fetches its missing rates from the provider and stores them
// @Tags rate jobs
// @Produce  json
// @Param   job_id path string true "Job ID"
// @Success 200 {object} dto.ProcessJobResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 500 {object} map[string]string "Failed to process job"
// @Security BearerAuth
// @Router /rate-jobs/{job_id}/process [post]
func (h *rateJobHandler) processJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("job_id")

	logger = logger.With(slog.String("job_id", jobID))
	logger.Info("Received request to process rate job")

	status, err := h.workerService.ProcessJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Rate job not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			logger.Error("Failed to process rate job", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process job"})
		}
		return
	}

	logger.Info("Rate job processed", slog.String("status", string(status)))
	c.JSON(http.StatusOK, dto.ProcessJobResponse{
		JobID:  jobID,
		Status: string(status),
	})
}

// processPendingJobs godoc
// @Summary Process pending rate jobs
// @Description Drains pending rate jobs with bounded concurrency; one job's failure does not block the others
// @Tags rate jobs
// @Accept  json
// @Produce  json
// @Param   request body dto.ProcessBatchRequest false "Optional batch size override"
// @Success 200 {object} dto.ProcessBatchResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to process jobs"
// @Security BearerAuth
// @Router /rate-jobs/process [post]
func (h *rateJobHandler) processPendingJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for ProcessPendingJobs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.batchLimit
	}

	logger.Info("Received request to process pending rate jobs", slog.Int("limit", limit))

	result, err := h.workerService.ProcessPendingJobs(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to process pending rate jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process jobs"})
		return
	}

	logger.Info("Pending rate jobs drained",
		slog.Int("jobs_processed", result.JobsProcessed),
		slog.Int("jobs_completed", result.JobsCompleted),
		slog.Int("jobs_failed", result.JobsFailed),
		slog.Int("jobs_requeued", result.JobsRequeued),
	)
	c.JSON(http.StatusOK, dto.ToProcessBatchResponse(result))
}

// getJob godoc
// @Summary Get a rate job
// @Description Retrieves a rate job record by ID for audit and replay
// @Tags rate jobs
// @Produce  json
// @Param   job_id path string true "Job ID"
// @Success 200 {object} dto.RateJobResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 500 {object} map[string]string "Failed to retrieve job"
// @Security BearerAuth
// @Router /rate-jobs/{job_id} [get]
func (h *rateJobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("job_id")

	job, err := h.jobService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Rate job not found", slog.String("job_id", jobID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			logger.Error("Failed to get rate job", slog.String("job_id", jobID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateJobResponse(job))
}
