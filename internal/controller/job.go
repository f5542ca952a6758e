package controller

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type jobRoutesHandler struct {
	jobService service.Job
	validate   *validator.Validate
}

func newJobRoutesHandler(outer *routeGroup, services *service.Services, v *validator.Validate) *jobRoutesHandler {
	h := &jobRoutesHandler{jobService: services.Job, validate: v}

	outer.POST("/jobs", h.PostJob)
	outer.GET("/jobs", h.GetJobs)
	outer.GET("/jobs/my", h.GetUserJobs)
	outer.GET("/jobs/:jobId", h.GetJob)
	outer.PUT("/jobs/:jobId/status", h.UpdateJobStatus)

	return h
}

type postJobInput struct {
	Title                  string   `json:"title" validate:"required,max=200"`
	Description            string   `json:"description" validate:"required,max=5000"`
	Budget                 int64    `json:"budget" validate:"gt=0"`
	Duration               string   `json:"duration" validate:"max=100"`
	RequiredCertifications []string `json:"requiredCertifications" validate:"max=20,dive,required,max=100"`
}

// /jobs
func (h *jobRoutesHandler) PostJob(c echo.Context) error {
	var input postJobInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	model := &entity.CreateJobInput{
		Title: input.Title, Description: input.Description, Budget: input.Budget,
		Duration: input.Duration, RequiredCertifications: input.RequiredCertifications,
	}
	job, err := h.jobService.CreateJob(c.Request().Context(), callerOf(c), model)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, job)
}

// /jobs
func (h *jobRoutesHandler) GetJobs(c echo.Context) error {
	input := newPaginationInput()
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	jobs, err := h.jobService.GetOpenJobs(c.Request().Context(), input.toEntity())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, jobs)
}

// /jobs/my
func (h *jobRoutesHandler) GetUserJobs(c echo.Context) error {
	input := newPaginationInput()
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	jobs, err := h.jobService.GetUserJobs(c.Request().Context(), callerOf(c), input.toEntity())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, jobs)
}

// /jobs/:jobId
func (h *jobRoutesHandler) GetJob(c echo.Context) error {
	job, err := h.jobService.GetJob(c.Request().Context(), callerOf(c), c.Param("jobId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, job)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// /jobs/:jobId/status
func (h *jobRoutesHandler) UpdateJobStatus(c echo.Context) error {
	var input updateStatusInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	job, err := h.jobService.UpdateJobStatus(c.Request().Context(), callerOf(c), c.Param("jobId"), input.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, job)
}
