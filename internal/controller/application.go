package controller

import (
	"cloudport-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type applicationRoutesHandler struct {
	applicationService service.Application
	validate           *validator.Validate
}

func newApplicationRoutesHandler(outer *routeGroup, services *service.Services, v *validator.Validate) *applicationRoutesHandler {
	h := &applicationRoutesHandler{applicationService: services.Application, validate: v}

	outer.POST("/jobs/:jobId/applications", h.Apply)
	outer.GET("/jobs/:jobId/applications", h.GetJobApplications)
	outer.GET("/applications/my", h.GetUserApplications)
	outer.GET("/applications/:applicationId", h.GetApplication)
	outer.PUT("/applications/:applicationId/status", h.UpdateApplicationStatus)

	return h
}

type applyInput struct {
	Message string `json:"message" validate:"max=5000"`
}

// /jobs/:jobId/applications
func (h *applicationRoutesHandler) Apply(c echo.Context) error {
	var input applyInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	application, err := h.applicationService.Apply(c.Request().Context(), callerOf(c), c.Param("jobId"), input.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, application)
}

// /jobs/:jobId/applications
func (h *applicationRoutesHandler) GetJobApplications(c echo.Context) error {
	input := newPaginationInput()
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	applications, err := h.applicationService.GetJobApplications(c.Request().Context(), callerOf(c), c.Param("jobId"), input.toEntity())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, applications)
}

// /applications/my
func (h *applicationRoutesHandler) GetUserApplications(c echo.Context) error {
	input := newPaginationInput()
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	applications, err := h.applicationService.GetUserApplications(c.Request().Context(), callerOf(c), input.toEntity())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, applications)
}

// /applications/:applicationId
func (h *applicationRoutesHandler) GetApplication(c echo.Context) error {
	application, err := h.applicationService.GetApplication(c.Request().Context(), callerOf(c), c.Param("applicationId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, application)
}

// /applications/:applicationId/status
func (h *applicationRoutesHandler) UpdateApplicationStatus(c echo.Context) error {
	var input updateStatusInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	application, err := h.applicationService.UpdateApplicationStatus(c.Request().Context(), callerOf(c), c.Param("applicationId"), input.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, application)
}
