package controller

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/service"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type adminRoutesHandler struct {
	adminLogsService service.AdminLogs
	contractService  service.Contract
	validate         *validator.Validate
}

func newAdminRoutesHandler(outer *routeGroup, services *service.Services, v *validator.Validate) *adminRoutesHandler {
	h := &adminRoutesHandler{adminLogsService: services.AdminLogs, contractService: services.Contract, validate: v}

	outer.GET("/logs/system", h.GetSystemLogs, canReadLogs)
	outer.POST("/contracts/:contractId/refund", h.RefundContract, canRefundContract)

	return h
}

type getSystemLogsInput struct {
	LogType   string `query:"logType" validate:"omitempty,oneof=payment_errors login_failures api_errors all"`
	StartTime string `query:"startTime"`
	EndTime   string `query:"endTime"`
	Limit     int    `query:"limit" validate:"gte=0,lte=500"`
}

var errInvalidTime = errors.New("time must be RFC3339 or unix milliseconds")

// parseTime accepts RFC3339 or unix milliseconds. Empty input gives the
// zero time.
func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errInvalidTime
	}

	return t.UTC(), nil
}

// /admin/logs/system
func (h *adminRoutesHandler) GetSystemLogs(c echo.Context) error {
	var input getSystemLogsInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	start, err := parseTime(input.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"'StartTime': " + err.Error()})
	}
	end, err := parseTime(input.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"'EndTime': " + err.Error()})
	}

	query := &entity.SystemLogsQuery{LogType: input.LogType, StartTime: start, EndTime: end, Limit: input.Limit}
	logs, err := h.adminLogsService.GetSystemLogs(c.Request().Context(), callerOf(c), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}

type refundInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

// /admin/contracts/:contractId/refund
func (h *adminRoutesHandler) RefundContract(c echo.Context) error {
	var input refundInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	contract, err := h.contractService.RefundContract(c.Request().Context(), callerOf(c), c.Param("contractId"), input.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, contract)
}
