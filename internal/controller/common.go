package controller

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/payment"
	"cloudport-api/internal/service"
	"cloudport-api/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultLimit  = entity.DefaultPageLimit
	defaultOffset = 0
)

type errorResponse struct {
	Reason string `json:"reason"`
}

var kindStatus = map[service.Kind]int{
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
	service.KindNotFound:     http.StatusNotFound,
	service.KindValidation:   http.StatusBadRequest,
	service.KindConflict:     http.StatusConflict,
	service.KindUpstream:     http.StatusBadGateway,
}

func statusFor(err error) int {
	if status, ok := kindStatus[service.KindOf(err)]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// respondError writes err with the status of its kind. Errors without a kind
// are logged and answered with a generic reason.
func respondError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	status := statusFor(err)

	var svcErr *service.Error
	if status == http.StatusInternalServerError || !errors.As(err, &svcErr) {
		logger.Error(ctx, "request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{"Internal server error"})
	}

	reason := svcErr.Error()
	var gwErr *payment.GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		reason += ": " + gwErr.Message
	}

	return c.JSON(status, errorResponse{reason})
}

func badRequest(c echo.Context, err error) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(vErrs)})
	}

	return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
}

// bindInput decodes the request into input and validates it. Requests other
// than GET without a body are validated as they are.
func bindInput(c echo.Context, v *validator.Validate, input any) error {
	req := c.Request()
	if req.ContentLength != 0 || req.Method == http.MethodGet {
		if err := c.Bind(input); err != nil {
			return err
		}
	}

	return v.Struct(input)
}

func callerOf(c echo.Context) *auth.Principal {
	p, _ := auth.FromContext(c.Request().Context())
	return p
}

type paginationInput struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

func newPaginationInput() paginationInput {
	return paginationInput{Limit: defaultLimit, Offset: defaultOffset}
}

func (p paginationInput) toEntity() *entity.PaginationInput {
	return entity.NewPaginationInput(p.Limit, p.Offset)
}

func getAllErrorMessages(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fmt.Sprintf("'%s': %s", fe.Field(), getMessage(fe)))
	}

	return strings.Join(messages, "; ")
}

func getMessage(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return getMessageForNumber(fe)
	case reflect.Slice:
		return getMessageForSlice(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForSlice(fe validator.FieldError) string {
	switch fe.Tag() {
	case "lte", "max":
		return "should have at most " + fe.Param() + " items"
	}

	return "incorrect value passed"
}
