package controller

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type contractRoutesHandler struct {
	contractService service.Contract
	validate        *validator.Validate
}

func newContractRoutesHandler(outer *routeGroup, services *service.Services, v *validator.Validate) *contractRoutesHandler {
	h := &contractRoutesHandler{contractService: services.Contract, validate: v}

	outer.POST("/contracts", h.PostContract)
	outer.GET("/contracts", h.GetUserContracts)
	outer.GET("/contracts/:contractId", h.GetContract)
	outer.PUT("/contracts/:contractId/approve", h.ApproveContract)
	outer.POST("/contracts/:contractId/payment", h.PayContract)

	return h
}

type postContractInput struct {
	ApplicationId  string `json:"applicationId" validate:"required,max=100"`
	ContractAmount int64  `json:"contractAmount" validate:"gt=0"`
}

// /contracts
func (h *contractRoutesHandler) PostContract(c echo.Context) error {
	var input postContractInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	model := &entity.CreateContractInput{ApplicationId: input.ApplicationId, ContractAmount: input.ContractAmount}
	contract, err := h.contractService.CreateContract(c.Request().Context(), callerOf(c), model)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, contract)
}

type getContractsInput struct {
	Limit         int    `query:"limit" validate:"gte=0,lte=100"`
	Offset        int    `query:"offset" validate:"gte=0"`
	Status        string `query:"status" validate:"omitempty,oneof=pending_engineer pending_company pending_payment paid refunded"`
	ApplicationId string `query:"applicationId" validate:"max=100"`
}

// /contracts
func (h *contractRoutesHandler) GetUserContracts(c echo.Context) error {
	input := getContractsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	filter := entity.ContractFilter{Status: input.Status, ApplicationId: input.ApplicationId}
	contracts, err := h.contractService.GetUserContracts(c.Request().Context(), callerOf(c), filter, entity.NewPaginationInput(input.Limit, input.Offset))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, contracts)
}

// /contracts/:contractId
func (h *contractRoutesHandler) GetContract(c echo.Context) error {
	contract, err := h.contractService.GetContract(c.Request().Context(), callerOf(c), c.Param("contractId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, contract)
}

// /contracts/:contractId/approve
func (h *contractRoutesHandler) ApproveContract(c echo.Context) error {
	contract, err := h.contractService.ApproveContract(c.Request().Context(), callerOf(c), c.Param("contractId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, contract)
}

type payContractInput struct {
	PaymentToken string `json:"paymentToken" validate:"max=255"`
}

// /contracts/:contractId/payment
func (h *contractRoutesHandler) PayContract(c echo.Context) error {
	var input payContractInput
	if err := bindInput(c, h.validate, &input); err != nil {
		return badRequest(c, err)
	}

	contract, err := h.contractService.PayContract(c.Request().Context(), callerOf(c), c.Param("contractId"), input.PaymentToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, contract)
}
