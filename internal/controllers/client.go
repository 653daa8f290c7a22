package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/services"
	"workshop-system/pkg/utils"
)

type ClientController struct {
	clientService services.ClientServiceInterface
	logger        *zap.Logger
}

func NewClientController(
	clientService services.ClientServiceInterface,
	logger *zap.Logger,
) *ClientController {
	return &ClientController{
		clientService: clientService,
		logger:        logger,
	}
}

func parseIDParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "некорректный id")
	}
	return id, nil
}

func (c *ClientController) CreateClient(ctx echo.Context) error {
	var d dto.CreateClientDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в теле запроса"))
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	client, err := c.clientService.CreateClient(ctx.Request().Context(), d)
	if err != nil {
		c.logger.Error("ошибка создания клиента", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, client)
}

func (c *ClientController) GetClients(ctx echo.Context) error {
	clients, err := c.clientService.GetClients(ctx.Request().Context())
	if err != nil {
		c.logger.Error("ошибка получения списка клиентов", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, clients)
}

// FindClient отдает клиента вместе со всеми его заказами.
func (c *ClientController) FindClient(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.clientService.GetClientWithOrders(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *ClientController) UpdateClient(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var d dto.UpdateClientDTO
	if err := json.Unmarshal(rawBody, &d); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в теле запроса"))
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	client, err := c.clientService.UpdateClient(ctx.Request().Context(), id, d, rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, client)
}

func (c *ClientController) DeleteClient(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.clientService.DeleteClient(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.MessageResponse(ctx, "Клиент и связанные заказы удалены")
}
