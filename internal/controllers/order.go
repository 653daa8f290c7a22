package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/entities"
	"workshop-system/internal/services"
	apperrors "workshop-system/pkg/errors"
	"workshop-system/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

// readOrderPayload принимает либо multipart (поле `data` с JSON + опциональное
// поле `file`), либо обычный JSON, когда файла нет.
func readOrderPayload(ctx echo.Context) ([]byte, *multipart.FileHeader, error) {
	if dataString := ctx.FormValue("data"); dataString != "" {
		file, err := ctx.FormFile("file")
		if err != nil && err != http.ErrMissingFile {
			return nil, nil, err
		}
		return []byte(dataString), file, nil
	}

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, nil, err
	}
	if len(rawBody) == 0 {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "пустое тело запроса: ожидается JSON или multipart-поле 'data'")
	}
	return rawBody, nil, nil
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	rawBody, file, err := readOrderPayload(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var d dto.CreateOrderDTO
	if err := json.Unmarshal(rawBody, &d); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в данных заказа"))
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	order, err := c.orderService.CreateOrder(ctx.Request().Context(), d, file)
	if err != nil {
		c.logger.Error("ошибка создания заказа", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, order)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	order, err := c.orderService.FindOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, order)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	rawBody, file, err := readOrderPayload(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var d dto.UpdateOrderDTO
	if err := json.Unmarshal(rawBody, &d); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректный JSON в данных заказа"))
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	order, err := c.orderService.UpdateOrder(ctx.Request().Context(), id, d, rawBody, file)
	if err != nil {
		c.logger.Error("ошибка обновления заказа", zap.Int64("orderId", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, order)
}

func (c *OrderController) DeleteOrder(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.orderService.DeleteOrder(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.MessageResponse(ctx, "Заказ удален")
}

func (c *OrderController) SearchOrders(ctx echo.Context) error {
	filter, err := parseSearchFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	orders, err := c.orderService.SearchOrders(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ошибка поиска заказов", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orders)
}

// ExportOrders выгружает результат поиска в XLSX с теми же фильтрами.
func (c *OrderController) ExportOrders(ctx echo.Context) error {
	filter, err := parseSearchFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	orders, err := c.orderService.SearchOrders(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ошибка выгрузки заказов", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return c.respondWithXLSX(ctx, orders)
}

var exportHeaders = []interface{}{
	"ID", "Название", "Номер", "Работа", "Статус", "Тип", "Оплата",
	"Дата приема", "Дата выдачи", "Сумма", "Получено", "Файл", "ID клиента",
}

func (c *OrderController) respondWithXLSX(ctx echo.Context, orders []entities.Order) error {
	f := excelize.NewFile()
	sheet := "Заказы"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, o := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			o.ID, o.OrderName.String, o.Number.String, o.Work.String,
			o.Status.String, o.Type.String, o.PaymentStatus.String,
			o.AddDate.String, o.DeliveryDate.String,
			o.TotalAmount.Float64, o.ReceivedPayment.Float64,
			o.AttachmentURL.String, o.ClientID,
		}
		f.SetSheetRow(sheet, cell, &row)
	}

	fileName := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response())
}

func parseSearchFilter(ctx echo.Context) (dto.OrderSearchFilter, error) {
	filter := dto.OrderSearchFilter{
		Name:   ctx.QueryParam("name"),
		Number: ctx.QueryParam("number"),
	}

	fromStr, toStr := ctx.QueryParam("fromDate"), ctx.QueryParam("toDate")
	// Диапазон применяется только когда заданы обе границы.
	if fromStr != "" && toStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return filter, apperrors.NewInvalidInputError("некорректный fromDate, ожидается формат 2006-01-02")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return filter, apperrors.NewInvalidInputError("некорректный toDate, ожидается формат 2006-01-02")
		}
		filter.FromDate, filter.ToDate = &from, &to
	}

	return filter, nil
}
