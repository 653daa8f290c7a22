package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workshop-system/internal/controllers"
	"workshop-system/internal/repositories"
	"workshop-system/internal/services"
	"workshop-system/pkg/filestorage"
)

func runOrderRouter(
	api *echo.Group,
	dbConn *pgxpool.Pool,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) {
	orderRepo := repositories.NewOrderRepository(dbConn, logger)
	orderService := services.NewOrderService(orderRepo, fileStorage, logger)
	orderCtrl := controllers.NewOrderController(orderService, logger)
	{
		api.POST("/orders", orderCtrl.CreateOrder)
		// Статические сегменты должны идти раньше /orders/:id.
		api.GET("/orders/search", orderCtrl.SearchOrders)
		api.GET("/orders/export", orderCtrl.ExportOrders)
		api.GET("/orders/:id", orderCtrl.FindOrder)
		api.PUT("/orders/:id", orderCtrl.UpdateOrder)
		api.DELETE("/orders/:id", orderCtrl.DeleteOrder)
	}
}
