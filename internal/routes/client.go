package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workshop-system/internal/controllers"
	"workshop-system/internal/repositories"
	"workshop-system/internal/services"
	"workshop-system/pkg/config"
	"workshop-system/pkg/filestorage"
)

func runClientRouter(
	api *echo.Group,
	dbConn *pgxpool.Pool,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
	cfg *config.Config,
) {
	clientRepo := repositories.NewClientRepository(dbConn, logger)
	orderRepo := repositories.NewOrderRepository(dbConn, logger)
	clientService := services.NewClientService(clientRepo, orderRepo, txManager, cacheRepo, fileStorage, cfg.Cache.ClientTTL, logger)
	clientCtrl := controllers.NewClientController(clientService, logger)
	{
		api.POST("/clients", clientCtrl.CreateClient)
		api.GET("/clients", clientCtrl.GetClients)
		api.GET("/clients/:id", clientCtrl.FindClient)
		api.PUT("/clients/:id", clientCtrl.UpdateClient)
		api.DELETE("/clients/:id", clientCtrl.DeleteClient)
	}
}
