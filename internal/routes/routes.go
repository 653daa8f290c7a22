package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workshop-system/internal/controllers"
	"workshop-system/internal/repositories"
	"workshop-system/pkg/config"
	"workshop-system/pkg/filestorage"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: начало создания маршрутов")

	healthCtrl := controllers.NewHealthController(dbConn, logger)
	e.GET("/", healthCtrl.Status)

	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	runClientRouter(api, dbConn, txManager, cacheRepo, fileStorage, logger, cfg)
	runOrderRouter(api, dbConn, fileStorage, logger)

	logger.Info("InitRouter: создание маршрутов завершено")
}
