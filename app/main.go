// Файл: main.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"workshop-system/internal/routes"
	"workshop-system/pkg/config"
	"workshop-system/pkg/database/postgresql"
	"workshop-system/pkg/filestorage"
	applogger "workshop-system/pkg/logger"
	appmiddleware "workshop-system/pkg/middleware"
	"workshop-system/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	e := echo.New()
	e.HideBanner = true
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("обнаружена паника в обработчике",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "внутренняя ошибка сервера"})
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	e.Use(appmiddleware.RequestLogger(logger))

	e.Validator = utils.NewValidator(validator.New())

	// Недоступная на старте БД — фатальная ошибка: не поднимаем сервер
	// поверх неработающего хранилища.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	dbConn, err := postgresql.Connect(connectCtx, cfg.Postgres.DSN)
	cancelConnect()
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if err := postgresql.Migrate(dbConn); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	var fileStorage filestorage.FileStorageInterface
	if cfg.Storage.CloudinaryURL != "" {
		fileStorage, err = filestorage.NewCloudinaryStorage(cfg.Storage.CloudinaryURL)
		if err != nil {
			logger.Fatal("не удалось создать файловое хранилище Cloudinary", zap.Error(err))
		}
		logger.Info("файлы заказов хранятся на Cloudinary")
	} else {
		fileStorage, err = filestorage.NewLocalFileStorage(cfg.Storage.UploadsDir)
		if err != nil {
			logger.Fatal("не удалось создать локальное файловое хранилище", zap.Error(err))
		}
		absPath, err := filepath.Abs(cfg.Storage.UploadsDir)
		if err != nil {
			logger.Fatal("не удалось получить абсолютный путь к uploads", zap.Error(err))
		}
		e.Static("/uploads", absPath)
		logger.Info("файлы заказов хранятся локально", zap.String("dir", absPath))
	}

	routes.InitRouter(e, dbConn, redisClient, fileStorage, logger, cfg)

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке сервера", zap.Error(err))
	}
	logger.Info("сервер остановлен")
}
