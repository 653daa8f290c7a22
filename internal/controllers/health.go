package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HealthController struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewHealthController(pool *pgxpool.Pool, logger *zap.Logger) *HealthController {
	return &HealthController{pool: pool, logger: logger}
}

// Status сообщает живость процесса и доступность БД.
func (c *HealthController) Status(ctx echo.Context) error {
	storeStatus := "connected"

	pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()
	if err := c.pool.Ping(pingCtx); err != nil {
		c.logger.Warn("БД недоступна при проверке статуса", zap.Error(err))
		storeStatus = "disconnected"
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"message":     "API is running now",
		"storeStatus": storeStatus,
	})
}
