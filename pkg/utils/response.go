package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "workshop-system/pkg/errors"
)

// Формат ответов совместим со старым API:
// успех — тело как есть, 404 — {"message": ...}, остальные ошибки — {"error": ...}.

func MessageResponse(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusOK, map[string]string{"message": message})
}

func ErrorResponse(ctx echo.Context, err error) error {
	var invalidInput *apperrors.InvalidInputError
	var validationErrs validator.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.As(err, &invalidInput), errors.As(err, &validationErrs):
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &httpErr):
		return ctx.JSON(httpErr.Code, map[string]interface{}{"error": httpErr.Message})
	default:
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
