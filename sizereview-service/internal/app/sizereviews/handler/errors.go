package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeitmall/pkg/logger"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/service"
)

// retryAfterSeconds - подсказка клиенту для повторов при 503
const retryAfterSeconds = "5"

// StatusClientClosedRequest - клиент отключился до ответа
const StatusClientClosedRequest = 499

// writeError переводит ошибки сервиса в HTTP ответ
func writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, entity.ErrorResponse{
			Error:  validationErr.Message,
			Reason: string(validationErr.Reason),
		})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Product not found"})
	case errors.Is(err, service.ErrResponseAbandoned):
		logger.Info().Err(err).Msg("Client closed request after size review was stored")
		c.AbortWithStatus(StatusClientClosedRequest)
	case errors.Is(err, service.ErrStorageUnavailable):
		logger.Error().Err(err).Msg("Size review storage unavailable")
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Storage temporarily unavailable, retry later"})
	case errors.Is(err, service.ErrCatalogUnavailable):
		logger.Error().Err(err).Msg("Catalog unavailable")
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, entity.ErrorResponse{Error: "Catalog temporarily unavailable, retry later"})
	default:
		logger.Error().Err(err).Msg("Unexpected error")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal server error"})
	}
}
